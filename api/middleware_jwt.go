package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ConsoleJWT guards the ops-console management routes. It verifies the
// HS256 token issued by the login handler and requires one of the given
// roles in the claims.
func ConsoleJWT(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			header := r.Header.Get("Authorization")
			parts := strings.Split(header, "Bearer ")
			if len(parts) < 2 {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "missing bearer token"}`))
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(os.Getenv("JWT_SECRET")), nil
			})
			if err != nil || !token.Valid {
				zap.S().Warnw("console token rejected", "error", err)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "invalid token"}`))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "invalid claims"}`))
				return
			}

			role, _ := claims["role"].(string)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "insufficient role"}`))
		})
	}
}
