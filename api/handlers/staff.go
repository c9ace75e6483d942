package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayos-surigao/ayos-api/api"
	"github.com/ayos-surigao/ayos-api/config"
	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/models"
)

// Staff exported for testing purposes
type Staff struct {
	DB databases.StaffDatabase
}

type createStaffRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Zone         string `json:"zone"`
	SupervisorID string `json:"supervisorId"`
}

type dutyRequest struct {
	OnDuty bool `json:"onDuty"`
}

// CreateStaffHandler registers a new operations staff account
func (s Staff) CreateStaffHandler(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		config.ErrorStatus("unknown role", http.StatusBadRequest, w, fmt.Errorf("unknown role %q", req.Role))
		return
	}
	dept, ok := models.ParseDepartment(req.Department)
	if !ok {
		config.ErrorStatus("unknown department", http.StatusBadRequest, w, fmt.Errorf("unknown department %q", req.Department))
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || email == "" || len(req.Password) < 8 {
		config.ErrorStatus("name, email and a password of at least 8 characters are required",
			http.StatusBadRequest, w, fmt.Errorf("incomplete staff details"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if existing, err := s.DB.FindOne(ctx, bson.M{"email": email}); err == nil && existing != nil {
		config.ErrorStatus("staff account already exists", http.StatusConflict, w, fmt.Errorf("duplicate email %s", email))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	staff := models.OperationsStaff{
		ID:         primitive.NewObjectID(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Password:   string(hash),
		Role:       role,
		Department: dept,
		Zone:       req.Zone,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.SupervisorID != "" {
		supID, err := primitive.ObjectIDFromHex(req.SupervisorID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		staff.SupervisorID = &supID
	}

	if _, err := s.DB.InsertOne(ctx, staff); err != nil {
		config.ErrorStatus("failed to create staff", http.StatusServiceUnavailable, w, err)
		return
	}

	b, err := json.Marshal(staff)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// StaffListHandler returns staff accounts, optionally filtered by duty
// status, department or zone
func (s Staff) StaffListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := bson.M{"active": true}
	if raw := q.Get("on_duty"); raw != "" {
		filter["onDuty"] = raw == "true"
	}
	if raw := q.Get("department"); raw != "" {
		filter["department"] = raw
	}
	if raw := q.Get("zone"); raw != "" {
		filter["zone"] = raw
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	staff, err := s.DB.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get staff", http.StatusServiceUnavailable, w, err)
		return
	}
	if len(staff) == 0 {
		staff = []models.OperationsStaff{}
	}

	b, err := json.Marshal(staff)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// StaffByIDHandler returns a staff account by ID
func (s Staff) StaffByIDHandler(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staff_id"]
	sID, err := primitive.ObjectIDFromHex(staffID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	staff, err := s.DB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get staff by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(staff)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateDutyHandler toggles a staff member's on-duty flag. Off-duty staff
// never receive new assignments.
func (s Staff) UpdateDutyHandler(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staff_id"]
	sID, err := primitive.ObjectIDFromHex(staffID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req dutyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": sID, "active": true},
		bson.M{"$set": bson.M{"onDuty": req.OnDuty, "updatedAt": time.Now().UTC()}})
	if err != nil {
		config.ErrorStatus("failed to update duty status", http.StatusServiceUnavailable, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("failed to get staff by ID", http.StatusNotFound, w, fmt.Errorf("staff %s not found", sID.Hex()))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"onDuty": %t}`, req.OnDuty)))
}

// DeactivateStaffHandler retires a staff account. The document stays so
// old assignments and history keep resolving.
func (s Staff) DeactivateStaffHandler(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staff_id"]
	sID, err := primitive.ObjectIDFromHex(staffID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": sID, "active": true},
		bson.M{"$set": bson.M{"active": false, "onDuty": false, "updatedAt": time.Now().UTC()}})
	if err != nil {
		config.ErrorStatus("failed to deactivate staff", http.StatusServiceUnavailable, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("failed to get staff by ID", http.StatusNotFound, w, fmt.Errorf("staff %s not found", sID.Hex()))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"active": false}`))
}
