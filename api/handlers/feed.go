package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayos-surigao/ayos-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the ops console and kiosk share the origin in production
	},
}

// FeedHub tracks the ops-console websocket clients subscribed to the
// live report feed (clientId -> *websocket.Conn)
type FeedHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewFeedHub creates an empty hub
func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// HandleFeedWebSocket upgrades the connection and registers the client on
// the live feed
func (h *FeedHub) HandleFeedWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	h.clients[clientID] = conn
	h.mutex.Unlock()
	zap.S().Infow("client connected to /ws/feed", "clientId", clientID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, clientID)
		h.mutex.Unlock()
		zap.S().Infow("client disconnected from /ws/feed", "clientId", clientID)
		return nil
	})

	// drain reads to keep the connection alive until the peer goes away
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// BroadcastReportEvent pushes a report event to every connected client.
// A nil hub is a no-op so handlers can run without the feed in tests.
func (h *FeedHub) BroadcastReportEvent(eventType string, report models.Report) {
	if h == nil {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for clientID, conn := range h.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": eventType,
			"data":  report,
		})
		if err != nil {
			zap.S().Warnw("failed to push feed event, dropping client",
				"clientId", clientID, "event", eventType, "error", err)
			delete(h.clients, clientID)
			conn.Close()
		}
	}
}
