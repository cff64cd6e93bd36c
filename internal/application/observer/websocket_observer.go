package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/smilemakc/prana/internal/infrastructure/logger"
	"github.com/smilemakc/prana/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wireEvent is the JSON shape broadcast to connected dashboards.
type wireEvent struct {
	Type           string `json:"type"`
	ExecutionID    string `json:"execution_id"`
	WorkflowID     string `json:"workflow_id"`
	NodeKey        string `json:"node_key,omitempty"`
	SuspensionType string `json:"suspension_type,omitempty"`
	Error          string `json:"error,omitempty"`
}

// WebSocketObserver broadcasts every lifecycle event, as JSON, to every
// currently connected websocket client. Writes are synchronous and have no
// deadline, so a slow client delays Notify; a client whose write fails is
// closed and removed.
type WebSocketObserver struct {
	log *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

// NewWebSocketObserver builds an empty hub.
func NewWebSocketObserver(log *logger.Logger) *WebSocketObserver {
	return &WebSocketObserver{log: log, clients: make(map[*websocket.Conn]struct{})}
}

// Handler upgrades an HTTP request to a websocket and registers the
// connection until it errors or closes.
func (h *WebSocketObserver) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WebSocketObserver) Notify(ctx context.Context, event engine.Event) {
	payload := wireEvent{
		Type:        string(event.Type),
		ExecutionID: event.ExecutionID,
		WorkflowID:  event.WorkflowID,
		NodeKey:     event.NodeKey,
	}
	if event.SuspensionType != "" {
		payload.SuspensionType = string(event.SuspensionType)
	}
	if event.Error != nil {
		payload.Error = event.Error.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to marshal event for websocket broadcast", "error", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("dropping unresponsive websocket client", "error", err.Error())
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
