package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pulsecare/patient-platform/pkg/logging"
)

const writeTimeout = 10 * time.Second

// PushMessage is the frame sent to connected dashboards.
type PushMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Hub fans delivered outbox entries out to websocket dashboard connections,
// keyed by patient ID. Entries with no patient scope go to every connection.
type Hub struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*hubConn]struct{} // patientID -> connections
}

type hubConn struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *hubConn) send(msg PushMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS middleware in front of us.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[string]map[*hubConn]struct{}),
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away. The patient scope comes from the authenticated
// request, set by the auth middleware.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, patientID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	hc := &hubConn{conn: conn}
	h.register(patientID, hc)
	h.logger.Info("dashboard connected", "patient_id", patientID)

	defer func() {
		h.unregister(patientID, hc)
		_ = conn.Close()
		h.logger.Info("dashboard disconnected", "patient_id", patientID)
	}()

	// Reads are only used to detect disconnect; clients do not send data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(patientID string, hc *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[patientID]
	if !ok {
		set = make(map[*hubConn]struct{})
		h.conns[patientID] = set
	}
	set[hc] = struct{}{}
}

func (h *Hub) unregister(patientID string, hc *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[patientID]; ok {
		delete(set, hc)
		if len(set) == 0 {
			delete(h.conns, patientID)
		}
	}
}

// ConnectionCount reports the number of live connections for a patient.
func (h *Hub) ConnectionCount(patientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[patientID])
}

// Handle implements DeliveryHandler: the Deliverer hands each pending outbox
// entry here. A connectionless patient is not an error, the entry is still
// marked delivered upstream.
func (h *Hub) Handle(_ context.Context, entry OutboxEntry) error {
	msg := PushMessage{
		Type:      entry.Type,
		Payload:   entry.Payload,
		Timestamp: entry.CreatedAt.UTC().Format(time.RFC3339),
	}

	h.mu.RLock()
	var targets []*hubConn
	if entry.PatientID == "" {
		for _, set := range h.conns {
			for hc := range set {
				targets = append(targets, hc)
			}
		}
	} else {
		for hc := range h.conns[entry.PatientID] {
			targets = append(targets, hc)
		}
	}
	h.mu.RUnlock()

	for _, hc := range targets {
		if err := hc.send(msg); err != nil {
			h.logger.Debug("push write failed", "error", err, "type", entry.Type)
		}
	}
	return nil
}
