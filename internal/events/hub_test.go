package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecare/patient-platform/pkg/logging"
)

func dialHub(t *testing.T, hub *Hub, patientID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, patientID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, hub *Hub, patientID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount(patientID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connections for %s, got %d", want, patientID, hub.ConnectionCount(patientID))
}

func TestHubDeliversToPatientConnection(t *testing.T) {
	hub := NewHub(logging.New("error"))
	conn := dialHub(t, hub, "patient-1")
	waitForConnections(t, hub, "patient-1", 1)

	entry := OutboxEntry{
		ID:        uuid.New(),
		PatientID: "patient-1",
		Type:      TypeAlertsUpdated,
		Payload:   json.RawMessage(`{"patient_id":"patient-1"}`),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, hub.Handle(context.Background(), entry))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg PushMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, TypeAlertsUpdated, msg.Type)
	assert.JSONEq(t, `{"patient_id":"patient-1"}`, string(msg.Payload))
}

func TestHubSkipsOtherPatients(t *testing.T) {
	hub := NewHub(logging.New("error"))
	conn := dialHub(t, hub, "patient-2")
	waitForConnections(t, hub, "patient-2", 1)

	entry := OutboxEntry{
		ID:        uuid.New(),
		PatientID: "patient-1",
		Type:      TypeAlertsUpdated,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, hub.Handle(context.Background(), entry))

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg PushMessage
	assert.Error(t, conn.ReadJSON(&msg), "message must not reach other patients")
}

func TestHubHandleWithNoConnections(t *testing.T) {
	hub := NewHub(logging.New("error"))
	entry := OutboxEntry{ID: uuid.New(), PatientID: "patient-1", Type: TypeAlertsCleared, CreatedAt: time.Now().UTC()}
	// Delivery to a connectionless patient is not an error.
	assert.NoError(t, hub.Handle(context.Background(), entry))
}

func TestHubDisconnectUnregisters(t *testing.T) {
	hub := NewHub(logging.New("error"))
	conn := dialHub(t, hub, "patient-3")
	waitForConnections(t, hub, "patient-3", 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, "patient-3", 0)
}
