package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// dialClient stands up a server-side websocket registered with the hub and
// returns the client-side connection for reading.
func dialClient(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&Client{UserID: userID, Conn: conn})
		close(registered)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	<-registered
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) testEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event testEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHub_PublishFansOutToAllSessions(t *testing.T) {
	hub := NewHub()
	first := dialClient(t, hub, "user-1")
	second := dialClient(t, hub, "user-1")

	hub.Publish("user-1", testEvent{Type: "plan-updated", Message: "hello"})

	for _, conn := range []*websocket.Conn{first, second} {
		event := readEvent(t, conn)
		assert.Equal(t, "plan-updated", event.Type)
		assert.Equal(t, "hello", event.Message)
	}
}

func TestHub_PublishTargetsOneUser(t *testing.T) {
	hub := NewHub()
	target := dialClient(t, hub, "user-1")
	other := dialClient(t, hub, "user-2")

	hub.Publish("user-1", testEvent{Type: "private-message"})

	event := readEvent(t, target)
	assert.Equal(t, "private-message", event.Type)

	// The other user's connection stays silent.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var unexpected testEvent
	err := other.ReadJSON(&unexpected)
	require.Error(t, err)
}

func TestHub_PublishWithNoConnectionsIsNoOp(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Publish("nobody-home", testEvent{Type: "plan-updated"})
	assert.Zero(t, hub.ConnectionCount("nobody-home"))
}

func TestHub_PublishUnmarshalableEventIsDropped(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, "user-1")

	hub.Publish("user-1", make(chan int)) // not JSON-marshalable
	hub.Publish("user-1", testEvent{Type: "plan-updated"})

	// Only the valid event arrives.
	event := readEvent(t, conn)
	assert.Equal(t, "plan-updated", event.Type)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	dialClient(t, hub, "user-1")
	assert.Equal(t, 1, hub.ConnectionCount("user-1"))

	dialClient(t, hub, "user-1")
	assert.Equal(t, 2, hub.ConnectionCount("user-1"))

	// Unregister one of the two.
	hub.mu.RLock()
	var someClient *Client
	for c := range hub.clients["user-1"] {
		someClient = c
		break
	}
	hub.mu.RUnlock()
	hub.Unregister(someClient)
	assert.Equal(t, 1, hub.ConnectionCount("user-1"))
}

func TestHub_EventPayloadShape(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, "user-1")

	hub.Publish("user-1", map[string]any{"type": "plan-updated", "reason": "weight change"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "weight change", payload["reason"])
}
