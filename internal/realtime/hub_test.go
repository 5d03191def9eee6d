package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/auth"
)

const testSecret = "test-secret"

func newWSServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(func(taskID uint) (uint, bool) {
		if taskID == 5 {
			return 1, true
		}
		return 0, false
	})

	e := echo.New()
	e.HideBanner = true
	e.GET("/ws", Handler(hub, middleware.NewAuthMiddleware(testSecret)))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func memberToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, "Member")
	require.NoError(t, err)
	return token
}

func subscribe(t *testing.T, hub *Hub, conn *websocket.Conn, projectID uint, want int) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event":      "subscribe",
		"project_id": projectID,
	}))
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subscriptions[projectID]) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) outboundMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg outboundMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestUnauthenticatedUpgradeRejected(t *testing.T) {
	_, srv := newWSServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBroadcastScopedToProject(t *testing.T) {
	hub, srv := newWSServer(t)

	connA := dialWS(t, srv, memberToken(t, 1))
	connB := dialWS(t, srv, memberToken(t, 2))
	subscribe(t, hub, connA, 1, 1)
	subscribe(t, hub, connB, 2, 1)

	hub.Broadcast(1, map[string]interface{}{"title": "for project one"})
	hub.Broadcast(2, map[string]interface{}{"title": "for project two"})

	msgA := readEvent(t, connA)
	assert.Equal(t, EventTaskUpdated, msgA.Event)
	assert.Equal(t, "for project one", msgA.Data["title"])

	// B's first message must be project two's event; project one's never
	// reached it.
	msgB := readEvent(t, connB)
	assert.Equal(t, EventTaskUpdated, msgB.Event)
	assert.Equal(t, "for project two", msgB.Data["title"])
}

func TestInboundTaskUpdateRebroadcast(t *testing.T) {
	hub, srv := newWSServer(t)

	sender := dialWS(t, srv, memberToken(t, 1))
	receiver := dialWS(t, srv, memberToken(t, 2))
	subscribe(t, hub, receiver, 1, 1)

	// Task 5 resolves to project 1 through the resolver.
	require.NoError(t, sender.WriteJSON(map[string]interface{}{
		"event":   "taskUpdate",
		"task_id": 5,
		"data":    map[string]interface{}{"status": "done"},
	}))

	msg := readEvent(t, receiver)
	assert.Equal(t, EventTaskUpdated, msg.Event)
	assert.Equal(t, "done", msg.Data["status"])
	assert.Equal(t, float64(5), msg.Data["task_id"])
	assert.Equal(t, float64(1), msg.Data["project_id"])
}

func TestUnknownInboundEventIgnored(t *testing.T) {
	hub, srv := newWSServer(t)

	conn := dialWS(t, srv, memberToken(t, 1))
	subscribe(t, hub, conn, 1, 1)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": "bogus"}))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": "taskUpdate", "task_id": 999}))

	hub.Broadcast(1, map[string]interface{}{"title": "real"})
	msg := readEvent(t, conn)
	assert.Equal(t, "real", msg.Data["title"])
}
