package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newSessionPair 注册一个服务端会话并返回对应的客户端连接
func newSessionPair(t *testing.T, svc *SessionService) (*model.ViewerSession, *websocket.Conn) {
	t.Helper()

	registered := make(chan *model.ViewerSession, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		registered <- svc.Register(1, conn, "127.0.0.1")
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case s := <-registered:
		return s, client
	case <-time.After(time.Second):
		t.Fatal("session not registered")
		return nil, nil
	}
}

func TestSessionServiceBroadcast(t *testing.T) {
	m := metrics.New()
	svc := NewSessionService(m, zap.NewNop())

	_, c1 := newSessionPair(t, svc)
	_, c2 := newSessionPair(t, svc)
	assert.Equal(t, 2, svc.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Viewers))

	sent := svc.Broadcast(model.StreamMessage{Type: model.MessageTypeSnapshot})
	assert.Equal(t, 2, sent)

	for _, c := range []*websocket.Conn{c1, c2} {
		var msg model.StreamMessage
		c.SetReadDeadline(time.Now().Add(time.Second))
		require.NoError(t, c.ReadJSON(&msg))
		assert.Equal(t, model.MessageTypeSnapshot, msg.Type)
	}
}

func TestSessionServiceSendAndRemove(t *testing.T) {
	svc := NewSessionService(nil, zap.NewNop())
	session, client := newSessionPair(t, svc)

	require.NoError(t, svc.Send(session.SessionID, model.StreamMessage{Type: model.MessageTypeAIResponse, Content: "hai"}))

	var msg model.StreamMessage
	client.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, "hai", msg.Content)

	assert.True(t, svc.UpdateHeartbeat(session.SessionID))

	svc.Remove(session.SessionID)
	assert.Equal(t, 0, svc.Count())
	assert.ErrorIs(t, svc.Send(session.SessionID, msg), ErrSessionClosed)
	assert.False(t, svc.UpdateHeartbeat(session.SessionID))
}

func TestSessionServiceHeartbeatCleanup(t *testing.T) {
	svc := NewSessionService(nil, zap.NewNop())
	session, _ := newSessionPair(t, svc)

	later := time.Now().Add(2 * heartbeatTimeout)
	for i := 0; i < maxMissedBeats-1; i++ {
		svc.checkHeartbeats(later)
		assert.Equal(t, 1, svc.Count())
	}
	assert.Equal(t, maxMissedBeats-1, session.Missed())

	svc.checkHeartbeats(later)
	assert.Equal(t, 0, svc.Count())
}
