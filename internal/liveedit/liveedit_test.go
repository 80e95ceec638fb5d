package liveedit

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/history"
	"github.com/agentic-research/potoo/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *session.Session {
	m := api.New()
	m.StartupSystems = []api.System{{Name: "setup", Body: "spawn();"}}
	m.Systems = []api.System{{Name: "tick", Body: "old();"}}
	return session.New(m, nil)
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, e Edit) Reply {
	t.Helper()
	require.NoError(t, conn.WriteJSON(e))
	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func TestServer_HotEditOverWebsocket(t *testing.T) {
	sess := newSession()
	var (
		mu     sync.Mutex
		hooked []string
	)
	after := func(_ context.Context, sys api.System, reload history.Reload) error {
		mu.Lock()
		defer mu.Unlock()
		hooked = append(hooked, sys.Name+":"+reload.String())
		return nil
	}
	conn := dial(t, NewServer(sess, after, nil))

	r := roundTrip(t, conn, Edit{System: "tick", Body: "new();"})
	assert.Equal(t, Reply{System: "tick", Reload: "hot"}, r)
	assert.Equal(t, "new();", sess.Snapshot().Systems[0].Body)

	r = roundTrip(t, conn, Edit{System: "setup", Body: "spawn_more();"})
	assert.Equal(t, Reply{System: "setup", Reload: "full"}, r)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"tick:hot", "setup:full"}, hooked)
}

func TestServer_UnknownSystemKeepsConnection(t *testing.T) {
	sess := newSession()
	conn := dial(t, NewServer(sess, nil, nil))

	r := roundTrip(t, conn, Edit{System: "missing", Body: "x();"})
	assert.Equal(t, "missing", r.System)
	assert.Empty(t, r.Reload)
	assert.Contains(t, r.Error, "not found")

	r = roundTrip(t, conn, Edit{System: "tick", Body: "new();"})
	assert.Empty(t, r.Error)
	assert.Equal(t, "hot", r.Reload)
}

func TestServer_Handle(t *testing.T) {
	sess := newSession()
	failing := func(context.Context, api.System, history.Reload) error {
		return errors.New("disk full")
	}
	srv := NewServer(sess, failing, nil)

	r := srv.Handle(context.Background(), Edit{Body: "x();"})
	assert.Equal(t, "missing system name", r.Error)

	r = srv.Handle(context.Background(), Edit{System: "tick", Body: "new();"})
	assert.Equal(t, "hot", r.Reload)
	assert.Equal(t, "disk full", r.Error)
	assert.Equal(t, "new();", sess.Snapshot().Systems[0].Body, "edit stays recorded")
	assert.True(t, sess.CanUndo())
}
