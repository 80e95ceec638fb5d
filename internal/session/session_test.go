package session

import (
	"sync"
	"testing"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *Session {
	m := api.New()
	m.StartupSystems = []api.System{{Name: "setup", Body: "spawn();"}}
	m.Systems = []api.System{{Name: "tick", Body: "old();"}}
	return New(m, nil)
}

func TestSession_EditSystemBodyIsHotForRuntime(t *testing.T) {
	s := newSession()
	sys, reload, err := s.EditSystemBody("tick", "new();")
	require.NoError(t, err)
	assert.Equal(t, history.ReloadHot, reload)
	assert.Equal(t, "new();", sys.Body)
	assert.Equal(t, "new();", s.Snapshot().Systems[0].Body)

	ok, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old();", s.Snapshot().Systems[0].Body)
}

func TestSession_EditSystemBodyStartupIsFull(t *testing.T) {
	s := newSession()
	_, reload, err := s.EditSystemBody("setup", "spawn_more();")
	require.NoError(t, err)
	assert.Equal(t, history.ReloadFull, reload)
}

func TestSession_EditUnknownSystem(t *testing.T) {
	s := newSession()
	_, _, err := s.EditSystemBody("nope", "x();")
	assert.ErrorIs(t, err, history.ErrNotFound)
	assert.False(t, s.CanUndo())
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	s := newSession()
	snap := s.Snapshot()
	snap.Systems[0].Body = "mutated"
	assert.Equal(t, "old();", s.Snapshot().Systems[0].Body)
}

func TestSession_ApplyUndoRedo(t *testing.T) {
	s := newSession()
	reload, err := s.Apply(history.AddComponent(api.Component{Name: "Player"}))
	require.NoError(t, err)
	assert.Equal(t, history.ReloadFull, reload)
	assert.Len(t, s.Snapshot().Components, 1)

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Components)
	assert.True(t, s.CanRedo())

	_, err = s.Redo()
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Components, 1)
}

func TestSession_ConcurrentEdits(t *testing.T) {
	s := newSession()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.EditSystemBody("tick", "x();")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, "x();", s.Snapshot().Systems[0].Body)
}
