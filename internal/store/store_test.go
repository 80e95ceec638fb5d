package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentic-research/potoo/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "potoo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	m := api.New()
	m.Meta.Name = "asteroids"
	m.Systems = []api.System{{Name: "tick", Body: "step();"}}
	require.NoError(t, s.Save(ctx, "asteroids", m))

	l, err := s.Load(ctx, "asteroids")
	require.NoError(t, err)
	assert.True(t, l.Compatible)
	assert.Equal(t, m, l.Model)
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	m := api.New()
	require.NoError(t, s.Save(ctx, "p", m))
	m.Components = []api.Component{{Name: "Ship"}}
	require.NoError(t, s.Save(ctx, "p", m))

	l, err := s.Load(ctx, "p")
	require.NoError(t, err)
	require.Len(t, l.Model.Components, 1)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.Save(ctx, name, api.New()))
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
	assert.Equal(t, api.CurrentVersion, entries[0].SchemaVersion)
	assert.Equal(t, int64(1_700_000_000_000), entries[0].UpdatedAt.UnixMilli())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Save(ctx, "p", api.New()))

	require.NoError(t, s.Delete(ctx, "p"))
	_, err := s.Load(ctx, "p")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "p"), ErrNotFound)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Save(ctx, "", api.New()))
	assert.Error(t, s.Save(ctx, "nil", nil))
}

func TestStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "potoo.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "kept", api.New()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	_, err = s.Load(ctx, "kept")
	assert.NoError(t, err)
}
