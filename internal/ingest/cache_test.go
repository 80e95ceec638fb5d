package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ReusesResults(t *testing.T) {
	c, err := NewCache(nil, 4)
	require.NoError(t, err)

	src := []byte("use bevy::prelude::*;\nfn main() { App::new().run(); }\n")
	first, err := c.Parse(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, first)

	first.Imports[0] = "changed"

	second, err := c.Parse(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"bevy::prelude::*"}, second.Imports, "callers get copies")
	assert.Equal(t, 1, c.Len())
}

func TestCache_NilResultsAreCached(t *testing.T) {
	c, err := NewCache(NewParser("main"), 0)
	require.NoError(t, err)

	for range 2 {
		res, err := c.Parse(context.Background(), []byte("const X: u8 = 0;"))
		require.NoError(t, err)
		assert.Nil(t, res)
	}
	assert.Equal(t, 1, c.Len())
}

func TestCache_Evicts(t *testing.T) {
	c, err := NewCache(nil, 1)
	require.NoError(t, err)

	_, err = c.Parse(context.Background(), []byte("use a;"))
	require.NoError(t, err)
	_, err = c.Parse(context.Background(), []byte("use b;"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
