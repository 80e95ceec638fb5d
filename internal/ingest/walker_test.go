package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitterWalkerRust(t *testing.T) {
	code := []byte(`
fn setup() {}

impl Game {
    fn tick(&self) {}
}
`)
	root, err := parseRust(context.Background(), code)
	require.NoError(t, err)

	w := NewSitterWalker()
	matches, err := w.Query(root, `(function_item name: (identifier) @name)`)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, map[string]string{"name": "setup"}, matches[0].Values())
	assert.Equal(t, map[string]string{"name": "tick"}, matches[1].Values())
	assert.Nil(t, matches[0].Context(), "no @scope capture")
}

func TestSitterWalker_ScopeContext(t *testing.T) {
	code := []byte("fn main() { run(); }\n")
	root, err := parseRust(context.Background(), code)
	require.NoError(t, err)

	matches, err := NewSitterWalker().Query(&root, functionQuery)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	sr, ok := matches[0].Context().(SitterRoot)
	require.True(t, ok)
	assert.Equal(t, "function_item", sr.Node.Type())
	assert.Equal(t, "fn main() { run(); }", matches[0].Values()["scope"])
}

func TestSitterWalker_Errors(t *testing.T) {
	w := NewSitterWalker()

	_, err := w.Query("not a root", "(identifier)")
	assert.Error(t, err)

	root, err := parseRust(context.Background(), []byte("fn a() {}"))
	require.NoError(t, err)
	_, err = w.Query(root, "(not_a_node_type")
	assert.Error(t, err)
}
