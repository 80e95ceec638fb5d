package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args. Flag variables are package state, so
// they are reset to their defaults first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	templateName, projectName = "empty", ""
	genTarget, genOut = "all", ""
	parseEntry, parseSeed, parseWatch = ingest.DefaultEntryPoint, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if !slices.Contains(args, "--db") {
		args = append(args, "--db", filepath.Join(t.TempDir(), "p.db"))
	}
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_NewSummaryLintGenerate(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "game.json")

	out, err := run(t, "new", project, "--template", "game", "--name", "asteroids")
	require.NoError(t, err)
	assert.Contains(t, out, "game template")

	out, err = run(t, "summary", project)
	require.NoError(t, err)
	assert.Contains(t, out, "name=asteroids")
	assert.Contains(t, out, "player_movement_system")

	_, err = run(t, "lint", project)
	require.NoError(t, err)

	out, err = run(t, "generate", project, "--target", "main")
	require.NoError(t, err)
	assert.Contains(t, out, "use bevy::prelude::*;")
	assert.Contains(t, out, "App::new()")

	ws := filepath.Join(dir, "ws")
	out, err = run(t, "generate", project, "--out", ws)
	require.NoError(t, err)
	assert.Contains(t, out, "Cargo.toml")
	for _, p := range []string{"Cargo.toml", "src/main.rs", "systems/src/lib.rs", "components/src/lib.rs"} {
		_, err := os.Stat(filepath.Join(ws, p))
		assert.NoError(t, err, p)
	}
}

func TestCLI_GenerateUnknownTarget(t *testing.T) {
	project := filepath.Join(t.TempDir(), "app.json")
	_, err := run(t, "new", project)
	require.NoError(t, err)

	_, err = run(t, "generate", project, "--target", "tests")
	assert.Error(t, err)
}

func TestCLI_LintFailsOnErrors(t *testing.T) {
	project := filepath.Join(t.TempDir(), "bad.json")
	m := api.New()
	m.Plugins = []api.Plugin{{Name: ""}}
	require.NoError(t, envelope.WriteFile(project, m))

	out, err := run(t, "lint", project)
	require.Error(t, err)
	assert.Contains(t, out, "error: plugins[0]")
}

func TestCLI_ParseSeedsProject(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(src, []byte(`use bevy::prelude::*;

fn main() {
    App::new()
        .add_plugins(DefaultPlugins)
        .add_startup_system(setup)
        .add_system(tick)
        .run();
}
`), 0o644))
	seed := filepath.Join(dir, "seed.json")

	out, err := run(t, "parse", src, "--seed", seed)
	require.NoError(t, err)
	assert.Contains(t, out, `"add_plugins"`)
	assert.Contains(t, out, `"bevy::prelude::*"`)

	loaded, err := envelope.ReadFile(seed)
	require.NoError(t, err)
	require.Len(t, loaded.Model.Plugins, 1)
	assert.Equal(t, "DefaultPlugins", loaded.Model.Plugins[0].Name)
	require.Len(t, loaded.Model.Systems, 1)
	assert.Equal(t, "tick", loaded.Model.Systems[0].Name)
}

func TestCLI_StoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "app.json")
	db := filepath.Join(dir, "store", "projects.db")
	_, err := run(t, "new", project, "--name", "demo")
	require.NoError(t, err)

	_, err = run(t, "store", "save", "demo", project, "--db", db)
	require.NoError(t, err)

	out, err := run(t, "store", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")

	restored := filepath.Join(dir, "restored.json")
	_, err = run(t, "store", "load", "demo", restored, "--db", db)
	require.NoError(t, err)
	loaded, err := envelope.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Model.Meta.Name)

	_, err = run(t, "store", "delete", "demo", "--db", db)
	require.NoError(t, err)
	_, err = run(t, "store", "delete", "demo", "--db", db)
	assert.Error(t, err)
}
