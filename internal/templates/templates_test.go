package templates

import (
	"context"
	"testing"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesGenerate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			tmpl, err := Lookup(name)
			require.NoError(t, err)

			m := tmpl("sample")
			assert.Equal(t, "sample", m.Meta.Name)
			assert.Equal(t, api.CurrentVersion, m.Meta.SchemaVersion)

			out, err := codegen.Generate(m, codegen.TargetAll)
			require.NoError(t, err)
			assert.NotEmpty(t, out.Source)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("tetris")
	assert.ErrorContains(t, err, "tetris")
	assert.Equal(t, []string{"empty", "game", "plugin"}, Names())
}

func TestGame(t *testing.T) {
	m := Game("")
	assert.Equal(t, "bevy_test", m.Meta.Name)
	assert.Equal(t, api.KindApp, m.Meta.Kind)
	assert.Equal(t, []api.Feature{api.FeatureDynamic}, m.Settings.Features)

	var systems []string
	for _, s := range m.Systems {
		systems = append(systems, s.Name)
		assert.Equal(t, "pub", s.Visibility)
		assert.Equal(t, []string{"no_mangle"}, s.Attributes)
	}
	assert.Equal(t, []string{
		"player_movement_system",
		"player_shooting_system",
		"bullet_movement_system",
		"bullet_hit_system",
		"spawn_other_ships",
		"move_other_ships",
	}, systems)

	out, err := codegen.Generate(m, codegen.TargetSystems)
	require.NoError(t, err)
	assert.Contains(t, out.Source, "use rand::{thread_rng, Rng};\n")
	assert.Contains(t, out.Source, "use crate::{utilities::BOUNDS};\n")
	assert.Contains(t, out.Source, "mod utilities;\n")
	assert.Contains(t, out.Source, "#[no_mangle]\npub fn move_other_ships(time: Res<Time>, mut query: Query<&mut Transform, With<OtherShip>>) {\n    const SPEED: f32 = 100.0;\n")
	require.Len(t, out.Files, 1)
	assert.Equal(t, "systems/src/utilities.rs", out.Files[0].Path)

	main, err := codegen.Generate(m, codegen.TargetMain)
	require.NoError(t, err)
	res, err := ingest.Parse(context.Background(), []byte(main.Source))
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.AppBuilder, 1+1+6+1)
	assert.Equal(t, api.Call{Name: "add_startup_system", Args: "setup"}, res.AppBuilder[1])
}

func TestPlugin(t *testing.T) {
	m := Plugin("space_hud")
	assert.Equal(t, api.KindPlugin, m.Meta.Kind)
	assert.Equal(t, "SpaceHud", m.Meta.TypeName)

	out, err := codegen.Generate(m, codegen.TargetMain)
	require.NoError(t, err)
	assert.Contains(t, out.Source, "impl Plugin for SpaceHud {")

	sys, err := codegen.Generate(m, codegen.TargetSystems)
	require.NoError(t, err)
	assert.Contains(t, sys.Source, `info!("hello from space_hud");`)
}

func TestEmptyApp(t *testing.T) {
	m := EmptyApp("")
	assert.Equal(t, "bevy_default_meta", m.Meta.Name)
	require.Len(t, m.Plugins, 1)
	assert.True(t, m.Plugins[0].IsGroup)
}
