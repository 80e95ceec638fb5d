package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads. godotenv skips keys that are
// present at all, so blanking is not enough. t.Setenv restores the
// originals when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDB, EnvLogLevel, EnvLogFormat, EnvBevyVersion, EnvPrelude, EnvListen} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, workspace.DefaultBevyVersion, cfg.BevyVersion)
	assert.Equal(t, codegen.DefaultPrelude, cfg.Prelude)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.NotEmpty(t, cfg.DB)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDB, "/tmp/p.db")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvBevyVersion, "0.10")
	t.Setenv(EnvPrelude, "none")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p.db", cfg.DB)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.10", cfg.BevyVersion)
	assert.Empty(t, cfg.Prelude)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"POTOO_LISTEN=0.0.0.0:9000\nPOTOO_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "error", cfg.LogLevel)
}
