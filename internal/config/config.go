// Package config resolves CLI settings from a .env file and the
// environment. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/workspace"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB          = "POTOO_DB"
	EnvLogLevel    = "POTOO_LOG_LEVEL"
	EnvLogFormat   = "POTOO_LOG_FORMAT"
	EnvBevyVersion = "POTOO_BEVY_VERSION"
	EnvPrelude     = "POTOO_PRELUDE"
	EnvListen      = "POTOO_LISTEN"
)

// DefaultListen is the live-edit server address.
const DefaultListen = "127.0.0.1:7878"

type Config struct {
	DB          string
	LogLevel    string
	LogFormat   string
	BevyVersion string
	Prelude     string
	Listen      string
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		DB:          firstNonEmpty(os.Getenv(EnvDB), defaultDB()),
		LogLevel:    firstNonEmpty(os.Getenv(EnvLogLevel), "info"),
		LogFormat:   firstNonEmpty(os.Getenv(EnvLogFormat), "text"),
		BevyVersion: firstNonEmpty(os.Getenv(EnvBevyVersion), workspace.DefaultBevyVersion),
		Prelude:     firstNonEmpty(os.Getenv(EnvPrelude), codegen.DefaultPrelude),
		Listen:      firstNonEmpty(os.Getenv(EnvListen), DefaultListen),
	}
	// An explicit "none" drops the prelude import entirely.
	if strings.EqualFold(cfg.Prelude, "none") {
		cfg.Prelude = ""
	}
	return cfg, nil
}

func defaultDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "potoo.db"
	}
	return filepath.Join(home, ".agentic-research", "potoo", "projects.db")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
