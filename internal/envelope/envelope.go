// Package envelope persists models inside a versioned JSON wrapper:
//
//	{"schema_version": "0.0.1", "model": {...}}
//
// The version is read on its own before the model is decoded, so a document
// written by another schema can still be inspected.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/agentic-research/potoo/api"
	"github.com/ohler55/ojg/jp"
)

// ErrMissingModel is returned when an envelope has no model.
var ErrMissingModel = errors.New("envelope has no model")

// versionPath selects the version tag without touching the model.
var versionPath = jp.MustParseString("$.schema_version")

// Envelope is the stored document.
type Envelope struct {
	SchemaVersion api.SchemaVersion `json:"schema_version"`
	Model         *api.Model        `json:"model"`
}

// Loaded is the result of reading an envelope.
type Loaded struct {
	Model *api.Model
	// Version is the declared schema version, empty when absent.
	Version api.SchemaVersion
	// Compatible reports whether Version is the one this build writes.
	Compatible bool
}

// Read decodes an envelope. An unsupported version is logged as a warning
// and decoding continues; no migration is attempted.
func Read(data []byte) (*Loaded, error) {
	return read(data, slog.Default())
}

func read(data []byte, log *slog.Logger) (*Loaded, error) {
	version, err := ProbeVersion(data)
	if err != nil {
		return nil, err
	}

	compatible := version == api.CurrentVersion
	if !compatible {
		log.Warn("unsupported schema version, loading anyway",
			slog.String("version", string(version)),
			slog.String("supported", string(api.CurrentVersion)))
	}

	// The tag was already read by the probe; decoding it again would fail
	// on tags that are not strings.
	var env struct {
		Model *api.Model `json:"model"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode model (schema %q): %w", version, err)
	}
	if env.Model == nil {
		return nil, ErrMissingModel
	}
	return &Loaded{Model: env.Model, Version: version, Compatible: compatible}, nil
}

// ProbeVersion returns the declared schema version of an envelope without
// decoding its model. A missing or null tag yields ""; a tag that is not a
// string is returned as its JSON text, such as "2".
func ProbeVersion(data []byte) (api.SchemaVersion, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return "", fmt.Errorf("decode envelope: expected object, got %T", doc)
	}
	for _, v := range versionPath.Get(doc) {
		switch tag := v.(type) {
		case nil:
		case string:
			return api.SchemaVersion(tag), nil
		default:
			text, err := json.Marshal(tag)
			if err != nil {
				return "", fmt.Errorf("decode schema version: %w", err)
			}
			return api.SchemaVersion(text), nil
		}
	}
	return "", nil
}

// Load decodes an envelope and returns its model.
func Load(data []byte) (*api.Model, error) {
	l, err := Read(data)
	if err != nil {
		return nil, err
	}
	return l.Model, nil
}

// Save encodes m in an envelope stamped with the current schema version.
// The model's own version field is stamped too; m is not modified.
func Save(m *api.Model) ([]byte, error) {
	if m == nil {
		return nil, ErrMissingModel
	}
	c := m.Clone()
	c.Meta.SchemaVersion = api.CurrentVersion
	data, err := json.MarshalIndent(Envelope{SchemaVersion: api.CurrentVersion, Model: c}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadFile loads the envelope at path.
func ReadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// WriteFile saves m to path.
func WriteFile(path string, m *api.Model) error {
	data, err := Save(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
