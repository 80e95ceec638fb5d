// Package session pairs a model with its mutation history behind a single
// writer lock.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/history"
)

// Session owns a model and its history. Mutations take the write lock;
// readers work on snapshots.
type Session struct {
	mu      sync.RWMutex
	model   *api.Model
	history *history.History
	log     *slog.Logger
}

// New wraps m. The session takes ownership of m; callers must not mutate it
// afterwards.
func New(m *api.Model, logger *slog.Logger) *Session {
	if m == nil {
		m = api.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{model: m, history: history.New(), log: logger}
}

// Snapshot returns a deep copy of the current model.
func (s *Session) Snapshot() *api.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Clone()
}

// Apply records a and returns how a running instance can pick it up.
func (s *Session) Apply(a history.Action) (history.Reload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.history.Apply(s.model, a); err != nil {
		return history.ReloadFull, err
	}
	reload := history.Classify(a)
	s.log.Debug("applied action", "op", a.Op(), "category", a.Category(), "target", a.Target(), "reload", reload)
	return reload, nil
}

func (s *Session) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Undo(s.model)
}

func (s *Session) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Redo(s.model)
}

// CanUndo and CanRedo report the history position.
func (s *Session) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanRedo()
}

// EditSystemBody replaces the body of the named runtime system, falling back
// to startup systems when no runtime system has that name. It returns the
// updated system alongside the reload classification.
func (s *Session) EditSystemBody(name, body string) (api.System, history.Reload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := history.CategoryRuntimeSystem
	before, ok := findSystem(s.model.Systems, name)
	if !ok {
		category = history.CategoryStartupSystem
		if before, ok = findSystem(s.model.StartupSystems, name); !ok {
			return api.System{}, history.ReloadFull, fmt.Errorf("edit %q: %w", name, history.ErrNotFound)
		}
	}
	after := before.Clone()
	after.Body = body

	a := history.UpdateSystem(category, before, after)
	if err := s.history.Apply(s.model, a); err != nil {
		return api.System{}, history.ReloadFull, err
	}
	reload := history.Classify(a)
	s.log.Info("system body edited", "system", name, "category", category, "reload", reload)
	return after, reload, nil
}

func findSystem(systems []api.System, name string) (api.System, bool) {
	for _, sys := range systems {
		if sys.Name == name {
			return sys, true
		}
	}
	return api.System{}, false
}
