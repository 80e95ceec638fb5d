package history

import (
	"fmt"

	"github.com/agentic-research/potoo/api"
)

// History is an undo/redo log of actions applied to a model.
// Actions before the cursor are applied; actions at or after it are redoable.
//
// History is not safe for concurrent use; see session.Session.
type History struct {
	actions []Action
	cursor  int
}

func New() *History {
	return &History{}
}

// Apply performs a on m, drops any redo tail and records a. If the forward
// mutation fails neither the log nor the model changes.
func (h *History) Apply(m *api.Model, a Action) error {
	if err := a.Apply(m); err != nil {
		return fmt.Errorf("%s %s: %w", a.Op(), a.Category(), err)
	}
	h.actions = append(h.actions[:h.cursor], a)
	h.cursor++
	return nil
}

// Undo reverses the action before the cursor. It reports false when there is
// nothing to undo.
func (h *History) Undo(m *api.Model) (bool, error) {
	if h.cursor == 0 {
		return false, nil
	}
	a := h.actions[h.cursor-1]
	if err := a.Undo(m); err != nil {
		return false, fmt.Errorf("undo %s %s: %w", a.Op(), a.Category(), err)
	}
	h.cursor--
	return true, nil
}

// Redo re-applies the action at the cursor. It reports false when there is
// nothing to redo.
func (h *History) Redo(m *api.Model) (bool, error) {
	if h.cursor == len(h.actions) {
		return false, nil
	}
	a := h.actions[h.cursor]
	if err := a.Apply(m); err != nil {
		return false, fmt.Errorf("redo %s %s: %w", a.Op(), a.Category(), err)
	}
	h.cursor++
	return true, nil
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.actions) }

// Len is the number of recorded actions, including redoable ones.
func (h *History) Len() int { return len(h.actions) }

func (h *History) Cursor() int { return h.cursor }

// Actions returns the recorded actions in application order.
func (h *History) Actions() []Action {
	return append([]Action(nil), h.actions...)
}
