package history

import (
	"slices"

	"github.com/agentic-research/potoo/api"
)

// Reload says how a running instance can pick up an applied action.
type Reload int

const (
	// ReloadFull requires regenerating and rebuilding the project.
	ReloadFull Reload = iota
	// ReloadHot can be served by reloading the systems library.
	ReloadHot
)

func (r Reload) String() string {
	if r == ReloadHot {
		return "hot"
	}
	return "full"
}

// Classify reports whether a can be hot reloaded. Only an update of a runtime
// system that changes nothing but its body qualifies.
func Classify(a Action) Reload {
	u, ok := a.(*update[api.System])
	if !ok || u.category != CategoryRuntimeSystem {
		return ReloadFull
	}
	if bodyOnly(u.before, u.after) {
		return ReloadHot
	}
	return ReloadFull
}

func bodyOnly(before, after api.System) bool {
	return before.Name == after.Name &&
		before.Visibility == after.Visibility &&
		slices.Equal(before.Params, after.Params) &&
		slices.Equal(before.Attributes, after.Attributes)
}
