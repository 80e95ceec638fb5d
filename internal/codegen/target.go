package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/potoo/api"
)

// ErrUnknownTarget is returned by ParseTarget for names it does not know.
var ErrUnknownTarget = errors.New("unknown generation target")

// Target selects which part of a model is generated.
type Target int

const (
	TargetMain Target = iota
	TargetComponents
	TargetSystems
	// TargetAll is Main, Components and Systems concatenated.
	TargetAll
)

func (t Target) String() string {
	switch t {
	case TargetMain:
		return "main"
	case TargetComponents:
		return "components"
	case TargetSystems:
		return "systems"
	case TargetAll:
		return "all"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// ParseTarget maps a target name to its Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main":
		return TargetMain, nil
	case "components", "component":
		return TargetComponents, nil
	case "systems", "system":
		return TargetSystems, nil
	case "all", "":
		return TargetAll, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// used is the import site tag generated for t.
func (t Target) used() api.Used {
	switch t {
	case TargetComponents:
		return api.UsedComponents
	case TargetSystems:
		return api.UsedSystems
	default:
		return api.UsedMain
	}
}

// custom is the custom block tag generated for t.
func (t Target) custom() api.CustomTarget {
	switch t {
	case TargetComponents:
		return api.CustomComponent
	case TargetSystems:
		return api.CustomSystem
	default:
		return api.CustomMain
	}
}

// SourcePath is where t's source lives in a generated workspace.
func (t Target) SourcePath(kind api.Kind) string {
	switch t {
	case TargetComponents:
		return "components/src/lib.rs"
	case TargetSystems:
		return "systems/src/lib.rs"
	}
	if kind.IsPlugin() {
		return "src/lib.rs"
	}
	return "src/main.rs"
}
