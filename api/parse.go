package api

import "strings"

// Call is one link of a builder chain: the method name (with any turbofish
// suffix) and its rendered argument list.
type Call struct {
	Name string `json:"name"`
	Args string `json:"args"`
}

// ParseResult is the model fragment recovered from Rust source.
// It is intentionally narrower than Model; see SeedModel.
type ParseResult struct {
	Imports    []string `json:"imports"`
	AppBuilder []Call   `json:"app_builder"`
}

// Empty reports whether nothing was recognized.
func (r *ParseResult) Empty() bool {
	return r == nil || (len(r.Imports) == 0 && len(r.AppBuilder) == 0)
}

// Builder chain method names emitted by the generator and understood by
// SeedModel.
const (
	CallAddPlugins       = "add_plugins"
	CallAddPlugin        = "add_plugin"
	CallAddStartupSystem = "add_startup_system"
	CallAddSystem        = "add_system"
	CallRun              = "run"
)

// SeedModel builds a fresh Model from a parse result. Imports are grouped by
// their first path segment; builder calls that add plugins or systems become
// entries, every other call is dropped.
func SeedModel(r *ParseResult) *Model {
	m := New()
	if r == nil {
		return m
	}

	index := make(map[string]int)
	for _, imp := range r.Imports {
		head, rest, _ := strings.Cut(imp, "::")
		i, ok := index[head]
		if !ok {
			src := CrateSource("")
			if head == "crate" || head == "self" || head == "super" {
				src = Source{Kind: SourceInternal}
			}
			m.Imports = append(m.Imports, Import{
				Used:       UsedMain,
				Dependency: Dependency{Name: head, Source: src},
			})
			i = len(m.Imports) - 1
			index[head] = i
		}
		if rest != "" {
			dep := &m.Imports[i].Dependency
			dep.Paths = append(dep.Paths, rest)
		}
	}

	for _, c := range r.AppBuilder {
		if c.Args == "" {
			continue
		}
		switch c.Name {
		case CallAddPlugins:
			m.Plugins = append(m.Plugins, Plugin{Name: c.Args, IsGroup: true})
		case CallAddPlugin:
			m.Plugins = append(m.Plugins, Plugin{Name: c.Args})
		case CallAddStartupSystem:
			m.StartupSystems = append(m.StartupSystems, System{Name: c.Args})
		case CallAddSystem:
			m.Systems = append(m.Systems, System{Name: c.Args})
		}
	}
	return m
}
