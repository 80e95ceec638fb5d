package workspace

import (
	"fmt"
	"slices"

	"github.com/agentic-research/potoo/api"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultBevyVersion is the bevy requirement written to generated manifests.
const DefaultBevyVersion = "0.9"

const hotReloaderVersion = "0.6.5"

type manifest struct {
	Package         pkg                 `toml:"package"`
	Lib             *lib                `toml:"lib,omitempty"`
	Workspace       *cargoWorkspace     `toml:"workspace,omitempty"`
	Profile         map[string]any      `toml:"profile,omitempty"`
	Features        map[string][]string `toml:"features"`
	Dependencies    map[string]dep      `toml:"dependencies"`
	DevDependencies map[string]dep      `toml:"dev-dependencies,omitempty"`
}

type pkg struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type lib struct {
	CrateType []string `toml:"crate-type"`
}

type cargoWorkspace struct {
	Resolver string   `toml:"resolver"`
	Members  []string `toml:"members"`
}

// dep is a dependency in table form.
type dep struct {
	Version         string   `toml:"version,omitempty"`
	Path            string   `toml:"path,omitempty"`
	Git             string   `toml:"git,omitempty"`
	Branch          string   `toml:"branch,omitempty"`
	Rev             string   `toml:"rev,omitempty"`
	Features        []string `toml:"features,omitempty"`
	DefaultFeatures *bool    `toml:"default-features,omitempty"`
	Optional        bool     `toml:"optional,omitempty"`
}

func newPackage(name string) pkg {
	return pkg{Name: name, Version: "0.1.0", Edition: "2021"}
}

// bevyDep enables exactly the listed features, or none at all.
func bevyDep(version string, features []api.Feature) dep {
	d := dep{Version: version}
	if len(features) == 0 {
		off := false
		d.DefaultFeatures = &off
		return d
	}
	for _, f := range features {
		d.Features = append(d.Features, string(f))
	}
	return d
}

// cargoDep converts a model dependency. Internal dependencies have no
// manifest entry.
func cargoDep(d api.Dependency) (dep, bool) {
	out := dep{Features: slices.Clone(d.Features)}
	switch d.Source.Kind {
	case api.SourceInternal:
		return dep{}, false
	case api.SourceGit:
		out.Git, out.Branch, out.Rev = d.Source.URL, d.Source.Branch, d.Source.Rev
	case api.SourcePath:
		out.Path = d.Source.Path
	default:
		out.Version = d.Source.Version
		if out.Version == "" {
			out.Version = "*"
		}
	}
	return out, true
}

// addImports adds the external crates imported at site. Bevy is managed
// separately and never taken from imports.
func addImports(deps map[string]dep, m *api.Model, site api.Used) {
	for _, imp := range m.Imports {
		if imp.Used != site || imp.Dependency.Name == "bevy" {
			continue
		}
		if d, ok := cargoDep(imp.Dependency); ok {
			deps[imp.Dependency.Name] = d
		}
	}
}

// RootManifest renders the workspace root Cargo.toml.
func RootManifest(m *api.Model, bevyVersion string) ([]byte, error) {
	bevyVersion = orDefault(bevyVersion)
	deps := map[string]dep{
		"components":       {Path: "components"},
		"systems":          {Path: "systems"},
		"hot-lib-reloader": {Version: hotReloaderVersion, Optional: true},
	}
	for _, p := range m.Plugins {
		for _, d := range p.Dependencies {
			if cd, ok := cargoDep(d); ok {
				deps[d.Name] = cd
			}
		}
	}
	addImports(deps, m, api.UsedMain)
	deps["bevy"] = bevyDep(bevyVersion, m.Settings.Features)

	return marshal("Cargo.toml", manifest{
		Package: newPackage(m.Meta.Name),
		Workspace: &cargoWorkspace{
			Resolver: "2",
			Members:  []string{"systems", "components"},
		},
		Profile: map[string]any{
			"dev": map[string]any{
				"opt-level": 1,
				"package":   map[string]any{"*": map[string]any{"opt-level": 3}},
			},
			"release": map[string]any{"lto": "thin", "codegen-units": 1},
		},
		Features: map[string][]string{
			"default": {},
			"reload":  {"dep:hot-lib-reloader", "components/dynamic", "bevy/dynamic"},
		},
		Dependencies:    deps,
		DevDependencies: map[string]dep{"bevy": bevyDep(bevyVersion, m.Settings.DevFeatures)},
	})
}

// ComponentsManifest renders components/Cargo.toml.
func ComponentsManifest(m *api.Model, bevyVersion string) ([]byte, error) {
	deps := map[string]dep{"bevy": {Version: orDefault(bevyVersion)}}
	addImports(deps, m, api.UsedComponents)
	return marshal("components/Cargo.toml", manifest{
		Package: newPackage("components"),
		Features: map[string][]string{
			"default": {},
			"dynamic": {"bevy/dynamic"},
		},
		Dependencies: deps,
	})
}

// SystemsManifest renders systems/Cargo.toml. The crate is also built as a
// dylib so the hot reloader can swap it.
func SystemsManifest(m *api.Model, bevyVersion string) ([]byte, error) {
	deps := map[string]dep{
		"bevy":       {Version: orDefault(bevyVersion)},
		"components": {Path: "../components"},
		"log":        {Version: "0.4.17"},
		"rand":       {Version: "0.8.5"},
	}
	addImports(deps, m, api.UsedSystems)
	return marshal("systems/Cargo.toml", manifest{
		Package: newPackage("systems"),
		Lib:     &lib{CrateType: []string{"rlib", "dylib"}},
		Features: map[string][]string{
			"default": {},
			"dynamic": {"bevy/dynamic", "components/dynamic"},
		},
		Dependencies: deps,
	})
}

func marshal(name string, m manifest) ([]byte, error) {
	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

func orDefault(v string) string {
	if v == "" {
		return DefaultBevyVersion
	}
	return v
}
