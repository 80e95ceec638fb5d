// Package templates builds starter models.
package templates

import (
	"fmt"
	"sort"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/codegen"
)

// Template builds a model named name.
type Template func(name string) *api.Model

var registry = map[string]Template{
	"empty":  EmptyApp,
	"game":   Game,
	"plugin": Plugin,
}

// Lookup returns the template registered under name.
func Lookup(name string) (Template, error) {
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q (have %v)", name, Names())
	}
	return t, nil
}

// Names lists the registered templates.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// hotSystem returns a system exported for the hot reloader.
func hotSystem(name string, params []api.Param, body string) api.System {
	return api.System{
		Name:       name,
		Params:     params,
		Body:       body,
		Visibility: "pub",
		Attributes: []string{"no_mangle"},
	}
}

func named(name string, kind api.Kind) *api.Model {
	m := api.New()
	if name != "" {
		m.Meta.Name = name
	}
	m.Meta.Kind = kind
	return m
}

// EmptyApp is an application with the default plugins and a camera.
func EmptyApp(name string) *api.Model {
	m := named(name, api.KindApp)
	m.Plugins = []api.Plugin{{Name: "DefaultPlugins", IsGroup: true}}
	m.StartupSystems = []api.System{
		hotSystem("setup", []api.Param{{Name: "mut commands", Type: "Commands"}},
			"commands.spawn(Camera2dBundle::default());"),
	}
	return m
}

// Plugin is a plugin crate with a single greeting system.
func Plugin(name string) *api.Model {
	m := named(name, api.KindPlugin)
	m.Meta.TypeName = codegen.TypeName(m.Meta.Name)
	m.Systems = []api.System{
		hotSystem("hello", nil, fmt.Sprintf("info!(%q);", "hello from "+m.Meta.Name)),
	}
	return m
}
