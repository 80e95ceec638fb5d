// Package codegen renders Rust source for a model. Each target is assembled
// as a Scope of declarations, rendered to text and passed through the
// canonical formatter; a formatter rejection fails the whole call.
package codegen

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/writeback"
)

// DefaultPrelude is imported at the top of every generated file.
const DefaultPrelude = "bevy::prelude::*"

// Options configures a Generator.
type Options struct {
	// Prelude is the glob import emitted first. Empty disables it.
	Prelude string
}

// DefaultOptions returns the options used by Generate.
func DefaultOptions() Options {
	return Options{Prelude: DefaultPrelude}
}

// File is an extra source file produced alongside a target, such as the
// body of a custom block.
type File struct {
	Path    string
	Content string
}

// Output is the generated source for one target.
type Output struct {
	Target Target
	Source string
	Files  []File
}

// Generator renders models to Rust.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate renders target for m with DefaultOptions.
func Generate(m *api.Model, target Target) (*Output, error) {
	return NewGenerator(DefaultOptions()).Generate(m, target)
}

// Generate renders target for m. TargetAll renders Main, Components and
// Systems in that order, each formatted on its own, and joins them with a
// blank line.
func (g *Generator) Generate(m *api.Model, target Target) (*Output, error) {
	if m == nil {
		return nil, fmt.Errorf("generate %s: nil model", target)
	}

	switch target {
	case TargetAll:
		out := &Output{Target: TargetAll}
		var parts []string
		for _, t := range []Target{TargetMain, TargetComponents, TargetSystems} {
			o, err := g.Generate(m, t)
			if err != nil {
				return nil, err
			}
			parts = append(parts, o.Source)
			out.Files = append(out.Files, o.Files...)
		}
		out.Source = strings.Join(parts, "\n")
		return out, nil
	case TargetMain, TargetComponents, TargetSystems:
	default:
		return nil, fmt.Errorf("generate: %w: %s", ErrUnknownTarget, target)
	}

	scope := &Scope{}
	out := &Output{Target: target}

	if g.opts.Prelude != "" {
		scope.Push(Use{Path: g.opts.Prelude})
	}
	for _, imp := range m.Imports {
		if imp.Used == target.used() {
			scope.Push(Use{Path: importPath(imp.Dependency)})
		}
	}
	for _, c := range m.Custom {
		if c.Target != target.custom() {
			continue
		}
		scope.Push(Mod{Name: moduleName(c.Name)})
		out.Files = append(out.Files, File{
			Path:    path.Join(path.Dir(target.SourcePath(m.Meta.Kind)), c.Name),
			Content: c.Body,
		})
	}

	switch target {
	case TargetMain:
		mainItems(scope, m)
	case TargetComponents:
		for _, c := range m.Components {
			scope.Push(componentStruct(c))
		}
	case TargetSystems:
		for _, s := range slices.Concat(m.StartupSystems, m.Systems) {
			scope.Push(systemFunction(s))
		}
	}

	formatted, err := writeback.FormatRust([]byte(scope.String()), target.SourcePath(m.Meta.Kind))
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", target, err)
	}
	out.Source = string(formatted)
	return out, nil
}

// BuilderCalls returns the chain calls for m's plugins, startup systems and
// systems, in that order.
func BuilderCalls(m *api.Model) []api.Call {
	calls := make([]api.Call, 0, len(m.Plugins)+len(m.StartupSystems)+len(m.Systems))
	for _, p := range m.Plugins {
		name := api.CallAddPlugin
		if p.IsGroup {
			name = api.CallAddPlugins
		}
		calls = append(calls, api.Call{Name: name, Args: p.Name})
	}
	for _, s := range m.StartupSystems {
		calls = append(calls, api.Call{Name: api.CallAddStartupSystem, Args: s.Name})
	}
	for _, s := range m.Systems {
		calls = append(calls, api.Call{Name: api.CallAddSystem, Args: s.Name})
	}
	return calls
}

func mainItems(scope *Scope, m *api.Model) {
	calls := BuilderCalls(m)
	if !m.Meta.Kind.IsPlugin() {
		scope.Push(Function{
			Name: "main",
			Body: Chain("App::new()", append(calls, api.Call{Name: api.CallRun}), ";"),
		})
		return
	}

	name := m.Meta.TypeName
	if name == "" {
		name = TypeName(m.Meta.Name)
	}
	trait := "Plugin"
	if m.Meta.Kind == api.KindPluginGroup {
		trait = "PluginGroup"
	}
	var body string
	if len(calls) > 0 {
		body = Chain("app", calls, ";")
	}
	scope.Push(Struct{Vis: "pub", Name: name})
	scope.Push(Impl{
		Trait: trait,
		Type:  name,
		Fns: []Function{{
			Name:   "build",
			Params: []string{"&self", "app: &mut App"},
			Body:   body,
		}},
	})
}

func componentStruct(c api.Component) Struct {
	derives := []string{"Component"}
	if c.IsReflected {
		derives = append(derives, "Reflect")
	}
	for _, d := range c.Derives {
		if !slices.Contains(derives, d) {
			derives = append(derives, d)
		}
	}
	var attrs []string
	if c.IsReflected {
		attrs = append(attrs, "reflect(Component)")
	}
	attrs = append(attrs, c.Attributes...)

	s := Struct{Derives: derives, Attrs: attrs, Vis: "pub", Name: c.Name}
	for _, f := range c.Fields {
		s.Fields = append(s.Fields, StructField{Vis: "pub", Name: f.Name, Type: f.Type})
	}
	return s
}

func systemFunction(s api.System) Function {
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.Name+": "+p.Type)
	}
	return Function{
		Attrs:  s.Attributes,
		Vis:    s.Visibility,
		Name:   s.Name,
		Params: params,
		Body:   s.Body,
	}
}

// SystemSource renders a single system function, formatted, without the
// surrounding file. It is the unit replaced during hot reload.
func SystemSource(s api.System) (string, error) {
	fn := systemFunction(s)
	fn.Attrs = nil
	var b strings.Builder
	fn.render(&b)
	out, err := writeback.FormatRust([]byte(b.String()), s.Name+".rs")
	if err != nil {
		return "", fmt.Errorf("render system %s: %w", s.Name, err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// importPath renders a dependency as `name::{p1, p2}`, or just the name when
// it has no paths.
func importPath(d api.Dependency) string {
	if len(d.Paths) == 0 {
		return d.Name
	}
	return d.Name + "::{" + strings.Join(d.Paths, ", ") + "}"
}

// moduleName is the module declared for a custom file name.
func moduleName(file string) string {
	return strings.TrimSuffix(path.Base(file), path.Ext(file))
}

// TypeName converts a snake_case or kebab-case name to UpperCamelCase.
func TypeName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
