package linter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/writeback"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

type Diagnostic struct {
	Severity Severity
	// Path locates the entry, e.g. "systems[2]" or "components[0].fields[1]".
	Path    string
	Message string
	// Line is set for diagnostics inside a system body, 0-indexed.
	Line uint32
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Path, d.Message)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lint checks a model for problems that would make generation ambiguous or
// produce source that does not parse. Nested examples are linted too.
func Lint(m *api.Model) []Diagnostic {
	var diags []Diagnostic
	lintModel(m, "", &diags)
	return diags
}

func lintModel(m *api.Model, prefix string, diags *[]Diagnostic) {
	add := func(sev Severity, path, format string, args ...any) {
		*diags = append(*diags, Diagnostic{Severity: sev, Path: prefix + path, Message: fmt.Sprintf(format, args...)})
	}

	if m.Meta.Kind.IsPlugin() && m.Meta.TypeName != "" && !identRe.MatchString(m.Meta.TypeName) {
		add(SeverityError, "meta.type_name", "%q is not a Rust identifier", m.Meta.TypeName)
	}

	for i, f := range m.Settings.Features {
		if !f.Known() {
			add(SeverityWarning, fmt.Sprintf("bevy_settings.features[%d]", i), "unknown feature %q", f)
		}
	}
	for i, f := range m.Settings.DevFeatures {
		if !f.Known() {
			add(SeverityWarning, fmt.Sprintf("bevy_settings.dev_features[%d]", i), "unknown feature %q", f)
		}
	}

	seen := map[string]int{}
	for i, p := range m.Plugins {
		path := fmt.Sprintf("plugins[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			add(SeverityError, path, "empty plugin name")
			continue
		}
		if j, ok := seen[p.Name]; ok {
			add(SeverityWarning, path, "plugin %q already added at plugins[%d]", p.Name, j)
		} else {
			seen[p.Name] = i
		}
	}

	seen = map[string]int{}
	for i, c := range m.Components {
		path := fmt.Sprintf("components[%d]", i)
		checkName(c.Name, path, "components", seen, i, add)
		fields := map[string]bool{}
		for k, f := range c.Fields {
			fpath := fmt.Sprintf("%s.fields[%d]", path, k)
			if !identRe.MatchString(f.Name) {
				add(SeverityError, fpath, "field name %q is not a Rust identifier", f.Name)
			}
			if strings.TrimSpace(f.Type) == "" {
				add(SeverityError, fpath, "field %q has no type", f.Name)
			}
			if fields[f.Name] {
				add(SeverityError, fpath, "duplicate field %q", f.Name)
			}
			fields[f.Name] = true
		}
	}

	// Startup and runtime systems share one namespace in the systems crate.
	seen = map[string]int{}
	for i, s := range m.StartupSystems {
		lintSystem(s, fmt.Sprintf("startup_systems[%d]", i), seen, i, prefix, add, diags)
	}
	for i, s := range m.Systems {
		lintSystem(s, fmt.Sprintf("systems[%d]", i), seen, len(m.StartupSystems)+i, prefix, add, diags)
	}

	for i, ex := range m.Examples {
		if ex == nil {
			add(SeverityError, fmt.Sprintf("examples[%d]", i), "nil example")
			continue
		}
		lintModel(ex, fmt.Sprintf("%sexamples[%d].", prefix, i), diags)
	}
}

type addFunc func(sev Severity, path, format string, args ...any)

func checkName(name, path, category string, seen map[string]int, i int, add addFunc) {
	switch {
	case strings.TrimSpace(name) == "":
		add(SeverityError, path, "empty name")
		return
	case !identRe.MatchString(name):
		add(SeverityError, path, "%q is not a Rust identifier", name)
	}
	if _, ok := seen[name]; ok {
		add(SeverityError, path, "duplicate name %q in %s; edits by name are ambiguous", name, category)
		return
	}
	seen[name] = i
}

// lintSystem checks a system's name and that its body parses as Rust.
func lintSystem(s api.System, path string, seen map[string]int, i int, prefix string, add addFunc, diags *[]Diagnostic) {
	checkName(s.Name, path, "systems", seen, i, add)

	src := "fn body() {\n" + s.Body + "\n}\n"
	for _, e := range writeback.ASTErrors([]byte(src), s.Name+".rs") {
		line := uint32(0)
		if e.Line > 0 {
			line = e.Line - 1
		}
		*diags = append(*diags, Diagnostic{
			Severity: SeverityError,
			Path:     prefix + path + ".content",
			Message:  fmt.Sprintf("body line %d: %s", line+1, e.Message),
			Line:     line,
		})
	}
}
