package codegen

import (
	"strings"

	"github.com/agentic-research/potoo/api"
)

// Item is one top-level declaration in a Scope.
type Item interface {
	render(b *strings.Builder)
}

// Scope is an ordered list of Rust declarations. Rendering produces
// unindented text; indentation is left to the formatter.
type Scope struct {
	items []Item
}

// Push appends an item and returns the scope for chaining.
func (s *Scope) Push(it Item) *Scope {
	s.items = append(s.items, it)
	return s
}

// String renders every item. Runs of use and mod lines are kept together;
// other items are separated by a blank line.
func (s *Scope) String() string {
	var b strings.Builder
	for i, it := range s.items {
		if i > 0 {
			if !(isLine(s.items[i-1]) && isLine(it) && sameKind(s.items[i-1], it)) {
				b.WriteString("\n")
			}
		}
		it.render(&b)
	}
	return b.String()
}

func isLine(it Item) bool {
	switch it.(type) {
	case Use, Mod:
		return true
	}
	return false
}

func sameKind(a, b Item) bool {
	_, au := a.(Use)
	_, bu := b.(Use)
	return au == bu
}

// Use is a `use path;` declaration.
type Use struct{ Path string }

func (u Use) render(b *strings.Builder) {
	b.WriteString("use " + u.Path + ";\n")
}

// Mod is a `mod name;` declaration.
type Mod struct{ Name string }

func (m Mod) render(b *strings.Builder) {
	b.WriteString("mod " + m.Name + ";\n")
}

// StructField is one named field of a Struct.
type StructField struct {
	Vis  string
	Name string
	Type string
}

// Struct is a struct declaration. A struct without fields renders as a unit
// struct.
type Struct struct {
	Derives []string
	Attrs   []string
	Vis     string
	Name    string
	Fields  []StructField
}

func (s Struct) render(b *strings.Builder) {
	if len(s.Derives) > 0 {
		b.WriteString("#[derive(" + strings.Join(s.Derives, ", ") + ")]\n")
	}
	writeAttrs(b, s.Attrs)
	b.WriteString(withVis(s.Vis, "struct "+s.Name))
	if len(s.Fields) == 0 {
		b.WriteString(";\n")
		return
	}
	b.WriteString(" {\n")
	for _, f := range s.Fields {
		b.WriteString(withVis(f.Vis, f.Name+": "+f.Type) + ",\n")
	}
	b.WriteString("}\n")
}

// Function is a function declaration. Body is emitted between the braces
// without inspection.
type Function struct {
	Attrs  []string
	Vis    string
	Name   string
	Params []string
	Body   string
}

func (f Function) render(b *strings.Builder) {
	writeAttrs(b, f.Attrs)
	b.WriteString(withVis(f.Vis, "fn "+f.Name+"("+strings.Join(f.Params, ", ")+")"))
	body := strings.Trim(f.Body, "\n")
	if strings.TrimSpace(body) == "" {
		b.WriteString(" {}\n")
		return
	}
	b.WriteString(" {\n" + body + "\n}\n")
}

// Impl is an impl block, optionally for a trait.
type Impl struct {
	Trait string
	Type  string
	Fns   []Function
}

func (im Impl) render(b *strings.Builder) {
	if im.Trait != "" {
		b.WriteString("impl " + im.Trait + " for " + im.Type + " {\n")
	} else {
		b.WriteString("impl " + im.Type + " {\n")
	}
	for i, f := range im.Fns {
		if i > 0 {
			b.WriteString("\n")
		}
		f.render(b)
	}
	b.WriteString("}\n")
}

// Chain renders a builder chain: the receiver followed by one method call
// per line.
func Chain(receiver string, calls []api.Call, tail string) string {
	var b strings.Builder
	b.WriteString(receiver)
	for _, c := range calls {
		b.WriteString("\n." + c.Name + "(" + c.Args + ")")
	}
	b.WriteString(tail)
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs []string) {
	for _, a := range attrs {
		if a = strings.TrimSpace(a); !strings.HasPrefix(a, "#") {
			a = "#[" + a + "]"
		}
		b.WriteString(a + "\n")
	}
}

func withVis(vis, decl string) string {
	if vis = strings.TrimSpace(vis); vis == "" {
		return decl
	}
	return vis + " " + decl
}
