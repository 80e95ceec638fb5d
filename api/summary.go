package api

import (
	"fmt"
	"strings"
)

// Summary renders a name-only listing of the model for diagnostics.
func (m *Model) Summary() string {
	var b strings.Builder
	b.WriteString("BevyModel:\n")
	b.WriteString("   Meta:\n")
	fmt.Fprintf(&b, "       name=%s kind=%s", m.Meta.Name, m.Meta.Kind)
	if m.Meta.TypeName != "" {
		fmt.Fprintf(&b, " type=%s", m.Meta.TypeName)
	}
	fmt.Fprintf(&b, " assets=%s version=%s\n", m.Meta.AssetPath, m.Meta.SchemaVersion)

	section := func(title string, names []string) {
		fmt.Fprintf(&b, "   %s:\n", title)
		for _, n := range names {
			fmt.Fprintf(&b, "       %s\n", n)
		}
		b.WriteString("\n")
	}

	var names []string
	for _, c := range m.Components {
		names = append(names, c.Name)
	}
	section("Components", names)

	names = names[:0]
	for _, s := range m.StartupSystems {
		names = append(names, s.Name)
	}
	section("Startup Systems", names)

	names = names[:0]
	for _, s := range m.Systems {
		names = append(names, s.Name)
	}
	section("Runtime Systems", names)

	names = names[:0]
	for _, p := range m.Plugins {
		if p.IsGroup {
			names = append(names, p.Name+" (group)")
		} else {
			names = append(names, p.Name)
		}
	}
	section("Plugins", names)

	if len(m.Examples) > 0 {
		names = names[:0]
		for _, ex := range m.Examples {
			names = append(names, ex.Meta.Name)
		}
		section("Examples", names)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (m *Model) String() string {
	return m.Summary()
}
