package api

// SchemaVersion identifies the on-disk layout of a Model.
type SchemaVersion string

// CurrentVersion is the only schema version this build writes.
const CurrentVersion SchemaVersion = "0.0.1"

// Kind selects what the Main target emits for a model.
type Kind string

const (
	KindApp         Kind = "app"
	KindPlugin      Kind = "plugin"
	KindPluginGroup Kind = "plugin_group"
	KindExample     Kind = "example"
)

// IsPlugin reports whether the model describes a plugin or plugin group
// rather than a runnable application.
func (k Kind) IsPlugin() bool {
	return k == KindPlugin || k == KindPluginGroup
}

// Model is the structural description of a Bevy application.
// Slices are in generation order and are never re-sorted.
type Model struct {
	Meta           Meta        `json:"meta"`
	Settings       Settings    `json:"bevy_settings"`
	Plugins        []Plugin    `json:"plugins"`
	Components     []Component `json:"components"`
	StartupSystems []System    `json:"startup_systems"`
	Systems        []System    `json:"systems"`
	Custom         []Custom    `json:"custom"`
	Imports        []Import    `json:"imports"`
	// Examples are independent models sharing this schema.
	Examples []*Model `json:"examples,omitempty"`
}

// Meta holds identity and layout information for a model.
type Meta struct {
	Name string `json:"name"`
	Kind Kind   `json:"bevy_type"`
	// TypeName is the Rust type emitted for plugin and plugin_group kinds.
	TypeName      string        `json:"type_name,omitempty"`
	AssetPath     string        `json:"asset_path"`
	SchemaVersion SchemaVersion `json:"po2_version"`
}

// DefaultMeta returns the metadata of a freshly created model.
func DefaultMeta() Meta {
	return Meta{
		Name:          "bevy_default_meta",
		Kind:          KindApp,
		AssetPath:     "assets",
		SchemaVersion: CurrentVersion,
	}
}

// New returns an empty model with default metadata.
func New() *Model {
	return &Model{Meta: DefaultMeta()}
}

type Settings struct {
	Features    []Feature `json:"features"`
	DevFeatures []Feature `json:"dev_features"`
}

type Plugin struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	IsGroup      bool         `json:"is_group"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Field is one (name, type) pair of a component.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Component struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Fields      []Field  `json:"content"`
	IsReflected bool     `json:"is_reflected"`
	Attributes  []string `json:"attributes,omitempty"`
	Derives     []string `json:"derives,omitempty"`
}

// Param is one (name, type) pair of a system signature. Name may carry a
// binding mode, e.g. "mut commands".
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// System is a startup or runtime system. Body is opaque Rust source.
type System struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Params     []Param  `json:"param"`
	Body       string   `json:"content"`
	Visibility string   `json:"visibility"`
	Attributes []string `json:"attributes,omitempty"`
}

// CustomTarget says which generated crate a custom block belongs to.
type CustomTarget string

const (
	CustomMain      CustomTarget = "main"
	CustomComponent CustomTarget = "component"
	CustomSystem    CustomTarget = "system"
)

// Custom is a hand-written source file carried along with the model.
type Custom struct {
	Target CustomTarget `json:"target"`
	// Name is the file name, e.g. "utilities.rs".
	Name string `json:"name"`
	Body string `json:"content"`
}

// Used is the generation target an import belongs to.
type Used string

const (
	UsedMain       Used = "main"
	UsedComponents Used = "components"
	UsedSystems    Used = "systems"
)

type Import struct {
	Used       Used       `json:"used"`
	Dependency Dependency `json:"dependency"`
}

// SourceKind is where a dependency is fetched from.
type SourceKind string

const (
	SourceCrate    SourceKind = "crate"
	SourceGit      SourceKind = "git"
	SourcePath     SourceKind = "path"
	SourceInternal SourceKind = "internal"
)

type Source struct {
	Kind    SourceKind `json:"kind"`
	Version string     `json:"version,omitempty"`
	URL     string     `json:"url,omitempty"`
	Branch  string     `json:"branch,omitempty"`
	Rev     string     `json:"rev,omitempty"`
	Path    string     `json:"path,omitempty"`
}

// CrateSource is the default source: any version from the registry.
func CrateSource(version string) Source {
	if version == "" {
		version = "*"
	}
	return Source{Kind: SourceCrate, Version: version}
}

// Dependency names a crate, where it comes from, and the symbol paths
// imported from it.
type Dependency struct {
	Name     string   `json:"name"`
	Source   Source   `json:"dependency_type"`
	Paths    []string `json:"paths"`
	Features []string `json:"features,omitempty"`
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := &Model{
		Meta: m.Meta,
		Settings: Settings{
			Features:    cloneSlice(m.Settings.Features),
			DevFeatures: cloneSlice(m.Settings.DevFeatures),
		},
		Plugins:        mapSlice(m.Plugins, Plugin.Clone),
		Components:     mapSlice(m.Components, Component.Clone),
		StartupSystems: mapSlice(m.StartupSystems, System.Clone),
		Systems:        mapSlice(m.Systems, System.Clone),
		Custom:         cloneSlice(m.Custom),
		Imports: mapSlice(m.Imports, func(imp Import) Import {
			return Import{Used: imp.Used, Dependency: imp.Dependency.Clone()}
		}),
		Examples: mapSlice(m.Examples, (*Model).Clone),
	}
	return c
}

func (p Plugin) Clone() Plugin {
	out := p
	out.Dependencies = mapSlice(p.Dependencies, Dependency.Clone)
	return out
}

func (c Component) Clone() Component {
	out := c
	out.Fields = cloneSlice(c.Fields)
	out.Attributes = cloneSlice(c.Attributes)
	out.Derives = cloneSlice(c.Derives)
	return out
}

func (s System) Clone() System {
	out := s
	out.Params = cloneSlice(s.Params)
	out.Attributes = cloneSlice(s.Attributes)
	return out
}

func (d Dependency) Clone() Dependency {
	out := d
	out.Paths = cloneSlice(d.Paths)
	out.Features = cloneSlice(d.Features)
	return out
}

// cloneSlice copies s, keeping nil and empty distinct.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func mapSlice[T any](s []T, fn func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}
