// Package workspace writes a generated Cargo workspace onto a filesystem:
//
//	Cargo.toml
//	src/main.rs          (src/lib.rs for plugin kinds)
//	components/Cargo.toml
//	components/src/lib.rs
//	systems/Cargo.toml
//	systems/src/lib.rs
//	examples/<name>.rs
//
// Custom files are written beside the source of their target.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/history"
	"github.com/agentic-research/potoo/internal/ingest"
	"github.com/agentic-research/potoo/internal/writeback"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/util"
)

// ErrSystemNotFound is returned by SpliceSystem when the systems source has
// no function with the system's name.
var ErrSystemNotFound = errors.New("system not found in generated source")

// Options configures materialization.
type Options struct {
	// BevyVersion is the bevy requirement in every manifest.
	BevyVersion string
}

// Workspace materializes models onto fs. Writes through one Workspace are
// serialized.
type Workspace struct {
	mu   sync.Mutex
	fs   billy.Filesystem
	gen  *codegen.Generator
	opts Options
	log  *slog.Logger
}

// New returns a workspace rooted at fs. A nil gen uses default options; a
// nil logger uses slog.Default().
func New(fs billy.Filesystem, gen *codegen.Generator, opts Options, logger *slog.Logger) *Workspace {
	if gen == nil {
		gen = codegen.NewGenerator(codegen.DefaultOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BevyVersion == "" {
		opts.BevyVersion = DefaultBevyVersion
	}
	return &Workspace{fs: fs, gen: gen, opts: opts, log: logger}
}

// Materialize generates every target of m and writes the workspace. It
// returns the written paths in write order. Nothing is written when
// generation fails.
func (w *Workspace) Materialize(m *api.Model) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.materialize(m)
}

func (w *Workspace) materialize(m *api.Model) ([]string, error) {
	type file struct {
		fs   billy.Filesystem
		root string
		path string
		data []byte
	}
	var files []file
	addTo := func(fs billy.Filesystem, root, p string, data []byte) {
		files = append(files, file{fs: fs, root: root, path: p, data: data})
	}

	root, err := RootManifest(m, w.opts.BevyVersion)
	if err != nil {
		return nil, err
	}
	addTo(w.fs, "", "Cargo.toml", root)

	entry, err := w.gen.Generate(m, codegen.TargetMain)
	if err != nil {
		return nil, err
	}
	addTo(w.fs, "", codegen.TargetMain.SourcePath(m.Meta.Kind), []byte(entry.Source))
	for _, f := range entry.Files {
		addTo(w.fs, "", f.Path, []byte(f.Content))
	}

	// Member crates are written through a chroot so their paths stay
	// relative to the crate directory.
	members := []struct {
		dir      string
		target   codegen.Target
		manifest func(*api.Model, string) ([]byte, error)
	}{
		{"components", codegen.TargetComponents, ComponentsManifest},
		{"systems", codegen.TargetSystems, SystemsManifest},
	}
	for _, mem := range members {
		crate := chroot.New(w.fs, mem.dir)
		man, err := mem.manifest(m, w.opts.BevyVersion)
		if err != nil {
			return nil, err
		}
		addTo(crate, mem.dir, "Cargo.toml", man)

		out, err := w.gen.Generate(m, mem.target)
		if err != nil {
			return nil, err
		}
		addTo(crate, mem.dir, "src/lib.rs", []byte(out.Source))
		for _, f := range out.Files {
			rel, err := relTo(mem.dir, f.Path)
			if err != nil {
				return nil, err
			}
			addTo(crate, mem.dir, rel, []byte(f.Content))
		}
	}

	for i, ex := range m.Examples {
		if ex == nil {
			continue
		}
		name := ex.Meta.Name
		if name == "" || name == api.DefaultMeta().Name {
			name = fmt.Sprintf("example_%d", i)
		}
		out, err := w.gen.Generate(ex, codegen.TargetMain)
		if err != nil {
			return nil, fmt.Errorf("example %s: %w", name, err)
		}
		addTo(w.fs, "", path.Join("examples", name+".rs"), []byte(out.Source))
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := writeFile(f.fs, f.path, f.data); err != nil {
			return written, err
		}
		full := path.Join(f.root, f.path)
		written = append(written, full)
		w.log.Debug("wrote file", slog.String("path", full), slog.Int("bytes", len(f.data)))
	}
	w.log.Info("materialized workspace",
		slog.String("name", m.Meta.Name),
		slog.Int("files", len(written)))
	return written, nil
}

// SpliceSystem replaces the function for s in systems/src/lib.rs with a
// freshly rendered one, leaving the rest of the file untouched. It is the
// write half of a hot reload.
func (w *Workspace) SpliceSystem(ctx context.Context, s api.System) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spliceSystem(ctx, s)
}

func (w *Workspace) spliceSystem(ctx context.Context, s api.System) error {
	const file = "systems/src/lib.rs"

	src, err := util.ReadFile(w.fs, file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	start, end, ok, err := ingest.LocateFunction(ctx, src, s.Name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, s.Name)
	}
	text, err := codegen.SystemSource(s)
	if err != nil {
		return err
	}
	if err := writeback.Splice(w.fs, writeback.Origin{FilePath: file, StartByte: start, EndByte: end}, []byte(text)); err != nil {
		return fmt.Errorf("splice %s: %w", s.Name, err)
	}
	w.log.Info("spliced system", slog.String("system", s.Name))
	return nil
}

// Sync returns a post-edit hook that brings the workspace up to date with
// snapshot. The snapshot is taken under the workspace lock, so concurrent
// edits are written in the order the model saw them and a later snapshot is
// never overwritten by an earlier one. Hot reloads splice the system's
// current body; full reloads rewrite the whole workspace. persist, when
// non-nil, receives the same snapshot.
func (w *Workspace) Sync(snapshot func() *api.Model, persist func(*api.Model) error) func(context.Context, api.System, history.Reload) error {
	return func(ctx context.Context, sys api.System, reload history.Reload) error {
		w.mu.Lock()
		defer w.mu.Unlock()

		m := snapshot()
		current, ok := runtimeSystem(m, sys.Name)
		if reload == history.ReloadHot && ok {
			if err := w.spliceSystem(ctx, current); err != nil {
				return err
			}
		} else if _, err := w.materialize(m); err != nil {
			return err
		}
		if persist == nil {
			return nil
		}
		return persist(m)
	}
}

func runtimeSystem(m *api.Model, name string) (api.System, bool) {
	for _, s := range m.Systems {
		if s.Name == name {
			return s, true
		}
	}
	return api.System{}, false
}

func writeFile(fs billy.Filesystem, p string, data []byte) error {
	if dir := path.Dir(p); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func relTo(dir, p string) (string, error) {
	rel, ok := strings.CutPrefix(p, dir+"/")
	if !ok || rel == "" {
		return "", fmt.Errorf("file %s is outside %s", p, dir)
	}
	return rel, nil
}
