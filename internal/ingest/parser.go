// Package ingest recovers a model fragment from Rust source: the file's use
// declarations and the builder chain in its entry function.
package ingest

import (
	"context"
	"fmt"

	"github.com/agentic-research/potoo/api"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// DefaultEntryPoint is the function whose first statement holds the builder
// chain of a generated application.
const DefaultEntryPoint = "main"

// functionQuery captures every function item, including methods inside impl
// blocks, so plugin output can be read back through its build method.
const functionQuery = `(function_item name: (identifier) @name) @scope`

// Parser walks Rust source.
type Parser struct {
	// EntryPoint is the function holding the builder chain. Empty means
	// DefaultEntryPoint.
	EntryPoint string

	walker Walker
}

// NewParser returns a parser reading the chain from entryPoint.
func NewParser(entryPoint string) *Parser {
	return &Parser{EntryPoint: entryPoint}
}

// Parse is shorthand for parsing src with the default entry point.
func Parse(ctx context.Context, src []byte) (*api.ParseResult, error) {
	return (&Parser{}).Parse(ctx, src)
}

// Parse returns the imports and entry chain found in src. A nil result with a
// nil error means nothing was recognized; malformed or unrelated source is
// not an error. Only a tree-sitter failure is reported.
func (p *Parser) Parse(ctx context.Context, src []byte) (*api.ParseResult, error) {
	root, err := parseRust(ctx, src)
	if err != nil {
		return nil, err
	}

	res := &api.ParseResult{
		Imports: importPaths(root.Node, src),
	}

	fn, err := p.findFunction(root, p.entryPoint())
	if err != nil {
		return nil, err
	}
	if fn != nil {
		res.AppBuilder = entryChain(fn, src)
	}

	if res.Empty() {
		return nil, nil
	}
	return res, nil
}

func (p *Parser) entryPoint() string {
	if p.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return p.EntryPoint
}

// findFunction returns the first function item named name, or nil.
func (p *Parser) findFunction(root SitterRoot, name string) (*sitter.Node, error) {
	w := p.walker
	if w == nil {
		w = NewSitterWalker()
	}
	matches, err := w.Query(root, functionQuery)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.Values()["name"] != name {
			continue
		}
		if sr, ok := m.Context().(SitterRoot); ok {
			return sr.Node, nil
		}
	}
	return nil, nil
}

// LocateFunction returns the byte range of the first function item named
// name in src, including its visibility but not its outer attributes.
func LocateFunction(ctx context.Context, src []byte, name string) (start, end uint32, ok bool, err error) {
	root, err := parseRust(ctx, src)
	if err != nil {
		return 0, 0, false, err
	}
	fn, err := (&Parser{}).findFunction(root, name)
	if err != nil || fn == nil {
		return 0, 0, false, err
	}
	return fn.StartByte(), fn.EndByte(), true, nil
}

func parseRust(ctx context.Context, src []byte) (SitterRoot, error) {
	lang := rust.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return SitterRoot{}, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return SitterRoot{Node: tree.RootNode(), Source: src, Lang: lang}, nil
}
