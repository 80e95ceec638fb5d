package ingest

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Walker runs a selector against a parsed tree.
type Walker interface {
	// Query executes selector against root and returns the matches in
	// document order.
	Query(root any, selector string) ([]Match, error)
}

// Match represents a single result from a query.
type Match interface {
	// Values returns the captured text keyed by capture name.
	Values() map[string]string

	// Context returns the node captured as @scope, wrapped so it can be the
	// root of a child query. Nil when the query has no @scope capture.
	Context() any
}

// SitterWalker implements Walker for Tree-sitter parsed code.
type SitterWalker struct{}

func NewSitterWalker() *SitterWalker {
	return &SitterWalker{}
}

// SitterRoot encapsulates the necessary context for querying a Tree-sitter tree.
// It includes the root node, the source code (for extracting content), and the language (for compiling the query).
type SitterRoot struct {
	Node   *sitter.Node
	Source []byte
	Lang   *sitter.Language
}

// Query implements Walker.
func (w *SitterWalker) Query(root any, selector string) ([]Match, error) {
	var sr SitterRoot
	switch r := root.(type) {
	case SitterRoot:
		sr = r
	case *SitterRoot:
		sr = *r
	default:
		return nil, fmt.Errorf("root must be SitterRoot, got %T", root)
	}

	q, err := sitter.NewQuery([]byte(selector), sr.Lang)
	if err != nil {
		return nil, fmt.Errorf("invalid query '%s': %w", selector, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	qc.Exec(q, sr.Node)

	var matches []Match
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}

		vals := make(map[string]string, len(m.Captures))
		var scope *sitter.Node
		for _, c := range m.Captures {
			name := q.CaptureNameForId(c.Index)
			if name == "scope" {
				scope = c.Node
			}
			vals[name] = nodeText(c.Node, sr.Source)
		}
		matches = append(matches, &sitterMatch{
			values: vals,
			scope:  scope,
			root:   sr,
		})
	}

	return matches, nil
}

type sitterMatch struct {
	values map[string]string
	scope  *sitter.Node
	root   SitterRoot
}

// Values implements Match.
func (m *sitterMatch) Values() map[string]string {
	return m.values
}

// Context implements Match.
func (m *sitterMatch) Context() any {
	if m.scope == nil {
		return nil
	}
	return SitterRoot{
		Node:   m.scope,
		Source: m.root.Source,
		Lang:   m.root.Lang,
	}
}

// nodeText returns the source slice covered by n, or "" when the range does
// not fit the source.
func nodeText(n *sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if start > end || end > uint32(len(src)) {
		return ""
	}
	return string(src[start:end])
}
