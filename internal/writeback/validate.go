package writeback

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// ValidationError contains structured information about a syntax error.
type ValidationError struct {
	FilePath string
	Line     uint32 // 0-indexed
	Column   uint32 // 0-indexed
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line+1, e.Column+1, e.Message)
}

// Validate parses content with tree-sitter and returns an error if the AST
// contains syntax errors. Files with no known tree-sitter language pass
// through without validation (returns nil).
func Validate(content []byte, filePath string) error {
	lang := languageForPath(filePath)
	if lang == nil {
		return nil
	}
	tree, err := parse(content, lang)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed for %s: %w", filePath, err)
	}
	return checkTree(tree.RootNode(), filePath)
}

func parse(content []byte, lang *sitter.Language) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return parser.ParseCtx(context.Background(), nil, content)
}

func checkTree(root *sitter.Node, filePath string) error {
	if root == nil {
		return fmt.Errorf("tree-sitter returned nil root for %s", filePath)
	}
	if !root.HasError() {
		return nil
	}
	if errs := syntaxErrors(root, filePath, 1); len(errs) > 0 {
		return &errs[0]
	}
	return &ValidationError{FilePath: filePath, Message: "AST contains errors"}
}

// ASTErrors returns every syntax error in content, in source order. It
// returns nil for clean input and for files with no known language.
func ASTErrors(content []byte, filePath string) []ValidationError {
	lang := languageForPath(filePath)
	if lang == nil {
		return nil
	}
	tree, err := parse(content, lang)
	if err != nil {
		return nil
	}
	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return nil
	}
	return syntaxErrors(root, filePath, 0)
}

// syntaxErrors walks only the subtrees that contain errors and stops
// after limit results (0 means no limit). ERROR nodes are not descended.
func syntaxErrors(root *sitter.Node, filePath string, limit int) []ValidationError {
	var errs []ValidationError
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsError() || n.IsMissing() {
			msg := "syntax error in AST"
			if n.IsMissing() {
				msg = fmt.Sprintf("missing %s", n.Type())
			}
			errs = append(errs, ValidationError{
				FilePath: filePath,
				Line:     n.StartPoint().Row,
				Column:   n.StartPoint().Column,
				Message:  msg,
			})
			if limit > 0 && len(errs) >= limit {
				break
			}
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			c := n.Child(i)
			if c != nil && (c.HasError() || c.IsError() || c.IsMissing()) {
				stack = append(stack, c)
			}
		}
	}
	return errs
}

// languageForPath maps file extensions to tree-sitter languages.
func languageForPath(filePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".rs":
		return rust.GetLanguage()
	default:
		return nil
	}
}
