package writeback

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Indent is one level of indentation in formatted Rust output.
const Indent = "    "

// Format validates and canonically formats content according to the file
// extension. Files with no formatter pass through unchanged. Unlike a best
// effort pretty printer, syntax errors are returned and nothing is emitted.
func Format(content []byte, filePath string) ([]byte, error) {
	if languageForPath(filePath) == nil {
		return content, nil
	}
	return FormatRust(content, filePath)
}

// FormatRust re-indents Rust source from its bracket structure. Indentation
// is rebuilt from scratch, runs of blank lines collapse to one, blank lines
// just inside braces are dropped and trailing whitespace is removed. Lines
// that start inside a multi-line string or block comment are kept verbatim.
func FormatRust(content []byte, filePath string) ([]byte, error) {
	tree, err := parse(content, rust.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed for %s: %w", filePath, err)
	}
	root := tree.RootNode()
	if err := checkTree(root, filePath); err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	tokens := leafTokens(root)
	verbatim := verbatimRows(tokens)

	byRow := make(map[uint32][]string, len(lines))
	for _, t := range tokens {
		byRow[t.row] = append(byRow[t.row], t.typ)
	}

	type opener struct{ indent int }
	var (
		stack        []opener
		out          []string
		pendingBlank bool
		lastIndent   int
	)

	for i, line := range lines {
		row := uint32(i)
		toks := byRow[row]

		if verbatim[row] {
			out = append(out, strings.TrimRight(line, "\r"))
			pendingBlank = false
			for _, typ := range toks {
				switch {
				case isOpener(typ):
					stack = append(stack, opener{indent: lastIndent})
				case isCloser(typ) && len(stack) > 0:
					stack = stack[:len(stack)-1]
				}
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 {
				pendingBlank = true
			}
			continue
		}

		// Leading closers dedent to the line that opened them.
		indent := -1
		k := 0
		for ; k < len(toks) && isCloser(toks[k]); k++ {
			if len(stack) == 0 {
				continue
			}
			indent = stack[len(stack)-1].indent
			stack = stack[:len(stack)-1]
		}
		if indent < 0 {
			indent = 0
			if len(stack) > 0 {
				indent = stack[len(stack)-1].indent + 1
			}
			if strings.HasPrefix(trimmed, ".") && !strings.HasPrefix(trimmed, "..") {
				indent++
			}
		}
		for _, typ := range toks[k:] {
			switch {
			case isOpener(typ):
				stack = append(stack, opener{indent: indent})
			case isCloser(typ) && len(stack) > 0:
				stack = stack[:len(stack)-1]
			}
		}

		if pendingBlank && len(out) > 0 &&
			!strings.HasSuffix(out[len(out)-1], "{") && !strings.HasPrefix(trimmed, "}") {
			out = append(out, "")
		}
		pendingBlank = false
		lastIndent = indent
		out = append(out, strings.Repeat(Indent, indent)+trimmed)
	}

	return []byte(strings.Join(out, "\n") + "\n"), nil
}

type leafToken struct {
	typ    string
	row    uint32
	endRow uint32
	endCol uint32
}

// atomicTypes are nodes whose text is never re-indented or inspected.
var atomicTypes = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"line_comment":       true,
	"block_comment":      true,
}

// multiline are the atomic types that may span rows.
var multiline = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"block_comment":      true,
}

// leafTokens returns the tree's leaves in source order, treating literals
// and comments as single tokens.
func leafTokens(root *sitter.Node) []leafToken {
	var out []leafToken
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count := int(n.ChildCount())
		if count == 0 || atomicTypes[n.Type()] {
			out = append(out, leafToken{
				typ:    n.Type(),
				row:    n.StartPoint().Row,
				endRow: n.EndPoint().Row,
				endCol: n.EndPoint().Column,
			})
			continue
		}
		for i := count - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// verbatimRows marks rows that begin inside a multi-line atomic token.
func verbatimRows(tokens []leafToken) map[uint32]bool {
	rows := make(map[uint32]bool)
	for _, t := range tokens {
		if !multiline[t.typ] {
			continue
		}
		for r := t.row + 1; r <= t.endRow; r++ {
			if r == t.endRow && t.endCol == 0 {
				break
			}
			rows[r] = true
		}
	}
	return rows
}

func isOpener(typ string) bool { return typ == "{" || typ == "(" || typ == "[" }
func isCloser(typ string) bool { return typ == "}" || typ == ")" || typ == "]" }
