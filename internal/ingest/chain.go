package ingest

import (
	"slices"
	"strings"

	"github.com/agentic-research/potoo/api"
	sitter "github.com/smacker/go-tree-sitter"
)

// literalTypes are the argument value shapes rendered by their token text.
var literalTypes = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"integer_literal":    true,
	"float_literal":      true,
	"boolean_literal":    true,
}

// entryChain reads the builder chain from the first statement of fn's body.
// The walk starts at the outermost (last) call and follows receivers
// inward, so the collected calls are reversed before returning.
func entryChain(fn *sitter.Node, src []byte) []api.Call {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	expr := firstExpression(body)

	var calls []api.Call
	for expr != nil && expr.Type() == "call_expression" {
		method, receiver, ok := methodOf(expr.ChildByFieldName("function"), src)
		if !ok {
			break
		}
		calls = append(calls, api.Call{
			Name: method,
			Args: renderArgs(expr.ChildByFieldName("arguments"), src),
		})
		expr = receiver
	}

	slices.Reverse(calls)
	return calls
}

// firstExpression returns the expression of the block's first statement,
// either an expression statement or a tail expression. Comments and
// attributes are skipped.
func firstExpression(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		switch stmt.Type() {
		case "line_comment", "block_comment", "attribute_item":
			continue
		case "expression_statement":
			if stmt.NamedChildCount() == 0 {
				return nil
			}
			return stmt.NamedChild(0)
		default:
			return stmt
		}
	}
	return nil
}

// methodOf splits the callee of a method call into its rendered name and
// receiver. Plain function calls such as App::new() are not method calls.
func methodOf(fn *sitter.Node, src []byte) (name string, receiver *sitter.Node, ok bool) {
	if fn == nil {
		return "", nil, false
	}
	var typeArgs *sitter.Node
	if fn.Type() == "generic_function" {
		typeArgs = fn.ChildByFieldName("type_arguments")
		fn = fn.ChildByFieldName("function")
		if fn == nil {
			return "", nil, false
		}
	}
	if fn.Type() != "field_expression" {
		return "", nil, false
	}
	field := fn.ChildByFieldName("field")
	if field == nil {
		return "", nil, false
	}
	name = nodeText(field, src)
	if tf := renderTurbofish(typeArgs, src); tf != "" {
		name += "::<" + tf + ">"
	}
	return name, fn.ChildByFieldName("value"), true
}

// renderTurbofish joins the first path segment of each type argument. Types
// that are not paths render empty but keep their comma; an empty result
// means no suffix.
func renderTurbofish(args *sitter.Node, src []byte) string {
	if args == nil {
		return ""
	}
	var parts []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		parts = append(parts, typeHead(args.NamedChild(i), src))
	}
	return strings.Join(parts, ",")
}

func typeHead(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "type_identifier", "primitive_type", "scoped_type_identifier":
		return firstSegment(nodeText(n, src))
	case "generic_type":
		if t := n.ChildByFieldName("type"); t != nil {
			return firstSegment(nodeText(t, src))
		}
	}
	return ""
}

// renderArgs renders the recognized arguments of a call joined by commas.
// Arguments of any other shape contribute nothing.
func renderArgs(args *sitter.Node, src []byte) string {
	if args == nil {
		return ""
	}
	var parts []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		a := args.NamedChild(i)
		switch a.Type() {
		case "identifier", "self":
			parts = append(parts, nodeText(a, src))
		case "scoped_identifier":
			parts = append(parts, firstSegment(nodeText(a, src)))
		case "struct_expression":
			parts = append(parts, renderStruct(a, src))
		}
	}
	return strings.Join(parts, ",")
}

// renderStruct renders a struct literal as Name{field:value,...}. A field
// whose value is not a literal renders as its name; an unnamed member
// renders as its value. The base expression of `..base` is not a field.
func renderStruct(n *sitter.Node, src []byte) string {
	var name string
	if t := n.ChildByFieldName("name"); t != nil {
		name = firstSegment(nodeText(t, src))
	}

	var fields []string
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			f := body.NamedChild(i)
			switch f.Type() {
			case "shorthand_field_initializer":
				fields = append(fields, nodeText(f, src))
			case "field_initializer":
				if s := renderField(f, src); s != "" {
					fields = append(fields, s)
				}
			}
		}
	}
	return name + "{" + strings.Join(fields, ",") + "}"
}

func renderField(f *sitter.Node, src []byte) string {
	var member, value string
	if field := f.ChildByFieldName("field"); field != nil && field.Type() == "field_identifier" {
		member = nodeText(field, src)
	}
	if v := f.ChildByFieldName("value"); v != nil && literalTypes[v.Type()] {
		value = nodeText(v, src)
	}
	switch {
	case member != "" && value != "":
		return member + ":" + value
	case member != "":
		return member
	default:
		return value
	}
}

// firstSegment returns the first `::` segment of a path, without generic
// arguments.
func firstSegment(path string) string {
	head, _, _ := strings.Cut(path, "::")
	head, _, _ = strings.Cut(head, "<")
	return strings.TrimSpace(head)
}
