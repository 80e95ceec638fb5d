package ingest

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

type useItem struct {
	node   *sitter.Node
	prefix string
}

// importPaths flattens every top-level use declaration into one path per
// imported leaf, in source order:
//
//	use pkg::{a, b::{c, d}};  ->  pkg::a, pkg::b::c, pkg::b::d
func importPaths(root *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "use_declaration" {
			continue
		}
		if arg := decl.ChildByFieldName("argument"); arg != nil {
			out = append(out, flattenUse(arg, src)...)
		}
	}
	return out
}

// flattenUse walks one use tree with an explicit stack. Members of a list are
// pushed in reverse so they pop in source order.
func flattenUse(tree *sitter.Node, src []byte) []string {
	var out []string
	stack := []useItem{{node: tree}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.node

		switch n.Type() {
		case "use_list":
			for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
				c := n.NamedChild(i)
				if isComment(c) {
					continue
				}
				stack = append(stack, useItem{node: c, prefix: it.prefix})
			}
		case "scoped_use_list":
			prefix := it.prefix
			if p := n.ChildByFieldName("path"); p != nil {
				prefix = joinPath(prefix, pathText(p, src))
			}
			if l := n.ChildByFieldName("list"); l != nil {
				stack = append(stack, useItem{node: l, prefix: prefix})
			}
		case "use_wildcard":
			prefix := it.prefix
			if n.NamedChildCount() > 0 {
				prefix = joinPath(prefix, pathText(n.NamedChild(0), src))
			}
			out = append(out, joinPath(prefix, "*"))
		case "use_as_clause":
			path := joinPath(it.prefix, pathText(n.ChildByFieldName("path"), src))
			alias := pathText(n.ChildByFieldName("alias"), src)
			out = append(out, path+" as "+alias)
		case "self":
			// `self` inside a list names the list's prefix.
			if it.prefix == "" {
				out = append(out, "self")
			} else {
				out = append(out, it.prefix)
			}
		default:
			out = append(out, joinPath(it.prefix, pathText(n, src)))
		}
	}
	return out
}

func joinPath(prefix, s string) string {
	if prefix == "" {
		return s
	}
	if s == "" {
		return prefix
	}
	return prefix + "::" + s
}

// pathText returns the node's text with whitespace removed.
func pathText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(nodeText(n, src)), "")
}

func isComment(n *sitter.Node) bool {
	t := n.Type()
	return t == "line_comment" || t == "block_comment"
}

type useNode struct {
	terminal bool
	children map[string]*useNode
	order    []string
}

// RenderUseTree regroups flattened paths by shared prefix, the inverse of
// the import walk. Roots and members keep first-seen order; a path that is
// both imported and a prefix of others renders as `self` in its group.
//
//	pkg::a, pkg::b::c, pkg::b::d  ->  pkg::{a, b::{c, d}}
func RenderUseTree(paths []string) []string {
	root := &useNode{children: map[string]*useNode{}}
	for _, p := range paths {
		cur := root
		for _, seg := range strings.Split(p, "::") {
			next, ok := cur.children[seg]
			if !ok {
				next = &useNode{children: map[string]*useNode{}}
				cur.children[seg] = next
				cur.order = append(cur.order, seg)
			}
			cur = next
		}
		cur.terminal = true
	}

	out := make([]string, 0, len(root.order))
	for _, seg := range root.order {
		out = append(out, renderUseNode(seg, root.children[seg]))
	}
	return out
}

func renderUseNode(seg string, n *useNode) string {
	switch {
	case len(n.order) == 0:
		return seg
	case len(n.order) == 1 && !n.terminal:
		child := n.order[0]
		return seg + "::" + renderUseNode(child, n.children[child])
	}
	members := make([]string, 0, len(n.order)+1)
	if n.terminal {
		members = append(members, "self")
	}
	for _, c := range n.order {
		members = append(members, renderUseNode(c, n.children[c]))
	}
	return seg + "::{" + strings.Join(members, ", ") + "}"
}
