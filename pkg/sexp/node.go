// Package sexp reads and writes the S-expression document format.
//
// A document is a tree of Nodes. A list node has a name and ordered children;
// token and string nodes are leaves carrying a value:
//
//	(pad 5c7f0a3e-... (side top) (position 1.27 0.0) (package_pad none))
//
// Child paths address nested values: "position/@0" is the first value of the
// first child list named "position", "@0" is the first child of the node
// itself.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three node types.
type Kind int

const (
	KindList Kind = iota
	KindToken
	KindString
)

// Node is one S-expression element.
type Node struct {
	kind     Kind
	value    string // list name, token or string content
	children []*Node
	line     int
}

// NewList creates a list node.
func NewList(name string, children ...*Node) *Node {
	return &Node{kind: KindList, value: name, children: children}
}

// Token creates an unquoted leaf.
func Token(v string) *Node {
	return &Node{kind: KindToken, value: v}
}

// String creates a quoted leaf.
func String(v string) *Node {
	return &Node{kind: KindString, value: v}
}

// Bool creates a "true"/"false" token.
func Bool(b bool) *Node {
	return Token(strconv.FormatBool(b))
}

// Stringer creates a token from anything with a String method (lengths,
// angles, identifiers).
func Stringer(v fmt.Stringer) *Node {
	return Token(v.String())
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) IsList() bool { return n.kind == KindList }
func (n *Node) IsToken() bool { return n.kind == KindToken }
func (n *Node) IsString() bool { return n.kind == KindString }

// Line returns the source line of a parsed node, 0 for built nodes.
func (n *Node) Line() int { return n.line }

// Name returns the name of a list node.
func (n *Node) Name() string {
	if n.kind != KindList {
		return ""
	}
	return n.value
}

// Value returns the content of a token or string node.
func (n *Node) Value() string {
	if n.kind == KindList {
		return ""
	}
	return n.value
}

// Children returns all children of a list.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildrenNamed returns all child lists with the given name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == KindList && c.value == name {
			out = append(out, c)
		}
	}
	return out
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}

// AppendList appends a new child list "(name values...)" and returns it.
func (n *Node) AppendList(name string, values ...*Node) *Node {
	child := NewList(name, values...)
	n.children = append(n.children, child)
	return child
}

// TryChild resolves a path, returning nil if any segment is missing.
func (n *Node) TryChild(path string) *Node {
	cur := n
	for _, seg := range strings.Split(path, "/") {
		if cur == nil || cur.kind != KindList {
			return nil
		}
		if strings.HasPrefix(seg, "@") {
			idx, err := strconv.Atoi(seg[1:])
			if err != nil || idx < 0 || idx >= len(cur.children) {
				return nil
			}
			cur = cur.children[idx]
			continue
		}
		var found *Node
		for _, c := range cur.children {
			if c.kind == KindList && c.value == seg {
				found = c
				break
			}
		}
		cur = found
	}
	return cur
}

// Child resolves a path and fails if it does not exist.
func (n *Node) Child(path string) (*Node, error) {
	c := n.TryChild(path)
	if c == nil {
		return nil, fmt.Errorf("line %d: %q: missing child %q", n.line, n.value, path)
	}
	return c, nil
}

// ValueAt resolves path and returns the leaf value there.
func (n *Node) ValueAt(path string) (string, error) {
	c, err := n.Child(path)
	if err != nil {
		return "", err
	}
	if c.kind == KindList {
		return "", fmt.Errorf("line %d: %q: expected value at %q, got list", c.line, n.value, path)
	}
	return c.value, nil
}
