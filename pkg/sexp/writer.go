package sexp

import (
	"bufio"
	"io"
	"strings"
)

// Format renders n as text. Child lists start on their own line, indented by
// one space per level; a list containing child lists closes on its own line.
func (n *Node) Format() string {
	var b strings.Builder
	n.format(&b, 0)
	b.WriteByte('\n')
	return b.String()
}

// Write renders n to w.
func (n *Node) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(n.Format()); err != nil {
		return err
	}
	return bw.Flush()
}

func (n *Node) format(b *strings.Builder, indent int) {
	switch n.kind {
	case KindToken:
		b.WriteString(n.value)
		return
	case KindString:
		b.WriteString(quote(n.value))
		return
	}

	b.WriteByte('(')
	b.WriteString(n.value)
	multiLine := n.hasNestedLists()
	for _, c := range n.children {
		if multiLine && c.kind == KindList {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", indent+1))
		} else {
			b.WriteByte(' ')
		}
		c.format(b, indent+1)
	}
	if multiLine {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", indent))
	}
	b.WriteByte(')')
}

func (n *Node) hasListChildren() bool {
	for _, c := range n.children {
		if c.kind == KindList {
			return true
		}
	}
	return false
}

// hasNestedLists reports whether any child list itself contains lists, in
// which case every child list of n goes on its own line.
func (n *Node) hasNestedLists() bool {
	count := 0
	for _, c := range n.children {
		if c.kind != KindList {
			continue
		}
		count++
		if c.hasListChildren() || count > 3 {
			return true
		}
	}
	return false
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
