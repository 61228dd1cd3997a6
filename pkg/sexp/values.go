package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Typed value extraction helpers. Each resolves path relative to n.

// IdentifierAt parses an identifier ("none" yields NilIdentifier).
func (n *Node) IdentifierAt(path string) (types.Identifier, error) {
	v, err := n.ValueAt(path)
	if err != nil {
		return types.NilIdentifier, err
	}
	id, err := types.ParseIdentifier(v)
	if err != nil {
		return types.NilIdentifier, n.wrap(path, err)
	}
	return id, nil
}

// LengthAt parses a millimetre length.
func (n *Node) LengthAt(path string) (types.Length, error) {
	v, err := n.ValueAt(path)
	if err != nil {
		return 0, err
	}
	l, err := types.ParseLength(v)
	if err != nil {
		return 0, n.wrap(path, err)
	}
	return l, nil
}

// AngleAt parses an angle in degrees.
func (n *Node) AngleAt(path string) (types.Angle, error) {
	v, err := n.ValueAt(path)
	if err != nil {
		return 0, err
	}
	a, err := types.ParseAngle(v)
	if err != nil {
		return 0, n.wrap(path, err)
	}
	return a, nil
}

// BoolAt parses "true" or "false".
func (n *Node) BoolAt(path string) (bool, error) {
	v, err := n.ValueAt(path)
	if err != nil {
		return false, err
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, n.wrap(path, fmt.Errorf("not a valid boolean: %q", v))
}

// IntAt parses a decimal integer.
func (n *Node) IntAt(path string) (int, error) {
	v, err := n.ValueAt(path)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, n.wrap(path, fmt.Errorf("not a valid integer: %q", v))
	}
	return i, nil
}

// PointAt parses a child list "(name x y)".
func (n *Node) PointAt(name string) (types.Point, error) {
	c, err := n.Child(name)
	if err != nil {
		return types.Point{}, err
	}
	x, err := c.LengthAt("@0")
	if err != nil {
		return types.Point{}, err
	}
	y, err := c.LengthAt("@1")
	if err != nil {
		return types.Point{}, err
	}
	return types.Point{X: x, Y: y}, nil
}

// AppendPoint appends "(name x y)".
func (n *Node) AppendPoint(name string, p types.Point) *Node {
	return n.AppendList(name, Stringer(p.X), Stringer(p.Y))
}

func (n *Node) wrap(path string, err error) error {
	return fmt.Errorf("line %d: %q/%s: %w", n.line, n.value, path, err)
}
