package sexp

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Reader extracts several values from one node and remembers the first
// failure, so deserializers can read every field and check once:
//
//	r := sexp.NewReader(node, "library.FootprintPad")
//	uuid := r.Identifier("@0")
//	pos := r.Point("position")
//	if err := r.Err(); err != nil { ... }
//
// The error is a structural validation error wrapping docerr.ErrInvalidValue.
type Reader struct {
	node *Node
	op   string
	err  error
}

// NewReader creates a Reader over n. op names the deserializer in errors.
func NewReader(n *Node, op string) *Reader {
	return &Reader{node: n, op: op}
}

// Node returns the node being read.
func (r *Reader) Node() *Node { return r.node }

// Err returns the first failure, or nil.
func (r *Reader) Err() error { return r.err }

// Fail records err unless an earlier failure exists.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = docerr.Structural(r.op, types.NilIdentifier,
			fmt.Errorf("%w: %w", docerr.ErrInvalidValue, err), "malformed %q node", r.node.Name())
	}
}

func (r *Reader) Identifier(path string) types.Identifier {
	v, err := r.node.IdentifierAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) Length(path string) types.Length {
	v, err := r.node.LengthAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) Positive(path string) types.PositiveLength {
	l := r.Length(path)
	if r.err != nil {
		return types.PositiveLength{}
	}
	v, err := types.NewPositiveLength(l)
	r.Fail(err)
	return v
}

func (r *Reader) Unsigned(path string) types.UnsignedLength {
	l := r.Length(path)
	if r.err != nil {
		return types.UnsignedLength{}
	}
	v, err := types.NewUnsignedLength(l)
	r.Fail(err)
	return v
}

func (r *Reader) Angle(path string) types.Angle {
	v, err := r.node.AngleAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) Bool(path string) bool {
	v, err := r.node.BoolAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) Int(path string) int {
	v, err := r.node.IntAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) String(path string) string {
	v, err := r.node.ValueAt(path)
	r.Fail(err)
	return v
}

func (r *Reader) Point(name string) types.Point {
	v, err := r.node.PointAt(name)
	r.Fail(err)
	return v
}

func (r *Reader) CircuitIdentifier(path string) types.CircuitIdentifier {
	s := r.String(path)
	if r.err != nil {
		return types.CircuitIdentifier{}
	}
	v, err := types.NewCircuitIdentifier(s)
	r.Fail(err)
	return v
}

func (r *Reader) ElementName(path string) types.ElementName {
	s := r.String(path)
	if r.err != nil {
		return types.ElementName{}
	}
	v, err := types.NewElementName(s)
	r.Fail(err)
	return v
}

// ReadEnum reads the value at path and converts it with parse.
func ReadEnum[T any](r *Reader, path string, parse func(string) (T, error)) T {
	var zero T
	s := r.String(path)
	if r.err != nil {
		return zero
	}
	v, err := parse(s)
	r.Fail(err)
	return v
}
