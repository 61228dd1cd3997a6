package library

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// ComponentSignal is a logical signal of a component, e.g. "VCC".
type ComponentSignal struct {
	UUID types.Identifier
	Name types.CircuitIdentifier
}

// Component is the schematic-level definition of a part.
type Component struct {
	UUID    types.Identifier
	Name    types.ElementName
	Signals []ComponentSignal
}

// Signal looks up a component signal.
func (c *Component) Signal(uuid types.Identifier) (ComponentSignal, bool) {
	i := slices.IndexFunc(c.Signals, func(s ComponentSignal) bool { return s.UUID == uuid })
	if i < 0 {
		return ComponentSignal{}, false
	}
	return c.Signals[i], true
}

func (c *Component) Serialize() *sexp.Node {
	n := sexp.NewList("component", sexp.Stringer(c.UUID))
	n.AppendList("name", sexp.String(c.Name.String()))
	for _, s := range c.Signals {
		n.AppendList("signal", sexp.Stringer(s.UUID)).AppendList("name", sexp.String(s.Name.String()))
	}
	return n
}

// DeserializeComponent reads a component written by Serialize.
func DeserializeComponent(n *sexp.Node, _ types.Version) (*Component, error) {
	r := sexp.NewReader(n, "library.Component")
	c := &Component{UUID: r.Identifier("@0"), Name: r.ElementName("name/@0")}
	for _, sn := range n.ChildrenNamed("signal") {
		sr := sexp.NewReader(sn, "library.ComponentSignal")
		c.Signals = append(c.Signals, ComponentSignal{
			UUID: sr.Identifier("@0"),
			Name: sr.CircuitIdentifier("name/@0"),
		})
		r.Fail(sr.Err())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
