package library

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// PadSignalMapItem connects a package pad to a component signal. A nil
// Signal leaves the pad unconnected.
type PadSignalMapItem struct {
	Pad    types.Identifier
	Signal types.Identifier
}

// Device binds a component to a package.
type Device struct {
	UUID         types.Identifier
	Name         types.ElementName
	Component    types.Identifier
	Package      types.Identifier
	PadSignalMap []PadSignalMapItem
}

// SignalOfPad returns the component signal a package pad maps to. ok is
// false if the pad has no entry at all.
func (d *Device) SignalOfPad(pad types.Identifier) (sig types.Identifier, ok bool) {
	i := slices.IndexFunc(d.PadSignalMap, func(it PadSignalMapItem) bool { return it.Pad == pad })
	if i < 0 {
		return types.NilIdentifier, false
	}
	return d.PadSignalMap[i].Signal, true
}

func (d *Device) Serialize() *sexp.Node {
	n := sexp.NewList("device", sexp.Stringer(d.UUID))
	n.AppendList("name", sexp.String(d.Name.String()))
	n.AppendList("component", sexp.Stringer(d.Component))
	n.AppendList("package", sexp.Stringer(d.Package))
	for _, it := range d.PadSignalMap {
		n.AppendList("pad", sexp.Stringer(it.Pad)).AppendList("signal", sexp.Stringer(it.Signal))
	}
	return n
}

// DeserializeDevice reads a device written by Serialize.
func DeserializeDevice(n *sexp.Node, _ types.Version) (*Device, error) {
	r := sexp.NewReader(n, "library.Device")
	d := &Device{
		UUID:      r.Identifier("@0"),
		Name:      r.ElementName("name/@0"),
		Component: r.Identifier("component/@0"),
		Package:   r.Identifier("package/@0"),
	}
	for _, pn := range n.ChildrenNamed("pad") {
		pr := sexp.NewReader(pn, "library.PadSignalMapItem")
		d.PadSignalMap = append(d.PadSignalMap, PadSignalMapItem{
			Pad:    pr.Identifier("@0"),
			Signal: pr.Identifier("signal/@0"),
		})
		r.Fail(pr.Err())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return d, nil
}
