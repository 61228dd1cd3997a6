package library

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// PackagePad is a logical pad of a package, e.g. pin "1" of a SOT-23.
type PackagePad struct {
	UUID types.Identifier
	Name types.CircuitIdentifier
}

// Package is the physical body of a device with one or more footprints.
type Package struct {
	UUID       types.Identifier
	Name       types.ElementName
	Pads       []PackagePad
	Footprints []*Footprint
}

// Pad looks up a package pad.
func (p *Package) Pad(uuid types.Identifier) (PackagePad, bool) {
	i := slices.IndexFunc(p.Pads, func(pp PackagePad) bool { return pp.UUID == uuid })
	if i < 0 {
		return PackagePad{}, false
	}
	return p.Pads[i], true
}

// Footprint looks up a footprint.
func (p *Package) Footprint(uuid types.Identifier) (*Footprint, bool) {
	i := slices.IndexFunc(p.Footprints, func(f *Footprint) bool { return f.UUID() == uuid })
	if i < 0 {
		return nil, false
	}
	return p.Footprints[i], true
}

// DefaultFootprint returns the first footprint, or nil.
func (p *Package) DefaultFootprint() *Footprint {
	if len(p.Footprints) == 0 {
		return nil
	}
	return p.Footprints[0]
}

func (p *Package) Serialize() *sexp.Node {
	n := sexp.NewList("package", sexp.Stringer(p.UUID))
	n.AppendList("name", sexp.String(p.Name.String()))
	for _, pad := range p.Pads {
		n.AppendList("pad", sexp.Stringer(pad.UUID)).AppendList("name", sexp.String(pad.Name.String()))
	}
	for _, f := range p.Footprints {
		n.Append(f.Serialize())
	}
	return n
}

// DeserializePackage reads a package with its pads and footprints.
func DeserializePackage(n *sexp.Node, format types.Version) (*Package, error) {
	r := sexp.NewReader(n, "library.Package")
	p := &Package{UUID: r.Identifier("@0"), Name: r.ElementName("name/@0")}
	for _, c := range n.ChildrenNamed("pad") {
		pr := sexp.NewReader(c, "library.PackagePad")
		pad := PackagePad{UUID: pr.Identifier("@0"), Name: pr.CircuitIdentifier("name/@0")}
		r.Fail(pr.Err())
		if _, dup := p.Pad(pad.UUID); dup {
			r.Fail(docerr.ErrDuplicatePadIdentifier)
		}
		p.Pads = append(p.Pads, pad)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	for _, c := range n.ChildrenNamed("footprint") {
		f, err := DeserializeFootprint(c, format)
		if err != nil {
			return nil, err
		}
		p.Footprints = append(p.Footprints, f)
	}
	return p, nil
}
