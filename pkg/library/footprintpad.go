package library

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// FootprintPadEvent names the property a FootprintPad change touched.
type FootprintPadEvent int

const (
	PadPackagePadChanged FootprintPadEvent = iota
	PadPositionChanged
	PadRotationChanged
	PadShapeChanged
	PadWidthChanged
	PadHeightChanged
	PadDrillChanged
	PadBoardSideChanged
)

// FootprintPad is a copper pad of a library footprint. PackagePad is the
// package pad it connects to, or NilIdentifier when unconnected.
type FootprintPad struct {
	OnEdited signal.Signal[FootprintPadEvent]

	uuid       types.Identifier
	packagePad types.Identifier
	position   types.Point
	rotation   types.Angle
	shape      PadShape
	width      types.PositiveLength
	height     types.PositiveLength
	drill      types.UnsignedLength
	side       BoardSide
}

// NewFootprintPad creates a pad.
func NewFootprintPad(uuid, packagePad types.Identifier, pos types.Point, rot types.Angle,
	shape PadShape, width, height types.PositiveLength, drill types.UnsignedLength, side BoardSide) *FootprintPad {
	return &FootprintPad{
		uuid:       uuid,
		packagePad: packagePad,
		position:   pos,
		rotation:   rot,
		shape:      shape,
		width:      width,
		height:     height,
		drill:      drill,
		side:       side,
	}
}

// CopyWithUUID returns a copy of p carrying a different identifier. Observers
// are not copied.
func (p *FootprintPad) CopyWithUUID(uuid types.Identifier) *FootprintPad {
	c := p.Clone()
	c.uuid = uuid
	return c
}

// Clone returns a copy of p without observers.
func (p *FootprintPad) Clone() *FootprintPad {
	return NewFootprintPad(p.uuid, p.packagePad, p.position, p.rotation, p.shape, p.width, p.height, p.drill, p.side)
}

func (p *FootprintPad) UUID() types.Identifier { return p.uuid }
func (p *FootprintPad) PackagePad() types.Identifier { return p.packagePad }
func (p *FootprintPad) Position() types.Point { return p.position }
func (p *FootprintPad) Rotation() types.Angle { return p.rotation }
func (p *FootprintPad) Shape() PadShape { return p.shape }
func (p *FootprintPad) Width() types.PositiveLength { return p.width }
func (p *FootprintPad) Height() types.PositiveLength { return p.height }
func (p *FootprintPad) DrillDiameter() types.UnsignedLength { return p.drill }
func (p *FootprintPad) BoardSide() BoardSide { return p.side }

// Layer returns the copper layer of the pad.
func (p *FootprintPad) Layer() string { return p.side.Layer() }

// IsOnLayer reports whether the pad has copper on layer.
func (p *FootprintPad) IsOnLayer(layer string) bool {
	if p.side == BoardSideTHT {
		return types.IsCopperLayer(layer)
	}
	return layer == p.Layer()
}

// The setters below return whether the value changed and notify OnEdited
// only in that case.

func (p *FootprintPad) SetPackagePad(id types.Identifier) bool {
	if id == p.packagePad {
		return false
	}
	p.packagePad = id
	p.OnEdited.Notify(PadPackagePadChanged)
	return true
}

func (p *FootprintPad) SetPosition(pos types.Point) bool {
	if pos == p.position {
		return false
	}
	p.position = pos
	p.OnEdited.Notify(PadPositionChanged)
	return true
}

func (p *FootprintPad) SetRotation(rot types.Angle) bool {
	if rot == p.rotation {
		return false
	}
	p.rotation = rot
	p.OnEdited.Notify(PadRotationChanged)
	return true
}

func (p *FootprintPad) SetShape(shape PadShape) bool {
	if shape == p.shape {
		return false
	}
	p.shape = shape
	p.OnEdited.Notify(PadShapeChanged)
	return true
}

func (p *FootprintPad) SetWidth(w types.PositiveLength) bool {
	if w == p.width {
		return false
	}
	p.width = w
	p.OnEdited.Notify(PadWidthChanged)
	return true
}

func (p *FootprintPad) SetHeight(h types.PositiveLength) bool {
	if h == p.height {
		return false
	}
	p.height = h
	p.OnEdited.Notify(PadHeightChanged)
	return true
}

func (p *FootprintPad) SetDrillDiameter(d types.UnsignedLength) bool {
	if d == p.drill {
		return false
	}
	p.drill = d
	p.OnEdited.Notify(PadDrillChanged)
	return true
}

func (p *FootprintPad) SetBoardSide(side BoardSide) bool {
	if side == p.side {
		return false
	}
	p.side = side
	p.OnEdited.Notify(PadBoardSideChanged)
	return true
}

// Equal compares every property, ignoring observers.
func (p *FootprintPad) Equal(o *FootprintPad) bool {
	return p.uuid == o.uuid &&
		p.packagePad == o.packagePad &&
		p.position == o.position &&
		p.rotation == o.rotation &&
		p.shape == o.shape &&
		p.width == o.width &&
		p.height == o.height &&
		p.drill == o.drill &&
		p.side == o.side
}

// Serialize writes "(pad uuid (side ..) (shape ..) ...)".
func (p *FootprintPad) Serialize() *sexp.Node {
	n := sexp.NewList("pad", sexp.Stringer(p.uuid))
	n.AppendList("side", sexp.Stringer(p.side))
	n.AppendList("shape", sexp.Stringer(p.shape))
	n.AppendPoint("position", p.position)
	n.AppendList("rotation", sexp.Stringer(p.rotation))
	n.AppendList("size", sexp.Stringer(p.width), sexp.Stringer(p.height))
	n.AppendList("drill", sexp.Stringer(p.drill))
	n.AppendList("package_pad", sexp.Stringer(p.packagePad))
	return n
}

// format 0.1 footprint pads had no own identifier and used the package pad's.
var padOwnUUIDSince = types.MustParseVersion("0.2")

// DeserializeFootprintPad reads a pad written by Serialize.
func DeserializeFootprintPad(n *sexp.Node, format types.Version) (*FootprintPad, error) {
	r := sexp.NewReader(n, "library.FootprintPad")
	p := &FootprintPad{}
	p.uuid = r.Identifier("@0")
	p.packagePad = p.uuid
	if format.AtLeast(padOwnUUIDSince) {
		p.packagePad = r.Identifier("package_pad/@0")
	}
	p.side = sexp.ReadEnum(r, "side/@0", ParseBoardSide)
	p.shape = sexp.ReadEnum(r, "shape/@0", ParsePadShape)
	p.position = r.Point("position")
	p.rotation = r.Angle("rotation/@0")
	p.width = r.Positive("size/@0")
	p.height = r.Positive("size/@1")
	p.drill = r.Unsigned("drill/@0")
	if err := r.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
