package board

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/scopeguard"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// NetLine is a straight copper trace between two footprint pads of the same
// net.
type NetLine struct {
	itemBase

	uuid       types.Identifier
	net        *NetSignal
	start, end *FootprintPad
	width      types.PositiveLength
	layer      string
}

// NewNetLine creates a detached net line. Both pads must belong to b and be
// bound to the same net.
func NewNetLine(b *Board, uuid types.Identifier, start, end *FootprintPad, width types.PositiveLength, layer string) (*NetLine, error) {
	const op = "board.NewNetLine"
	if start.board != b || end.board != b {
		return nil, docerr.Lifecycle(op, uuid, docerr.ErrForeignBoard, "net line anchors must belong to the same board")
	}
	if start == end {
		return nil, docerr.Structural(op, uuid, docerr.ErrInvalidValue, "net line must connect two different pads")
	}
	net := start.NetSignal()
	if net == nil || end.NetSignal() != net {
		return nil, docerr.Structural(op, uuid, docerr.ErrInvalidValue,
			"pads %s and %s must be bound to the same net", start.UUID(), end.UUID())
	}
	if !types.IsCopperLayer(layer) {
		return nil, docerr.Structural(op, uuid, docerr.ErrInvalidValue, "layer %q is not a copper layer", layer)
	}
	return &NetLine{
		itemBase: itemBase{board: b},
		uuid:     uuid,
		net:      net,
		start:    start,
		end:      end,
		width:    width,
		layer:    layer,
	}, nil
}

func (nl *NetLine) Kind() Kind { return KindNetLine }
func (nl *NetLine) UUID() types.Identifier { return nl.uuid }
func (nl *NetLine) NetSignal() *NetSignal { return nl.net }
func (nl *NetLine) Start() *FootprintPad { return nl.start }
func (nl *NetLine) End() *FootprintPad { return nl.end }
func (nl *NetLine) Width() types.PositiveLength { return nl.width }
func (nl *NetLine) Layer() string { return nl.layer }

// Length returns the straight-line length between the anchors.
func (nl *NetLine) Length() types.Length {
	d := nl.end.Position().Sub(nl.start.Position())
	return types.LengthFromMM(math.Hypot(d.X.MM(), d.Y.MM()))
}

// AddToBoard registers the line at both anchors, then attaches graphics.
func (nl *NetLine) AddToBoard() error {
	const op = "board.NetLine.AddToBoard"
	if err := nl.checkAttachable(op, nl.uuid); err != nil {
		return err
	}
	sgl := scopeguard.New(2)
	if err := nl.start.RegisterNetLine(nl); err != nil {
		return err
	}
	sgl.Add(func() error { return nl.start.UnregisterNetLine(nl) })
	if err := nl.end.RegisterNetLine(nl); err != nil {
		return nl.board.rollback(op, err, sgl)
	}
	sgl.Add(func() error { return nl.end.UnregisterNetLine(nl) })
	if err := nl.attachGraphics(op, nl); err != nil {
		return nl.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	nl.board.connectivity.ScheduleAirWiresRebuild(nl.net)
	return nil
}

// RemoveFromBoard unregisters the line at both anchors.
func (nl *NetLine) RemoveFromBoard() error {
	const op = "board.NetLine.RemoveFromBoard"
	if err := nl.checkDetachable(op, nl.uuid); err != nil {
		return err
	}
	sgl := scopeguard.New(2)
	if err := nl.detachGraphics(op, nl); err != nil {
		return err
	}
	sgl.Add(func() error { return nl.attachGraphics(op, nl) })
	if err := nl.start.UnregisterNetLine(nl); err != nil {
		return nl.board.rollback(op, err, sgl)
	}
	sgl.Add(func() error { return nl.start.RegisterNetLine(nl) })
	if err := nl.end.UnregisterNetLine(nl); err != nil {
		return nl.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	nl.board.connectivity.ScheduleAirWiresRebuild(nl.net)
	return nil
}

func appendAnchor(n *sexp.Node, name string, p *FootprintPad) {
	n.AppendList(name, sexp.Stringer(p.footprint.device.UUID()), sexp.Stringer(p.UUID()))
}

// Serialize writes "(netline uuid (net ..) (from dev pad) (to dev pad) ...)".
func (nl *NetLine) Serialize() *sexp.Node {
	n := sexp.NewList("netline", sexp.Stringer(nl.uuid))
	n.AppendList("net", sexp.Stringer(nl.net.uuid))
	appendAnchor(n, "from", nl.start)
	appendAnchor(n, "to", nl.end)
	n.AppendList("width", sexp.Stringer(nl.width))
	n.AppendList("layer", sexp.Token(nl.layer))
	return n
}

// DeserializeNetLine reads a detached net line. Its anchors are resolved
// among the devices already on b.
func DeserializeNetLine(b *Board, n *sexp.Node, _ types.Version) (*NetLine, error) {
	const op = "board.DeserializeNetLine"
	r := sexp.NewReader(n, op)
	uuid := r.Identifier("@0")
	netUUID := r.Identifier("net/@0")
	width := r.Positive("width/@0")
	layer := r.String("layer/@0")
	if err := r.Err(); err != nil {
		return nil, err
	}
	anchor := func(name string) (*FootprintPad, error) {
		devUUID := r.Identifier(name + "/@0")
		padUUID := r.Identifier(name + "/@1")
		if err := r.Err(); err != nil {
			return nil, err
		}
		d := b.Device(devUUID)
		if d == nil {
			return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "device %s not found", devUUID)
		}
		p, ok := d.footprint.Pad(padUUID)
		if !ok {
			return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "pad %s not found in device %s", padUUID, devUUID)
		}
		return p, nil
	}
	start, err := anchor("from")
	if err != nil {
		return nil, err
	}
	end, err := anchor("to")
	if err != nil {
		return nil, err
	}
	nl, err := NewNetLine(b, uuid, start, end, width, layer)
	if err != nil {
		return nil, err
	}
	if nl.net.uuid != netUUID {
		return nil, docerr.Structural(op, uuid, docerr.ErrInvalidValue,
			"stored net %s differs from the net of its pads %s", netUUID, nl.net.uuid)
	}
	return nl, nil
}
