package board

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/scopeguard"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// FootprintPad is the board instance of a library footprint pad.
type FootprintPad struct {
	itemBase

	footprint  *Footprint
	lib        *library.FootprintPad
	packagePad *library.PackagePad
	signal     *ComponentSignalInstance

	// absolute placement, recomputed by UpdatePosition
	position types.Point
	rotation types.Angle

	netSlot *signal.Slot[NetSignalChange]
}

func newFootprintPad(fp *Footprint, lib *library.FootprintPad, pkgPad *library.PackagePad, sig *ComponentSignalInstance) *FootprintPad {
	p := &FootprintPad{
		itemBase:   itemBase{board: fp.board},
		footprint:  fp,
		lib:        lib,
		packagePad: pkgPad,
		signal:     sig,
	}
	p.computePosition()
	return p
}

func (p *FootprintPad) Kind() Kind { return KindFootprintPad }

// UUID returns the identifier of the library pad.
func (p *FootprintPad) UUID() types.Identifier { return p.lib.UUID() }

// Footprint returns the owning footprint.
func (p *FootprintPad) Footprint() *Footprint { return p.footprint }
// LibPad returns the library pad this pad instantiates.
func (p *FootprintPad) LibPad() *library.FootprintPad { return p.lib }
func (p *FootprintPad) Position() types.Point { return p.position }
func (p *FootprintPad) Rotation() types.Angle { return p.rotation }
func (p *FootprintPad) Mirrored() bool { return p.footprint.device.mirrored }

// PackagePad returns the package pad the pad connects to, or nil.
func (p *FootprintPad) PackagePad() *library.PackagePad { return p.packagePad }

// ComponentSignalInstance returns the bound component signal, or nil.
func (p *FootprintPad) ComponentSignalInstance() *ComponentSignalInstance { return p.signal }

// NetSignal returns the net of the bound component signal, or nil.
func (p *FootprintPad) NetSignal() *NetSignal {
	if p.signal == nil {
		return nil
	}
	return p.signal.NetSignal()
}

// Layer returns the copper layer on the board, taking mirroring into account.
func (p *FootprintPad) Layer() string {
	side := p.lib.BoardSide()
	if p.Mirrored() {
		side = side.Mirrored()
	}
	return side.Layer()
}

func (p *FootprintPad) IsOnLayer(layer string) bool {
	if p.lib.BoardSide() == library.BoardSideTHT {
		return types.IsCopperLayer(layer)
	}
	return layer == p.Layer()
}

// IsUsed reports whether net lines are registered at the pad.
func (p *FootprintPad) IsUsed() bool {
	return p.added && p.board.connectivity.IsPadUsed(p)
}

// NetLines returns the net lines registered at the pad.
func (p *FootprintPad) NetLines() []*NetLine {
	return p.board.connectivity.NetLinesOfPad(p)
}

func (p *FootprintPad) computePosition() {
	tr := p.footprint.device.Transform()
	p.position = tr.Map(p.lib.Position())
	p.rotation = tr.MapAngle(p.lib.Rotation())
}

// UpdatePosition recomputes the absolute placement from the device and
// refreshes the graphics of the pad and its net lines.
func (p *FootprintPad) UpdatePosition() {
	p.computePosition()
	if !p.added {
		return
	}
	p.board.scene.UpdateTransform(p)
	for _, nl := range p.board.connectivity.NetLinesOfPad(p) {
		p.board.scene.UpdateTransform(nl)
	}
}

// AddToBoard registers the pad at its component signal and in the
// connectivity registry, then attaches graphics.
func (p *FootprintPad) AddToBoard() error {
	const op = "board.FootprintPad.AddToBoard"
	if err := p.checkAttachable(op, p.UUID()); err != nil {
		return err
	}
	conn := p.board.connectivity
	sgl := scopeguard.New(3)
	if p.signal != nil {
		if err := p.signal.registerPad(p); err != nil {
			return err
		}
		sgl.Add(func() error { return p.signal.unregisterPad(p) })
		p.netSlot = p.signal.OnNetSignalChanged.Attach(conn.padNetChanged)
		sgl.Add(func() error {
			p.netSlot.Detach()
			return nil
		})
	}
	net := p.NetSignal()
	conn.padAdded(net)
	sgl.Add(func() error {
		conn.padRemoved(net)
		return nil
	})
	if err := p.attachGraphics(op, p); err != nil {
		return p.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	return nil
}

// RemoveFromBoard undoes AddToBoard. It fails while net lines end here.
func (p *FootprintPad) RemoveFromBoard() error {
	const op = "board.FootprintPad.RemoveFromBoard"
	if err := p.checkDetachable(op, p.UUID()); err != nil {
		return err
	}
	if p.IsUsed() {
		return docerr.Lifecycle(op, p.UUID(), docerr.ErrInUse, "pad carries %d net lines", len(p.NetLines()))
	}
	conn := p.board.connectivity
	sgl := scopeguard.New(3)
	if err := p.detachGraphics(op, p); err != nil {
		return err
	}
	sgl.Add(func() error { return p.attachGraphics(op, p) })
	net := p.NetSignal()
	conn.padRemoved(net)
	sgl.Add(func() error {
		conn.padAdded(net)
		return nil
	})
	if p.signal != nil {
		p.netSlot.Detach()
		p.netSlot = nil
		if err := p.signal.unregisterPad(p); err != nil {
			sgl.Add(func() error {
				p.netSlot = p.signal.OnNetSignalChanged.Attach(conn.padNetChanged)
				return nil
			})
			return p.board.rollback(op, err, sgl)
		}
	}
	sgl.Dismiss()
	return nil
}

// RegisterNetLine records nl as ending at the pad. The pad must be attached
// and nl must carry the pad's net.
func (p *FootprintPad) RegisterNetLine(nl *NetLine) error {
	const op = "board.FootprintPad.RegisterNetLine"
	if !p.added {
		return docerr.Lifecycle(op, p.UUID(), docerr.ErrNotAttached, "net lines can only end at attached pads")
	}
	if nl.board != p.board {
		return docerr.Lifecycle(op, nl.UUID(), docerr.ErrForeignBoard, "net line and pad must share a board")
	}
	if nl.net != p.NetSignal() {
		return docerr.Lifecycle(op, nl.UUID(), docerr.ErrInvalidValue, "net line net must equal the net of pad %s", p.UUID())
	}
	return p.board.connectivity.registerNetLine(p, nl)
}

// UnregisterNetLine removes a registration made by RegisterNetLine.
func (p *FootprintPad) UnregisterNetLine(nl *NetLine) error {
	const op = "board.FootprintPad.UnregisterNetLine"
	if !p.added {
		return docerr.Lifecycle(op, p.UUID(), docerr.ErrNotAttached, "pad is not attached")
	}
	return p.board.connectivity.unregisterNetLine(p, nl)
}
