package cmd

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// FootprintPadInsert adds a pad to a library footprint.
type FootprintPadInsert struct {
	undo.Base
	footprint *library.Footprint
	pad       *library.FootprintPad
	index     int
}

// NewFootprintPadInsert appends pad when executed.
func NewFootprintPadInsert(fpt *library.Footprint, pad *library.FootprintPad) *FootprintPadInsert {
	return &FootprintPadInsert{Base: undo.NewBase("Add footprint pad"), footprint: fpt, pad: pad, index: -1}
}

// Pad returns the pad being inserted.
func (c *FootprintPadInsert) Pad() *library.FootprintPad { return c.pad }

func (c *FootprintPadInsert) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		if err := c.footprint.Insert(c.index, c.pad); err != nil {
			return false, err
		}
		c.index = c.footprint.IndexOf(c.pad.UUID())
		return true, nil
	})
}

func (c *FootprintPadInsert) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.footprint.Remove(c.pad.UUID())
		return err
	})
}

func (c *FootprintPadInsert) Redo() error {
	return c.RunRedo(func() error { return c.footprint.Insert(c.index, c.pad) })
}

// FootprintPadRemove removes a pad from a library footprint.
type FootprintPadRemove struct {
	undo.Base
	footprint *library.Footprint
	pad       *library.FootprintPad
	index     int
}

// NewFootprintPadRemove creates a command removing pad from fpt.
func NewFootprintPadRemove(fpt *library.Footprint, pad *library.FootprintPad) *FootprintPadRemove {
	return &FootprintPadRemove{Base: undo.NewBase("Remove footprint pad"), footprint: fpt, pad: pad}
}

func (c *FootprintPadRemove) remove() error {
	i, err := c.footprint.Remove(c.pad.UUID())
	if err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *FootprintPadRemove) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) { return true, c.remove() })
}

func (c *FootprintPadRemove) Undo() error {
	return c.RunUndo(func() error { return c.footprint.Insert(c.index, c.pad) })
}

func (c *FootprintPadRemove) Redo() error {
	return c.RunRedo(c.remove)
}

// FootprintPadEdit changes the properties of a library footprint pad.
type FootprintPadEdit struct {
	undo.Base
	pad       *library.FootprintPad
	old, next *library.FootprintPad
}

// NewFootprintPadEdit captures the current state of pad.
func NewFootprintPadEdit(pad *library.FootprintPad) *FootprintPadEdit {
	return &FootprintPadEdit{
		Base: undo.NewBase("Edit footprint pad"),
		pad:  pad,
		old:  pad.Clone(),
		next: pad.Clone(),
	}
}

// The setters below are ignored once the command was executed.

func (c *FootprintPadEdit) SetPackagePad(id types.Identifier, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetPackagePad(id) })
}

func (c *FootprintPadEdit) SetBoardSide(side library.BoardSide, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetBoardSide(side) })
}

func (c *FootprintPadEdit) SetShape(shape library.PadShape, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetShape(shape) })
}

func (c *FootprintPadEdit) SetWidth(w types.PositiveLength, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetWidth(w) })
}

func (c *FootprintPadEdit) SetHeight(h types.PositiveLength, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetHeight(h) })
}

func (c *FootprintPadEdit) SetDrillDiameter(d types.UnsignedLength, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetDrillDiameter(d) })
}

func (c *FootprintPadEdit) SetPosition(pos types.Point, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetPosition(pos) })
}

func (c *FootprintPadEdit) Translate(delta types.Point, immediate bool) {
	c.SetPosition(c.next.Position().Add(delta), immediate)
}

func (c *FootprintPadEdit) SnapToGrid(interval types.PositiveLength, immediate bool) {
	c.SetPosition(c.next.Position().MappedToGrid(interval), immediate)
}

func (c *FootprintPadEdit) SetRotation(rot types.Angle, immediate bool) {
	c.edit(immediate, func(p *library.FootprintPad) { p.SetRotation(rot) })
}

// Rotate turns the pad by angle around center.
func (c *FootprintPadEdit) Rotate(angle types.Angle, center types.Point, immediate bool) {
	pos := c.next.Position().Rotated(angle, center)
	rot := c.next.Rotation().Add(angle)
	c.edit(immediate, func(p *library.FootprintPad) {
		p.SetPosition(pos)
		p.SetRotation(rot)
	})
}

// MirrorGeometry mirrors position and rotation around center.
func (c *FootprintPadEdit) MirrorGeometry(o types.Orientation, center types.Point, immediate bool) {
	pos := c.next.Position().Mirrored(o, center)
	rot := c.next.Rotation().Inverted()
	if o == types.Horizontal {
		rot = types.Deg180.Sub(c.next.Rotation())
	}
	c.edit(immediate, func(p *library.FootprintPad) {
		p.SetPosition(pos)
		p.SetRotation(rot)
	})
}

// MirrorLayer swaps top and bottom. THT pads are unaffected.
func (c *FootprintPadEdit) MirrorLayer(immediate bool) {
	c.SetBoardSide(c.next.BoardSide().Mirrored(), immediate)
}

// Revert restores the captured state, dropping immediate previews of a
// command that will not be executed.
func (c *FootprintPadEdit) Revert() {
	if !c.WasExecuted() {
		applyPad(c.pad, c.old)
	}
}

func (c *FootprintPadEdit) edit(immediate bool, set func(*library.FootprintPad)) {
	if c.WasExecuted() {
		return
	}
	set(c.next)
	if immediate {
		set(c.pad)
	}
}

func (c *FootprintPadEdit) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		applyPad(c.pad, c.next)
		return !c.old.Equal(c.next), nil
	})
}

func (c *FootprintPadEdit) Undo() error {
	return c.RunUndo(func() error {
		applyPad(c.pad, c.old)
		return nil
	})
}

func (c *FootprintPadEdit) Redo() error {
	return c.RunRedo(func() error {
		applyPad(c.pad, c.next)
		return nil
	})
}

func applyPad(dst, src *library.FootprintPad) {
	dst.SetPackagePad(src.PackagePad())
	dst.SetBoardSide(src.BoardSide())
	dst.SetShape(src.Shape())
	dst.SetWidth(src.Width())
	dst.SetHeight(src.Height())
	dst.SetDrillDiameter(src.DrillDiameter())
	dst.SetPosition(src.Position())
	dst.SetRotation(src.Rotation())
}
