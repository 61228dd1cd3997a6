package cmd

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// FootprintStrokeTextAdd adds a text to a device's footprint.
type FootprintStrokeTextAdd struct {
	undo.Base
	footprint *board.Footprint
	text      *board.StrokeText
	index     int
}

// NewFootprintStrokeTextAdd creates a command adding text to fpt.
func NewFootprintStrokeTextAdd(fpt *board.Footprint, text *board.StrokeText) *FootprintStrokeTextAdd {
	return &FootprintStrokeTextAdd{Base: undo.NewBase("Add footprint text"), footprint: fpt, text: text, index: -1}
}

func (c *FootprintStrokeTextAdd) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		if err := c.footprint.AddStrokeText(c.text); err != nil {
			return false, err
		}
		c.index = len(c.footprint.StrokeTexts()) - 1
		return true, nil
	})
}

func (c *FootprintStrokeTextAdd) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.footprint.RemoveStrokeText(c.text)
		return err
	})
}

func (c *FootprintStrokeTextAdd) Redo() error {
	return c.RunRedo(func() error { return c.footprint.InsertStrokeText(c.index, c.text) })
}

// FootprintStrokeTextRemove removes a text from a device's footprint.
type FootprintStrokeTextRemove struct {
	undo.Base
	footprint *board.Footprint
	text      *board.StrokeText
	index     int
}

// NewFootprintStrokeTextRemove creates a command removing text from fpt.
func NewFootprintStrokeTextRemove(fpt *board.Footprint, text *board.StrokeText) *FootprintStrokeTextRemove {
	return &FootprintStrokeTextRemove{Base: undo.NewBase("Remove footprint text"), footprint: fpt, text: text}
}

func (c *FootprintStrokeTextRemove) remove() error {
	i, err := c.footprint.RemoveStrokeText(c.text)
	if err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *FootprintStrokeTextRemove) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) { return true, c.remove() })
}

func (c *FootprintStrokeTextRemove) Undo() error {
	return c.RunUndo(func() error { return c.footprint.InsertStrokeText(c.index, c.text) })
}

func (c *FootprintStrokeTextRemove) Redo() error {
	return c.RunRedo(c.remove)
}

// StrokeTextEdit changes the properties of a text.
type StrokeTextEdit struct {
	undo.Base
	text      *library.StrokeText
	old, next *library.StrokeText
}

// NewStrokeTextEdit creates an edit starting from the current state of text.
func NewStrokeTextEdit(text *library.StrokeText) *StrokeTextEdit {
	return &StrokeTextEdit{
		Base: undo.NewBase("Edit text"),
		text: text,
		old:  text.Clone(),
		next: text.Clone(),
	}
}

func (c *StrokeTextEdit) SetLayer(layer string, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetLayer(layer) })
}

func (c *StrokeTextEdit) SetText(s string, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetText(s) })
}

func (c *StrokeTextEdit) SetPosition(pos types.Point, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetPosition(pos) })
}

func (c *StrokeTextEdit) Translate(delta types.Point, immediate bool) {
	c.SetPosition(c.next.Position().Add(delta), immediate)
}

func (c *StrokeTextEdit) SetRotation(rot types.Angle, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetRotation(rot) })
}

func (c *StrokeTextEdit) Rotate(angle types.Angle, center types.Point, immediate bool) {
	pos := c.next.Position().Rotated(angle, center)
	rot := c.next.Rotation().Add(angle)
	c.edit(immediate, func(t *library.StrokeText) {
		t.SetPosition(pos)
		t.SetRotation(rot)
	})
}

func (c *StrokeTextEdit) SetHeight(h types.PositiveLength, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetHeight(h) })
}

func (c *StrokeTextEdit) SetStrokeWidth(w types.UnsignedLength, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetStrokeWidth(w) })
}

func (c *StrokeTextEdit) SetAlign(h library.HAlign, v library.VAlign, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetAlign(h, v) })
}

func (c *StrokeTextEdit) SetMirrored(m bool, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetMirrored(m) })
}

func (c *StrokeTextEdit) SetAutoRotate(a bool, immediate bool) {
	c.edit(immediate, func(t *library.StrokeText) { t.SetAutoRotate(a) })
}

// Revert drops immediate previews of a command that will not be executed.
func (c *StrokeTextEdit) Revert() {
	if !c.WasExecuted() {
		applyText(c.text, c.old)
	}
}

func (c *StrokeTextEdit) edit(immediate bool, set func(*library.StrokeText)) {
	if c.WasExecuted() {
		return
	}
	set(c.next)
	if immediate {
		set(c.text)
	}
}

func (c *StrokeTextEdit) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		applyText(c.text, c.next)
		return !c.old.Equal(c.next), nil
	})
}

func (c *StrokeTextEdit) Undo() error {
	return c.RunUndo(func() error {
		applyText(c.text, c.old)
		return nil
	})
}

func (c *StrokeTextEdit) Redo() error {
	return c.RunRedo(func() error {
		applyText(c.text, c.next)
		return nil
	})
}

func applyText(dst, src *library.StrokeText) {
	dst.SetLayer(src.Layer())
	dst.SetText(src.Text())
	dst.SetPosition(src.Position())
	dst.SetRotation(src.Rotation())
	dst.SetHeight(src.Height())
	dst.SetStrokeWidth(src.StrokeWidth())
	dst.SetAlign(src.Align())
	dst.SetMirrored(src.Mirrored())
	dst.SetAutoRotate(src.AutoRotate())
}
