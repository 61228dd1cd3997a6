package cmd

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// DeviceAdd places a detached device on its board.
type DeviceAdd struct {
	undo.Base
	device *board.Device
	index  int
}

// NewDeviceAdd creates a command placing d on its board.
func NewDeviceAdd(d *board.Device) *DeviceAdd {
	return &DeviceAdd{Base: undo.NewBase("Add device"), device: d, index: -1}
}

func (c *DeviceAdd) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		if err := c.device.Board().AddDevice(c.device); err != nil {
			return false, err
		}
		c.index = len(c.device.Board().Devices()) - 1
		return true, nil
	})
}

func (c *DeviceAdd) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.device.Board().RemoveDevice(c.device)
		return err
	})
}

func (c *DeviceAdd) Redo() error {
	return c.RunRedo(func() error { return c.device.Board().InsertDevice(c.index, c.device) })
}

// DeviceRemove takes a device off its board. It fails while net lines end
// at the device's pads.
type DeviceRemove struct {
	undo.Base
	device *board.Device
	index  int
}

// NewDeviceRemove creates a command taking d off its board.
func NewDeviceRemove(d *board.Device) *DeviceRemove {
	return &DeviceRemove{Base: undo.NewBase("Remove device"), device: d}
}

func (c *DeviceRemove) remove() error {
	i, err := c.device.Board().RemoveDevice(c.device)
	if err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *DeviceRemove) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) { return true, c.remove() })
}

func (c *DeviceRemove) Undo() error {
	return c.RunUndo(func() error { return c.device.Board().InsertDevice(c.index, c.device) })
}

func (c *DeviceRemove) Redo() error {
	return c.RunRedo(c.remove)
}

type placement struct {
	pos      types.Point
	rot      types.Angle
	mirrored bool
}

// DeviceEdit moves, rotates or mirrors a device.
type DeviceEdit struct {
	undo.Base
	device    *board.Device
	old, next placement
}

// NewDeviceEdit creates an edit starting from the current placement of d.
func NewDeviceEdit(d *board.Device) *DeviceEdit {
	p := placement{pos: d.Position(), rot: d.Rotation(), mirrored: d.Mirrored()}
	return &DeviceEdit{Base: undo.NewBase("Edit device"), device: d, old: p, next: p}
}

// SetPosition moves the device to pos.
func (c *DeviceEdit) SetPosition(pos types.Point, immediate bool) {
	c.edit(immediate, func(p *placement) { p.pos = pos })
}

// Translate moves the device by delta.
func (c *DeviceEdit) Translate(delta types.Point, immediate bool) {
	c.edit(immediate, func(p *placement) { p.pos = p.pos.Add(delta) })
}

// SetRotation sets the absolute rotation.
func (c *DeviceEdit) SetRotation(rot types.Angle, immediate bool) {
	c.edit(immediate, func(p *placement) { p.rot = rot })
}

// Rotate turns the device by angle around center.
func (c *DeviceEdit) Rotate(angle types.Angle, center types.Point, immediate bool) {
	c.edit(immediate, func(p *placement) {
		p.pos = p.pos.Rotated(angle, center)
		p.rot = p.rot.Add(angle)
	})
}

// SetMirrored places the device on the bottom side when mirrored is set.
func (c *DeviceEdit) SetMirrored(mirrored bool, immediate bool) {
	c.edit(immediate, func(p *placement) { p.mirrored = mirrored })
}

// Mirror flips the device to the other board side, mirroring its position
// around center.
func (c *DeviceEdit) Mirror(o types.Orientation, center types.Point, immediate bool) {
	c.edit(immediate, func(p *placement) {
		p.pos = p.pos.Mirrored(o, center)
		p.mirrored = !p.mirrored
		if o == types.Horizontal {
			p.rot = p.rot.Inverted()
		} else {
			p.rot = types.Deg180.Sub(p.rot)
		}
	})
}

// Revert drops immediate previews of a command that will not be executed.
func (c *DeviceEdit) Revert() {
	if !c.WasExecuted() {
		c.apply(c.old)
	}
}

func (c *DeviceEdit) edit(immediate bool, change func(*placement)) {
	if c.WasExecuted() {
		return
	}
	change(&c.next)
	if immediate {
		c.apply(c.next)
	}
}

// apply sets mirror and rotation before the position so pads are
// recomputed with the final transform last.
func (c *DeviceEdit) apply(p placement) {
	c.device.SetMirrored(p.mirrored)
	c.device.SetRotation(p.rot)
	c.device.SetPosition(p.pos)
}

func (c *DeviceEdit) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		c.apply(c.next)
		return c.next != c.old, nil
	})
}

func (c *DeviceEdit) Undo() error {
	return c.RunUndo(func() error {
		c.apply(c.old)
		return nil
	})
}

func (c *DeviceEdit) Redo() error {
	return c.RunRedo(func() error {
		c.apply(c.next)
		return nil
	})
}
