package board

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/scopeguard"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Device places a component instance on the board using one footprint of
// its library device's package.
type Device struct {
	itemBase

	OnMoved    signal.Signal[types.Point]
	OnRotated  signal.Signal[types.Angle]
	OnMirrored signal.Signal[bool]

	component    *ComponentInstance
	libDevice    *library.Device
	libPackage   *library.Package
	libFootprint *library.Footprint

	position types.Point
	rotation types.Angle
	mirrored bool

	footprint *Footprint
}

// NewDevice creates a detached device for component. A nil footprint
// identifier selects the package's default footprint.
func NewDevice(b *Board, component *ComponentInstance, libDevice, libFootprint types.Identifier,
	pos types.Point, rot types.Angle, mirrored bool) (*Device, error) {
	return newDevice(b, component, libDevice, libFootprint, pos, rot, mirrored, nil, true)
}

func newDevice(b *Board, component *ComponentInstance, libDevice, libFootprint types.Identifier,
	pos types.Point, rot types.Angle, mirrored bool, texts []*StrokeText, defaultTexts bool) (*Device, error) {
	const op = "board.NewDevice"
	dev, ok := b.library.Device(libDevice)
	if !ok {
		return nil, docerr.Structural(op, component.UUID(), docerr.ErrNotFound, "library device %s not found", libDevice)
	}
	if dev.Component != component.lib.UUID {
		return nil, docerr.Structural(op, component.UUID(), docerr.ErrInvalidValue,
			"library device %s does not implement component %s", dev.UUID, component.lib.UUID)
	}
	pkg, ok := b.library.Package(dev.Package)
	if !ok {
		return nil, docerr.Structural(op, component.UUID(), docerr.ErrNotFound, "library package %s not found", dev.Package)
	}
	fpt := pkg.DefaultFootprint()
	if !libFootprint.IsNil() {
		fpt, ok = pkg.Footprint(libFootprint)
		if !ok {
			fpt = nil
		}
	}
	if fpt == nil {
		return nil, docerr.Structural(op, component.UUID(), docerr.ErrNotFound,
			"footprint %s not found in package %s", libFootprint, pkg.UUID)
	}
	d := &Device{
		itemBase:     itemBase{board: b},
		component:    component,
		libDevice:    dev,
		libPackage:   pkg,
		libFootprint: fpt,
		position:     pos,
		rotation:     rot,
		mirrored:     mirrored,
	}
	f, err := newFootprint(d, texts, defaultTexts)
	if err != nil {
		return nil, err
	}
	d.footprint = f
	return d, nil
}

func (d *Device) Kind() Kind { return KindDevice }

// UUID returns the identifier of the placed component instance.
func (d *Device) UUID() types.Identifier { return d.component.UUID() }

// ComponentInstance returns the circuit element this device places.
func (d *Device) ComponentInstance() *ComponentInstance { return d.component }
func (d *Device) LibDevice() *library.Device { return d.libDevice }
func (d *Device) LibPackage() *library.Package { return d.libPackage }
func (d *Device) LibFootprint() *library.Footprint { return d.libFootprint }
// Footprint returns the owned footprint.
func (d *Device) Footprint() *Footprint { return d.footprint }
func (d *Device) Position() types.Point { return d.position }
func (d *Device) Rotation() types.Angle { return d.rotation }
func (d *Device) Mirrored() bool { return d.mirrored }

// Transform maps footprint coordinates to board coordinates.
func (d *Device) Transform() types.Transform {
	return types.NewTransform(d.position, d.rotation, d.mirrored)
}

// IsUsed reports whether net lines end at any pad of the device.
func (d *Device) IsUsed() bool { return d.footprint.IsUsed() }

// SetPosition moves the device and reports whether anything changed.
func (d *Device) SetPosition(pos types.Point) bool {
	if pos == d.position {
		return false
	}
	d.position = pos
	d.OnMoved.Notify(pos)
	return true
}

// SetRotation rotates the device and reports whether anything changed.
func (d *Device) SetRotation(rot types.Angle) bool {
	if rot == d.rotation {
		return false
	}
	d.rotation = rot
	d.OnRotated.Notify(rot)
	return true
}

// SetMirrored flips the device and reports whether anything changed.
func (d *Device) SetMirrored(mirrored bool) bool {
	if mirrored == d.mirrored {
		return false
	}
	d.mirrored = mirrored
	d.OnMirrored.Notify(mirrored)
	return true
}

func (d *Device) SetSelected(selected bool) {
	d.itemBase.SetSelected(selected)
	d.footprint.SetSelected(selected)
}

// AddToBoard registers the device with its component instance and attaches
// the footprint.
func (d *Device) AddToBoard() error {
	const op = "board.Device.AddToBoard"
	if err := d.checkAttachable(op, d.UUID()); err != nil {
		return err
	}
	sgl := scopeguard.New(2)
	if err := d.component.registerDevice(d); err != nil {
		return err
	}
	sgl.Add(func() error { return d.component.unregisterDevice(d) })
	if err := d.footprint.AddToBoard(); err != nil {
		return d.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	d.added = true
	return nil
}

// RemoveFromBoard detaches the footprint and releases the component instance.
func (d *Device) RemoveFromBoard() error {
	const op = "board.Device.RemoveFromBoard"
	if err := d.checkDetachable(op, d.UUID()); err != nil {
		return err
	}
	sgl := scopeguard.New(2)
	if err := d.footprint.RemoveFromBoard(); err != nil {
		return err
	}
	sgl.Add(d.footprint.AddToBoard)
	if err := d.component.unregisterDevice(d); err != nil {
		return d.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	d.added = false
	d.selected = false
	return nil
}

// Serialize writes the device with its stroke texts in insertion order.
func (d *Device) Serialize() *sexp.Node {
	n := sexp.NewList("device", sexp.Stringer(d.UUID()))
	n.AppendList("lib_device", sexp.Stringer(d.libDevice.UUID))
	n.AppendList("lib_footprint", sexp.Stringer(d.libFootprint.UUID()))
	n.AppendPoint("position", d.position)
	n.AppendList("rotation", sexp.Stringer(d.rotation))
	n.AppendList("mirror", sexp.Bool(d.mirrored))
	for _, t := range d.footprint.texts {
		n.Append(t.Serialize())
	}
	return n
}

// DeserializeDevice reads a detached device. The footprint is validated the
// same way as for NewDevice.
func DeserializeDevice(b *Board, n *sexp.Node, format types.Version) (*Device, error) {
	const op = "board.DeserializeDevice"
	r := sexp.NewReader(n, op)
	uuid := r.Identifier("@0")
	libDev := r.Identifier("lib_device/@0")
	libFpt := r.Identifier("lib_footprint/@0")
	pos := r.Point("position")
	rot := r.Angle("rotation/@0")
	mirrored := r.Bool("mirror/@0")
	if err := r.Err(); err != nil {
		return nil, err
	}
	component := b.circuit.ComponentInstance(uuid)
	if component == nil {
		return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "component instance not found in circuit")
	}
	texts := []*StrokeText{}
	for _, tn := range n.ChildrenNamed("stroke_text") {
		t, err := DeserializeStrokeText(b, tn, format)
		if err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return newDevice(b, component, libDev, libFpt, pos, rot, mirrored, texts, false)
}
