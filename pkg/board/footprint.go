package board

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/scopeguard"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Footprint is the board instance of the library footprint chosen by a
// device. It owns one FootprintPad per library pad and the device's stroke
// texts.
type Footprint struct {
	itemBase

	device *Device
	lib    *library.Footprint
	pads   []*FootprintPad
	byUUID map[types.Identifier]*FootprintPad
	texts  []*StrokeText
}

// padBinding is the validated connection of one library pad.
type padBinding struct {
	lib    *library.FootprintPad
	pkgPad *library.PackagePad
	signal *ComponentSignalInstance
}

// bindPads checks every library pad before anything is built: identifiers
// must be unique, and each referenced package pad must exist in the package
// and in the device's pad-signal map.
func bindPads(d *Device) ([]padBinding, error) {
	const op = "board.Footprint"
	seen := make(map[types.Identifier]bool, d.libFootprint.Len())
	bindings := make([]padBinding, 0, d.libFootprint.Len())
	for _, lp := range d.libFootprint.Pads() {
		if seen[lp.UUID()] {
			return nil, docerr.Structural(op, lp.UUID(), docerr.ErrDuplicatePadIdentifier,
				"footprint pad identifier is defined multiple times in footprint %s", d.libFootprint.UUID())
		}
		seen[lp.UUID()] = true
		b := padBinding{lib: lp}
		if ppUUID := lp.PackagePad(); !ppUUID.IsNil() {
			pp, ok := d.libPackage.Pad(ppUUID)
			if !ok {
				return nil, docerr.Structural(op, lp.UUID(), docerr.ErrDanglingPackagePad,
					"pad %s not found in package %s", ppUUID, d.libPackage.UUID)
			}
			b.pkgPad = &pp
			sigUUID, ok := d.libDevice.SignalOfPad(ppUUID)
			if !ok {
				return nil, docerr.Structural(op, lp.UUID(), docerr.ErrUnmappedSignal,
					"package pad %s not found in pad-signal-map of device %s", ppUUID, d.libDevice.UUID)
			}
			if !sigUUID.IsNil() {
				sig, ok := d.component.Signal(sigUUID)
				if !ok {
					return nil, docerr.Structural(op, lp.UUID(), docerr.ErrUnmappedSignal,
						"component signal %s not found in component instance %s", sigUUID, d.component.UUID())
				}
				b.signal = sig
			}
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// newFootprint builds the footprint of d. With defaults set the texts of the
// library footprint are used instead of texts. On error nothing is retained:
// no pads, no texts, no device subscriptions.
func newFootprint(d *Device, texts []*StrokeText, defaults bool) (*Footprint, error) {
	bindings, err := bindPads(d)
	if err != nil {
		return nil, err
	}
	f := &Footprint{
		itemBase: itemBase{board: d.board},
		device:   d,
		lib:      d.libFootprint,
		byUUID:   make(map[types.Identifier]*FootprintPad, len(bindings)),
	}
	if defaults {
		for _, lt := range f.defaultStrokeTexts() {
			texts = append(texts, NewStrokeText(d.board, lt))
		}
	}
	for i, t := range texts {
		if t.board != f.board || t.footprint != nil || slices.Contains(texts[:i], t) {
			return nil, docerr.Lifecycle("board.Footprint", t.UUID(), docerr.ErrForeignBoard,
				"stroke text must be a free text of the same board")
		}
	}
	for _, t := range texts {
		t.footprint = f
		f.texts = append(f.texts, t)
	}
	for _, b := range bindings {
		p := newFootprintPad(f, b.lib, b.pkgPad, b.signal)
		f.pads = append(f.pads, p)
		f.byUUID[p.UUID()] = p
	}
	d.OnMoved.Attach(func(types.Point) { f.deviceMoved() })
	d.OnRotated.Attach(func(types.Angle) { f.deviceTransformed() })
	d.OnMirrored.Attach(func(bool) { f.deviceTransformed() })
	return f, nil
}

// defaultStrokeTexts copies the library texts into board coordinates. The
// library identifiers are kept.
func (f *Footprint) defaultStrokeTexts() []*library.StrokeText {
	tr := f.device.Transform()
	var out []*library.StrokeText
	for _, lt := range f.lib.StrokeTexts() {
		t := lt.Clone()
		t.SetPosition(tr.Map(t.Position()))
		if t.Mirrored() {
			t.SetRotation(t.Rotation().Sub(tr.Rotation))
		} else {
			t.SetRotation(t.Rotation().Add(tr.Rotation))
		}
		t.SetMirrored(tr.MapMirror(t.Mirrored()))
		t.SetLayer(tr.MapLayer(t.Layer()))
		out = append(out, t)
	}
	return out
}

func (f *Footprint) Kind() Kind { return KindFootprint }

// UUID returns the identifier of the device.
func (f *Footprint) UUID() types.Identifier { return f.device.UUID() }

// Device returns the owning device.
func (f *Footprint) Device() *Device { return f.device }
// LibFootprint returns the library footprint the pads were built from.
func (f *Footprint) LibFootprint() *library.Footprint { return f.lib }
func (f *Footprint) Position() types.Point { return f.device.position }
func (f *Footprint) Rotation() types.Angle { return f.device.rotation }
func (f *Footprint) Mirrored() bool { return f.device.mirrored }

// Pads returns the pads in library order.
func (f *Footprint) Pads() []*FootprintPad { return f.pads }

// Pad returns the pad instantiating the library pad uuid.
func (f *Footprint) Pad(uuid types.Identifier) (*FootprintPad, bool) {
	p, ok := f.byUUID[uuid]
	return p, ok
}

// StrokeTexts returns the texts in insertion order.
func (f *Footprint) StrokeTexts() []*StrokeText { return f.texts }

// IsUsed reports whether any pad carries net lines.
func (f *Footprint) IsUsed() bool {
	return slices.ContainsFunc(f.pads, (*FootprintPad).IsUsed)
}

// AddStrokeText appends t. An attached footprint attaches t as well.
func (f *Footprint) AddStrokeText(t *StrokeText) error {
	return f.InsertStrokeText(-1, t)
}

// InsertStrokeText inserts t at index; a negative or too large index appends.
func (f *Footprint) InsertStrokeText(index int, t *StrokeText) error {
	const op = "board.Footprint.AddStrokeText"
	if t.board != f.board {
		return docerr.Lifecycle(op, t.UUID(), docerr.ErrForeignBoard, "stroke text must belong to the footprint's board")
	}
	if t.footprint != nil || slices.ContainsFunc(f.texts, func(o *StrokeText) bool { return o.UUID() == t.UUID() }) {
		return docerr.Lifecycle(op, t.UUID(), docerr.ErrAlreadyRegistered, "stroke text already belongs to a footprint")
	}
	if f.added {
		if err := t.AddToBoard(); err != nil {
			return err
		}
	}
	if index < 0 || index > len(f.texts) {
		index = len(f.texts)
	}
	t.footprint = f
	f.texts = slices.Insert(f.texts, index, t)
	return nil
}

// RemoveStrokeText removes t and returns its former index.
func (f *Footprint) RemoveStrokeText(t *StrokeText) (int, error) {
	const op = "board.Footprint.RemoveStrokeText"
	i := slices.Index(f.texts, t)
	if i < 0 {
		return -1, docerr.Lifecycle(op, t.UUID(), docerr.ErrNotRegistered, "stroke text does not belong to footprint %s", f.UUID())
	}
	if f.added {
		if err := t.RemoveFromBoard(); err != nil {
			return -1, err
		}
	}
	f.texts = slices.Delete(f.texts, i, i+1)
	t.footprint = nil
	return i, nil
}

// AddToBoard attaches the pads, then the texts, then the footprint
// graphics. A failing step undoes the completed ones.
func (f *Footprint) AddToBoard() error {
	const op = "board.Footprint.AddToBoard"
	if err := f.checkAttachable(op, f.UUID()); err != nil {
		return err
	}
	sgl := scopeguard.New(len(f.pads) + len(f.texts))
	for _, p := range f.pads {
		if err := p.AddToBoard(); err != nil {
			return f.board.rollback(op, err, sgl)
		}
		sgl.Add(p.RemoveFromBoard)
	}
	for _, t := range f.texts {
		if err := t.AddToBoard(); err != nil {
			return f.board.rollback(op, err, sgl)
		}
		sgl.Add(t.RemoveFromBoard)
	}
	if err := f.attachGraphics(op, f); err != nil {
		return f.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	return nil
}

// RemoveFromBoard detaches in the same order as AddToBoard.
func (f *Footprint) RemoveFromBoard() error {
	const op = "board.Footprint.RemoveFromBoard"
	if err := f.checkDetachable(op, f.UUID()); err != nil {
		return err
	}
	sgl := scopeguard.New(len(f.pads) + len(f.texts))
	for _, p := range f.pads {
		if err := p.RemoveFromBoard(); err != nil {
			return f.board.rollback(op, err, sgl)
		}
		sgl.Add(p.AddToBoard)
	}
	for _, t := range f.texts {
		if err := t.RemoveFromBoard(); err != nil {
			return f.board.rollback(op, err, sgl)
		}
		sgl.Add(t.AddToBoard)
	}
	if err := f.detachGraphics(op, f); err != nil {
		return f.board.rollback(op, err, sgl)
	}
	sgl.Dismiss()
	return nil
}

// SetSelected selects the footprint with all its pads and texts.
func (f *Footprint) SetSelected(selected bool) {
	f.itemBase.SetSelected(selected)
	for _, p := range f.pads {
		p.SetSelected(selected)
	}
	for _, t := range f.texts {
		t.SetSelected(selected)
	}
}

func (f *Footprint) deviceMoved() {
	f.updatePads()
	for _, t := range f.texts {
		t.UpdateGraphics()
	}
}

func (f *Footprint) deviceTransformed() {
	f.updatePads()
}

func (f *Footprint) updatePads() {
	if f.added {
		f.board.scene.UpdateTransform(f)
	}
	// one rebuild per net, however many of its pads moved
	var nets []*NetSignal
	for _, p := range f.pads {
		p.UpdatePosition()
		if net := p.NetSignal(); f.added && net != nil && !slices.Contains(nets, net) {
			nets = append(nets, net)
		}
	}
	for _, net := range nets {
		f.board.connectivity.ScheduleAirWiresRebuild(net)
	}
}
