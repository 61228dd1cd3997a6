package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

var (
	format    = types.MustParseVersion("0.2")
	errAttach = errors.New("attach refused")
	errDetach = errors.New("detach refused")
)

// recordingScene tracks attached items and can refuse individual calls.
type recordingScene struct {
	attached   map[Item]bool
	updates    map[Item]int
	failAttach func(Item) error
	failDetach func(Item) error
}

func newRecordingScene() *recordingScene {
	return &recordingScene{attached: make(map[Item]bool), updates: make(map[Item]int)}
}

func (s *recordingScene) Attach(it Item) error {
	if s.failAttach != nil {
		if err := s.failAttach(it); err != nil {
			return err
		}
	}
	s.attached[it] = true
	return nil
}

func (s *recordingScene) Detach(it Item) error {
	if s.failDetach != nil {
		if err := s.failDetach(it); err != nil {
			return err
		}
	}
	delete(s.attached, it)
	return nil
}

func (s *recordingScene) UpdateTransform(it Item) { s.updates[it]++ }

func failOn(target Item, err error) func(Item) error {
	return func(it Item) error {
		if it == target {
			return err
		}
		return nil
	}
}

type fixture struct {
	lib     *library.Library
	circuit *Circuit
	board   *Board
	scene   *recordingScene

	cmp    *library.Component
	pkg    *library.Package
	libDev *library.Device
	fpt    *library.Footprint
	sigA   library.ComponentSignal
	pad1   library.PackagePad
	pad2   library.PackagePad
	pad3   library.PackagePad // in the package but not in the pad-signal map
	gnd    *NetSignal
}

func mm(v float64) types.PositiveLength { return types.MustPositiveLength(types.LengthFromMM(v)) }

func libPad(pkgPad types.Identifier, x float64) *library.FootprintPad {
	return library.NewFootprintPad(types.NewIdentifier(), pkgPad, types.PointFromMM(x, 0), types.Deg0,
		library.PadShapeRect, mm(1), mm(1.5), types.MustUnsignedLength(0), library.BoardSideTop)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{scene: newRecordingScene()}
	f.sigA = library.ComponentSignal{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("A")}
	sigB := library.ComponentSignal{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("B")}
	f.cmp = &library.Component{UUID: types.NewIdentifier(), Name: types.MustElementName("Resistor"),
		Signals: []library.ComponentSignal{f.sigA, sigB}}

	f.pad1 = library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("1")}
	f.pad2 = library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("2")}
	f.pad3 = library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("3")}

	f.fpt = library.NewFootprint(types.NewIdentifier(), types.MustElementName("default"))
	require.NoError(t, f.fpt.Append(libPad(f.pad1.UUID, 1)))
	require.NoError(t, f.fpt.Append(libPad(f.pad2.UUID, -1)))
	f.fpt.AddStrokeText(library.NewStrokeText(types.NewIdentifier(), types.LayerTopNames, "{{NAME}}",
		types.PointFromMM(0, 1), types.Deg0, mm(1), types.MustUnsignedLength(200*types.Micrometre),
		library.AlignHCenter, library.AlignBottom, false, true))

	f.pkg = &library.Package{UUID: types.NewIdentifier(), Name: types.MustElementName("0805"),
		Pads: []library.PackagePad{f.pad1, f.pad2, f.pad3}, Footprints: []*library.Footprint{f.fpt}}
	f.libDev = &library.Device{UUID: types.NewIdentifier(), Name: types.MustElementName("R-0805"),
		Component: f.cmp.UUID, Package: f.pkg.UUID,
		PadSignalMap: []library.PadSignalMapItem{{Pad: f.pad1.UUID, Signal: f.sigA.UUID}, {Pad: f.pad2.UUID}}}

	f.lib = library.New()
	require.NoError(t, f.lib.AddComponent(f.cmp))
	require.NoError(t, f.lib.AddPackage(f.pkg))
	require.NoError(t, f.lib.AddDevice(f.libDev))

	f.circuit = NewCircuit()
	f.gnd = NewNetSignal(types.NewIdentifier(), types.MustCircuitIdentifier("GND"))
	require.NoError(t, f.circuit.AddNetSignal(f.gnd))

	f.board = New(types.NewIdentifier(), types.MustElementName("main"), f.lib, f.circuit, WithScene(f.scene))
	return f
}

// component registers a new component instance with signal A on GND.
func (f *fixture) component(t *testing.T, name string) *ComponentInstance {
	t.Helper()
	ci := NewComponentInstance(types.NewIdentifier(), types.MustCircuitIdentifier(name), f.cmp)
	require.NoError(t, f.circuit.AddComponentInstance(ci))
	sig, ok := ci.Signal(f.sigA.UUID)
	require.True(t, ok)
	require.NoError(t, sig.SetNetSignal(f.gnd))
	return ci
}

func (f *fixture) device(t *testing.T, name string, pos types.Point) *Device {
	t.Helper()
	d, err := NewDevice(f.board, f.component(t, name), f.libDev.UUID, types.NilIdentifier, pos, types.Deg0, false)
	require.NoError(t, err)
	return d
}

func (f *fixture) placed(t *testing.T, name string, pos types.Point) *Device {
	t.Helper()
	d := f.device(t, name, pos)
	require.NoError(t, f.board.AddDevice(d))
	return d
}

// footprintWith adds a library footprint with the given pads to the package.
// Pads are copied verbatim so duplicates survive.
func (f *fixture) footprintWith(t *testing.T, pads ...*library.FootprintPad) types.Identifier {
	t.Helper()
	node := sexp.NewList("footprint", sexp.Stringer(types.NewIdentifier()))
	node.AppendList("name", sexp.String("variant"))
	for _, p := range pads {
		node.Append(p.Serialize())
	}
	fpt, err := library.DeserializeFootprint(node, format)
	require.NoError(t, err)
	f.pkg.Footprints = append(f.pkg.Footprints, fpt)
	return fpt.UUID()
}

func TestFootprintPadsMatchLibrary(t *testing.T) {
	f := newFixture(t)
	d := f.device(t, "R1", types.Point{})

	var want, got []types.Identifier
	for _, lp := range f.fpt.Pads() {
		want = append(want, lp.UUID())
		p, ok := d.Footprint().Pad(lp.UUID())
		require.True(t, ok)
		assert.Same(t, lp, p.LibPad())
	}
	for _, p := range d.Footprint().Pads() {
		got = append(got, p.UUID())
	}
	assert.Equal(t, want, got)

	p1, _ := d.Footprint().Pad(f.fpt.Pads()[0].UUID())
	p2, _ := d.Footprint().Pad(f.fpt.Pads()[1].UUID())
	assert.Equal(t, f.gnd, p1.NetSignal())
	assert.Equal(t, f.pad1.UUID, p1.PackagePad().UUID)
	assert.Nil(t, p2.ComponentSignalInstance())
	assert.Nil(t, p2.NetSignal())
}

func TestFootprintConstructionFailures(t *testing.T) {
	tests := []struct {
		name string
		pads func(f *fixture) []*library.FootprintPad
		want error
	}{
		{
			name: "duplicate pad identifier",
			pads: func(f *fixture) []*library.FootprintPad {
				p := libPad(f.pad1.UUID, 0)
				return []*library.FootprintPad{p, p.Clone()}
			},
			want: docerr.ErrDuplicatePadIdentifier,
		},
		{
			name: "dangling package pad",
			pads: func(f *fixture) []*library.FootprintPad {
				return []*library.FootprintPad{libPad(f.pad1.UUID, 0), libPad(types.NewIdentifier(), 1)}
			},
			want: docerr.ErrDanglingPackagePad,
		},
		{
			name: "unmapped package pad",
			pads: func(f *fixture) []*library.FootprintPad {
				return []*library.FootprintPad{libPad(f.pad1.UUID, 0), libPad(f.pad3.UUID, 1)}
			},
			want: docerr.ErrUnmappedSignal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ci := f.component(t, "R1")
			broken := f.footprintWith(t, tt.pads(f)...)

			d, err := NewDevice(f.board, ci, f.libDev.UUID, broken, types.Point{}, types.Deg0, false)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, docerr.ErrStructuralValidation)
			assert.Equal(t, docerr.KindStructuralValidation, docerr.KindOf(err))

			assert.Empty(t, f.scene.attached)
			assert.Nil(t, ci.Device())
			sig, _ := ci.Signal(f.sigA.UUID)
			assert.Empty(t, sig.RegisteredPads())
			assert.Zero(t, f.board.Connectivity().PadCount(f.gnd))

			// Rebuilding the footprint of a valid device must not leave
			// subscriptions behind either.
			valid := f.device(t, "R2", types.Point{})
			slots := valid.OnMoved.Len()
			valid.libFootprint, _ = f.pkg.Footprint(broken)
			_, err = newFootprint(valid, nil, true)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, slots, valid.OnMoved.Len())
			assert.Equal(t, 1, valid.OnRotated.Len())
			assert.Equal(t, 1, valid.OnMirrored.Len())
		})
	}
}

func TestItemLifecycle(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})

	err := d.AddToBoard()
	assert.ErrorIs(t, err, docerr.ErrAlreadyAttached)
	assert.ErrorIs(t, err, docerr.ErrLifecycleViolation)

	_, err = f.board.RemoveDevice(d)
	require.NoError(t, err)
	assert.False(t, d.IsAddedToBoard())
	assert.Empty(t, f.scene.attached)

	err = d.RemoveFromBoard()
	assert.ErrorIs(t, err, docerr.ErrNotAttached)

	_, err = f.board.RemoveDevice(d)
	assert.ErrorIs(t, err, docerr.ErrNotRegistered)
}

func TestAddDeviceRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		target func(d *Device) Item
	}{
		{name: "second pad", target: func(d *Device) Item { return d.Footprint().Pads()[1] }},
		{name: "stroke text", target: func(d *Device) Item { return d.Footprint().StrokeTexts()[0] }},
		{name: "footprint graphics", target: func(d *Device) Item { return d.Footprint() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			d := f.device(t, "R1", types.Point{})
			f.scene.failAttach = failOn(tt.target(d), errAttach)

			err := f.board.AddDevice(d)
			require.ErrorIs(t, err, errAttach)

			assert.False(t, d.IsAddedToBoard())
			assert.False(t, d.Footprint().IsAddedToBoard())
			for _, p := range d.Footprint().Pads() {
				assert.False(t, p.IsAddedToBoard())
			}
			for _, txt := range d.Footprint().StrokeTexts() {
				assert.False(t, txt.IsAddedToBoard())
			}
			assert.Empty(t, f.scene.attached)
			assert.Empty(t, f.board.Devices())
			assert.Nil(t, d.ComponentInstance().Device())
			sig, _ := d.ComponentInstance().Signal(f.sigA.UUID)
			assert.Empty(t, sig.RegisteredPads())
			assert.Equal(t, 0, sig.OnNetSignalChanged.Len())
			assert.Zero(t, f.board.Connectivity().PadCount(f.gnd))

			f.scene.failAttach = nil
			require.NoError(t, f.board.AddDevice(d))
			assert.Len(t, f.scene.attached, 4)
		})
	}
}

func TestRollbackFailureIsJoined(t *testing.T) {
	f := newFixture(t)
	d := f.device(t, "R1", types.Point{})
	f.scene.failAttach = failOn(d.Footprint(), errAttach)
	f.scene.failDetach = failOn(d.Footprint().Pads()[0], errDetach)

	err := f.board.AddDevice(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, errAttach)
	assert.ErrorIs(t, err, errDetach)
	assert.Contains(t, err.Error(), "rollback")
}

func TestRemoveDeviceRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})
	txt := d.Footprint().StrokeTexts()[0]
	f.scene.failDetach = failOn(txt, errDetach)

	_, err := f.board.RemoveDevice(d)
	require.ErrorIs(t, err, errDetach)

	assert.True(t, d.IsAddedToBoard())
	for _, p := range d.Footprint().Pads() {
		assert.True(t, p.IsAddedToBoard())
	}
	assert.Len(t, f.scene.attached, 4)
	assert.Equal(t, 1, f.board.Connectivity().PadCount(f.gnd))
	assert.Equal(t, []*Device{d}, f.board.Devices())
}

func TestMoveDeviceSchedulesOneRebuildPerBoundNet(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})
	conn := f.board.Connectivity()

	var scheduled []*NetSignal
	conn.OnAirWiresRebuildScheduled.Attach(func(n *NetSignal) { scheduled = append(scheduled, n) })

	p1 := d.Footprint().Pads()[0]
	p2 := d.Footprint().Pads()[1]
	require.Equal(t, types.PointFromMM(-1, 0), p2.Position())

	require.True(t, d.SetPosition(types.PointFromMM(1, 0)))

	assert.Equal(t, []*NetSignal{f.gnd}, scheduled)
	assert.Equal(t, []*NetSignal{f.gnd}, conn.TakePendingRebuilds())
	assert.Equal(t, types.PointFromMM(2, 0), p1.Position())
	assert.Equal(t, types.PointFromMM(0, 0), p2.Position())
	assert.Equal(t, 1, f.scene.updates[p2])

	require.True(t, d.SetRotation(types.Deg90))
	assert.Equal(t, types.PointFromMM(1, 1), p1.Position())
	assert.Equal(t, types.Deg90, p1.Rotation())

	require.True(t, d.SetMirrored(true))
	assert.Equal(t, types.LayerBottomCopper, p1.Layer())
	assert.Equal(t, types.PointFromMM(1, -1), p1.Position())
	assert.Len(t, scheduled, 3)
}

func TestEveryMoveSchedulesRebuild(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})

	var scheduled []*NetSignal
	f.board.Connectivity().OnAirWiresRebuildScheduled.Attach(func(n *NetSignal) { scheduled = append(scheduled, n) })

	require.True(t, d.SetPosition(types.PointFromMM(1, 0)))
	assert.Equal(t, []*NetSignal{f.gnd}, scheduled)
	require.True(t, d.SetPosition(types.PointFromMM(2, 0)))
	require.True(t, d.SetRotation(types.Deg90))
	assert.Equal(t, []*NetSignal{f.gnd, f.gnd, f.gnd}, scheduled)

	// pending holds the net once
	assert.Equal(t, []*NetSignal{f.gnd}, f.board.RebuildAirWires())
	assert.Empty(t, f.board.RebuildAirWires())
}

func TestDefaultStrokeTextsInBoardCoordinates(t *testing.T) {
	f := newFixture(t)
	ci := f.component(t, "R1")
	d, err := NewDevice(f.board, ci, f.libDev.UUID, f.fpt.UUID(), types.PointFromMM(10, 0), types.Deg90, true)
	require.NoError(t, err)

	require.Len(t, d.Footprint().StrokeTexts(), 1)
	txt := d.Footprint().StrokeTexts()[0]
	lib := f.fpt.StrokeTexts()[0]
	assert.Equal(t, lib.UUID(), txt.UUID())
	assert.NotSame(t, lib, txt.Text())
	assert.Same(t, d.Footprint(), txt.Footprint())

	assert.Equal(t, types.PointFromMM(9, 0), txt.Text().Position())
	assert.Equal(t, types.Deg90, txt.Text().Rotation())
	assert.True(t, txt.Text().Mirrored())
	assert.Equal(t, "bot_names", txt.Text().Layer())

	// library text untouched
	assert.Equal(t, types.PointFromMM(0, 1), lib.Position())
	assert.Equal(t, types.LayerTopNames, lib.Layer())
}

func TestStrokeTextRegeneratesPathsOnEdit(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})
	txt := d.Footprint().StrokeTexts()[0]
	before := len(txt.Paths())

	txt.Text().SetText("R1 long")
	assert.NotEqual(t, before, len(txt.Paths()))
	assert.Equal(t, 1, f.scene.updates[txt])

	_, err := d.Footprint().RemoveStrokeText(txt)
	require.NoError(t, err)
	assert.False(t, txt.IsAddedToBoard())
	assert.Nil(t, txt.Footprint())
	require.NoError(t, d.Footprint().AddStrokeText(txt))
	assert.True(t, txt.IsAddedToBoard())
}

func TestNetLineRegistersAtBothAnchors(t *testing.T) {
	f := newFixture(t)
	r1 := f.placed(t, "R1", types.Point{})
	r2 := f.placed(t, "R2", types.PointFromMM(5, 0))
	a, b := r1.Footprint().Pads()[0], r2.Footprint().Pads()[0]
	assert.Equal(t, 2, f.board.Connectivity().PadCount(f.gnd))

	nl, err := NewNetLine(f.board, types.NewIdentifier(), a, b, mm(0.25), types.LayerTopCopper)
	require.NoError(t, err)
	require.NoError(t, f.board.AddNetLine(nl))

	assert.True(t, a.IsUsed())
	assert.True(t, b.IsUsed())
	assert.Equal(t, []*NetLine{nl}, a.NetLines())
	assert.True(t, r1.IsUsed())
	assert.Equal(t, types.LengthFromMM(5), nl.Length())

	_, err = f.board.RemoveDevice(r1)
	assert.ErrorIs(t, err, docerr.ErrInUse)
	assert.True(t, r1.IsAddedToBoard())
	assert.True(t, a.IsAddedToBoard())

	_, err = f.board.RemoveNetLine(nl)
	require.NoError(t, err)
	assert.False(t, a.IsUsed())
	_, err = f.board.RemoveDevice(r1)
	require.NoError(t, err)
}

func TestNetLineRollsBackFirstAnchor(t *testing.T) {
	f := newFixture(t)
	r1 := f.placed(t, "R1", types.Point{})
	r2 := f.device(t, "R2", types.PointFromMM(5, 0))
	a, b := r1.Footprint().Pads()[0], r2.Footprint().Pads()[0]

	nl, err := NewNetLine(f.board, types.NewIdentifier(), a, b, mm(0.25), types.LayerTopCopper)
	require.NoError(t, err)
	err = f.board.AddNetLine(nl)
	require.ErrorIs(t, err, docerr.ErrNotAttached)
	assert.False(t, a.IsUsed())
	assert.Empty(t, f.board.NetLines())
}

func TestNewNetLineValidation(t *testing.T) {
	f := newFixture(t)
	r1 := f.placed(t, "R1", types.Point{})
	p1, p2 := r1.Footprint().Pads()[0], r1.Footprint().Pads()[1]

	_, err := NewNetLine(f.board, types.NewIdentifier(), p1, p2, mm(0.25), types.LayerTopCopper)
	assert.ErrorIs(t, err, docerr.ErrInvalidValue)

	_, err = NewNetLine(f.board, types.NewIdentifier(), p1, p1, mm(0.25), types.LayerTopCopper)
	assert.ErrorIs(t, err, docerr.ErrInvalidValue)

	r2 := f.placed(t, "R2", types.PointFromMM(5, 0))
	_, err = NewNetLine(f.board, types.NewIdentifier(), p1, r2.Footprint().Pads()[0], mm(0.25), types.LayerTopNames)
	assert.ErrorIs(t, err, docerr.ErrInvalidValue)
}

func TestSetNetSignalNotifiesOnceAndRefusesWhileUsed(t *testing.T) {
	f := newFixture(t)
	r1 := f.placed(t, "R1", types.Point{})
	r2 := f.placed(t, "R2", types.PointFromMM(5, 0))
	sig, _ := r1.ComponentInstance().Signal(f.sigA.UUID)

	var changes []NetSignalChange
	sig.OnNetSignalChanged.Attach(func(c NetSignalChange) { changes = append(changes, c) })

	nl, err := NewNetLine(f.board, types.NewIdentifier(), r1.Footprint().Pads()[0], r2.Footprint().Pads()[0],
		mm(0.25), types.LayerTopCopper)
	require.NoError(t, err)
	require.NoError(t, f.board.AddNetLine(nl))

	vcc := NewNetSignal(types.NewIdentifier(), types.MustCircuitIdentifier("VCC"))
	require.NoError(t, f.circuit.AddNetSignal(vcc))

	err = sig.SetNetSignal(vcc)
	assert.ErrorIs(t, err, docerr.ErrInUse)
	assert.Empty(t, changes)
	assert.Equal(t, f.gnd, sig.NetSignal())

	_, err = f.board.RemoveNetLine(nl)
	require.NoError(t, err)
	require.NoError(t, sig.SetNetSignal(vcc))
	require.NoError(t, sig.SetNetSignal(vcc))

	assert.Equal(t, []NetSignalChange{{From: f.gnd, To: vcc}}, changes)
	assert.Equal(t, 1, f.board.Connectivity().PadCount(f.gnd))
	assert.Equal(t, 1, f.board.Connectivity().PadCount(vcc))
	assert.Equal(t, vcc, r1.Footprint().Pads()[0].NetSignal())

	_, err = f.circuit.RemoveNetSignal(vcc)
	assert.ErrorIs(t, err, docerr.ErrInUse)
}

func TestNetSignalRename(t *testing.T) {
	f := newFixture(t)
	vcc := NewNetSignal(types.NewIdentifier(), types.MustCircuitIdentifier("VCC"))
	require.NoError(t, f.circuit.AddNetSignal(vcc))

	var names []string
	vcc.OnNameChanged.Attach(func(n types.CircuitIdentifier) { names = append(names, n.String()) })

	_, err := vcc.SetName(types.MustCircuitIdentifier("GND"))
	assert.ErrorIs(t, err, docerr.ErrAlreadyRegistered)

	changed, err := vcc.SetName(types.MustCircuitIdentifier("3V3"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"3V3"}, names)
	assert.Same(t, vcc, f.circuit.NetSignalByName("3V3"))
}

func TestSelectionCascades(t *testing.T) {
	f := newFixture(t)
	d := f.placed(t, "R1", types.Point{})
	detached := f.device(t, "R2", types.Point{})

	d.SetSelected(true)
	detached.SetSelected(true)
	assert.Len(t, f.board.SelectedItems(), 4)
	assert.True(t, d.Footprint().Pads()[1].IsSelected())
	assert.False(t, detached.IsSelected())

	f.board.ClearSelection()
	assert.Empty(t, f.board.SelectedItems())
}

func TestBoardSerializeRoundTrip(t *testing.T) {
	f := newFixture(t)
	r1 := f.placed(t, "R1", types.Point{})
	r2 := f.placed(t, "R2", types.PointFromMM(5, 2.5))
	require.True(t, r2.SetRotation(types.Deg180))
	nl, err := NewNetLine(f.board, types.NewIdentifier(), r1.Footprint().Pads()[0], r2.Footprint().Pads()[0],
		mm(0.3), types.LayerTopCopper)
	require.NoError(t, err)
	require.NoError(t, f.board.AddNetLine(nl))
	free := NewStrokeText(f.board, library.NewStrokeText(types.NewIdentifier(), types.LayerTopPlacement, "rev A",
		types.PointFromMM(-3, -3), types.Deg0, mm(1.5), types.MustUnsignedLength(types.LengthFromMM(0.15)),
		library.AlignLeft, library.AlignBottom, false, false))
	require.NoError(t, f.board.AddStrokeText(free))

	want := f.board.Serialize().Format()

	circuitNode, err := sexp.ParseString(f.circuit.Serialize().Format())
	require.NoError(t, err)
	circuit, err := DeserializeCircuit(circuitNode, format, f.lib)
	require.NoError(t, err)

	boardNode, err := sexp.ParseString(want)
	require.NoError(t, err)
	b, err := Deserialize(boardNode, format, f.lib, circuit)
	require.NoError(t, err)

	assert.Equal(t, want, b.Serialize().Format())
	require.Len(t, b.NetLines(), 1)
	assert.True(t, b.NetLines()[0].Start().IsUsed())
	assert.Equal(t, 2, b.Connectivity().PadCount(circuit.NetSignalByName("GND")))
}

func TestDeserializeDeviceRejectsDanglingPackagePad(t *testing.T) {
	f := newFixture(t)
	f.placed(t, "R1", types.Point{})
	f.placed(t, "R2", types.PointFromMM(5, 0))
	broken := f.footprintWith(t, libPad(types.NewIdentifier(), 0))

	node := f.board.Serialize()
	dev := node.ChildrenNamed("device")[1]
	fptNode, err := dev.Child("lib_footprint")
	require.NoError(t, err)
	fptNode.Children()[0] = sexp.Stringer(broken)

	circuitNode := f.circuit.Serialize()
	circuit, err := DeserializeCircuit(circuitNode, format, f.lib)
	require.NoError(t, err)

	_, err = Deserialize(node, format, f.lib, circuit)
	assert.ErrorIs(t, err, docerr.ErrDanglingPackagePad)
	assert.Equal(t, docerr.KindStructuralValidation, docerr.KindOf(err))

	// R1 was attached before R2 failed and must be gone again
	r1 := circuit.ComponentInstanceByName("R1")
	require.NotNil(t, r1)
	assert.Nil(t, r1.Device())
	sig, ok := r1.Signal(f.sigA.UUID)
	require.True(t, ok)
	assert.Empty(t, sig.RegisteredPads())
	require.NoError(t, sig.SetNetSignal(nil))
	assert.NoError(t, circuit.RemoveComponentInstance(r1))
}
