package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

func newContext(t *testing.T) Context {
	t.Helper()
	pkg := &library.Package{UUID: types.NewIdentifier(), Name: types.MustElementName("SOT-23")}
	for _, name := range []string{"1", "2", "3"} {
		pkg.Pads = append(pkg.Pads, library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier(name)})
	}
	fpt := library.NewFootprint(types.NewIdentifier(), types.MustElementName("default"))
	pkg.Footprints = []*library.Footprint{fpt}
	return Context{
		Package:   pkg,
		Footprint: fpt,
		Stack:     undo.NewStack(),
		Grid:      types.MustPositiveLength(types.Millimetre),
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Placing", PhasePlacing.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

func TestAddPadsPlacesAndPicksNextPackagePad(t *testing.T) {
	ctx := newContext(t)
	s := NewAddPads(ctx, PadSMT)

	require.NoError(t, s.Entry(types.PointFromMM(0.2, 0.1)))
	assert.Equal(t, PhasePlacing, s.Phase())
	require.Equal(t, 1, ctx.Footprint.Len())
	assert.True(t, ctx.Stack.IsGroupOpen())
	assert.Equal(t, types.Point{}, s.Current().Position())
	assert.Equal(t, ctx.Package.Pads[0].UUID, s.Current().PackagePad())

	assert.True(t, s.PointerMove(types.PointFromMM(2.4, 0)))
	assert.Equal(t, types.PointFromMM(2, 0), s.Current().Position())
	assert.True(t, s.RotateCCW())
	assert.Equal(t, types.Deg90, s.Current().Rotation())

	first := s.Current()
	require.NoError(t, s.PointerPress(types.PointFromMM(3, 0)))
	assert.Equal(t, types.PointFromMM(3, 0), first.Position())
	assert.Equal(t, 1, ctx.Stack.Len())
	assert.Equal(t, "Add footprint pad", ctx.Stack.UndoText())

	// The next pad starts from the last one and takes the next free package pad.
	second := s.Current()
	require.NotNil(t, second)
	assert.NotEqual(t, first.UUID(), second.UUID())
	assert.Equal(t, types.Deg90, second.Rotation())
	assert.Equal(t, ctx.Package.Pads[1].UUID, second.PackagePad())
	assert.Equal(t, 2, ctx.Footprint.Len())

	require.NoError(t, s.Exit())
	assert.Equal(t, PhaseInactive, s.Phase())
	assert.Equal(t, 1, ctx.Footprint.Len())
	assert.False(t, ctx.Stack.IsGroupOpen())
	assert.Equal(t, 1, ctx.Stack.Len())
}

func TestAddPadsAbortLeavesFootprintUnchanged(t *testing.T) {
	ctx := newContext(t)
	before := ctx.Footprint.Serialize().Format()
	s := NewAddPads(ctx, PadTHT)

	require.NoError(t, s.Entry(types.Point{}))
	s.SetShape(library.PadShapeOctagon)
	s.SetSize(types.MustPositiveLength(3*types.Millimetre), types.MustPositiveLength(2*types.Millimetre))
	s.PointerMove(types.PointFromMM(5, 5))
	assert.Equal(t, library.PadShapeOctagon, s.Current().Shape())

	require.NoError(t, s.Abort())
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, before, ctx.Footprint.Serialize().Format())
	assert.Equal(t, 0, ctx.Stack.Len())
	assert.False(t, ctx.Stack.CanUndo())

	// Settings survive the abort.
	assert.Equal(t, library.PadShapeOctagon, s.Template().Shape())
	assert.False(t, s.RotateCW())
}

func TestAddPadsUndoOnePlacement(t *testing.T) {
	ctx := newContext(t)
	s := NewAddPads(ctx, PadSMT)

	require.NoError(t, s.Entry(types.Point{}))
	require.NoError(t, s.PointerPress(types.PointFromMM(1, 0)))
	require.NoError(t, s.PointerPress(types.PointFromMM(2, 0)))
	require.NoError(t, s.Exit())
	require.Equal(t, 2, ctx.Footprint.Len())
	second := ctx.Footprint.Pads()[1]

	require.NoError(t, ctx.Stack.Undo())
	assert.Equal(t, 1, ctx.Footprint.Len())
	require.NoError(t, ctx.Stack.Redo())
	assert.Equal(t, 1, ctx.Footprint.IndexOf(second.UUID()))
	assert.Equal(t, types.PointFromMM(2, 0), second.Position())
}

func TestAddPadsRunsOutOfPackagePads(t *testing.T) {
	ctx := newContext(t)
	s := NewAddPads(ctx, PadTHT)

	require.NoError(t, s.Entry(types.Point{}))
	for x := 1; x <= 3; x++ {
		require.NoError(t, s.PointerPress(types.PointFromMM(float64(x), 0)))
	}
	assert.True(t, s.PackagePad().IsNil())
	assert.True(t, s.Current().PackagePad().IsNil())

	s.SetPackagePad(ctx.Package.Pads[2].UUID)
	assert.Equal(t, ctx.Package.Pads[2].UUID, s.Current().PackagePad())
	require.NoError(t, s.Exit())
}

func TestAddPadsRefusesOpenGroup(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, ctx.Stack.BeginGroup("other"))
	s := NewAddPads(ctx, PadSMT)

	assert.Error(t, s.Entry(types.Point{}))
	assert.Equal(t, 0, ctx.Footprint.Len())
	assert.Error(t, s.Entry(types.Point{}))
}
