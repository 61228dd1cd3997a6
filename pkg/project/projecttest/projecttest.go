// Package projecttest builds small in-memory projects for tests.
package projecttest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

func mm(v float64) types.PositiveLength { return types.MustPositiveLength(types.LengthFromMM(v)) }

// Library returns a library with one two-pad resistor device. The resistor
// signals are named "1" and "2", as are the package pads.
func Library(t testing.TB) *library.Library {
	t.Helper()
	sig1 := library.ComponentSignal{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("1")}
	sig2 := library.ComponentSignal{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("2")}
	cmp := &library.Component{UUID: types.NewIdentifier(), Name: types.MustElementName("Resistor"),
		Signals: []library.ComponentSignal{sig1, sig2}}

	pad1 := library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("1")}
	pad2 := library.PackagePad{UUID: types.NewIdentifier(), Name: types.MustCircuitIdentifier("2")}
	fpt := library.NewFootprint(types.NewIdentifier(), types.MustElementName("default"))
	for i, pp := range []library.PackagePad{pad1, pad2} {
		x := 1.0 - 2*float64(i)
		require.NoError(t, fpt.Append(library.NewFootprintPad(types.NewIdentifier(), pp.UUID,
			types.PointFromMM(x, 0), types.Deg0, library.PadShapeRect, mm(1), mm(1.3),
			types.MustUnsignedLength(0), library.BoardSideTop)))
	}
	fpt.AddStrokeText(library.NewStrokeText(types.NewIdentifier(), types.LayerTopNames, "{{NAME}}",
		types.PointFromMM(0, 1.5), types.Deg0, mm(1), types.MustUnsignedLength(200*types.Micrometre),
		library.AlignHCenter, library.AlignBottom, false, true))

	pkg := &library.Package{UUID: types.NewIdentifier(), Name: types.MustElementName("R0805"),
		Pads: []library.PackagePad{pad1, pad2}, Footprints: []*library.Footprint{fpt}}
	dev := &library.Device{UUID: types.NewIdentifier(), Name: types.MustElementName("R-0805"),
		Component: cmp.UUID, Package: pkg.UUID,
		PadSignalMap: []library.PadSignalMapItem{{Pad: pad1.UUID, Signal: sig1.UUID}, {Pad: pad2.UUID, Signal: sig2.UUID}}}

	lib := library.New()
	require.NoError(t, lib.AddComponent(cmp))
	require.NoError(t, lib.AddPackage(pkg))
	require.NoError(t, lib.AddDevice(dev))
	return lib
}

// Demo returns a project with nets VCC and GND and two placed resistors:
// R1 at the origin between VCC and GND, R2 at (5mm, 0) with only signal 1 on
// VCC. Nothing is routed and the undo stack is clean.
func Demo(t testing.TB, opts ...project.Option) *project.Project {
	t.Helper()
	lib := Library(t)
	p := project.New(types.MustElementName("demo"), lib, opts...)
	vcc := board.NewNetSignal(types.NewIdentifier(), types.MustCircuitIdentifier("VCC"))
	gnd := board.NewNetSignal(types.NewIdentifier(), types.MustCircuitIdentifier("GND"))
	require.NoError(t, p.Circuit.AddNetSignal(vcc))
	require.NoError(t, p.Circuit.AddNetSignal(gnd))

	cmp := lib.Components()[0]
	dev := lib.Devices()[0]
	place := func(name string, x float64, nets ...*board.NetSignal) {
		ci := board.NewComponentInstance(types.NewIdentifier(), types.MustCircuitIdentifier(name), cmp)
		require.NoError(t, p.Circuit.AddComponentInstance(ci))
		for i, net := range nets {
			require.NoError(t, ci.Signals()[i].SetNetSignal(net))
		}
		d, err := board.NewDevice(p.Board, ci, dev.UUID, types.NilIdentifier, types.PointFromMM(x, 0), types.Deg0, false)
		require.NoError(t, err)
		require.NoError(t, p.Board.AddDevice(d))
	}
	place("R1", 0, vcc, gnd)
	place("R2", 5, vcc)
	return p
}
