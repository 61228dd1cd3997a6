// Package fsm holds the interactive states of the package editor.
//
// A state receives pointer and keyboard events already mapped to scene
// coordinates. Every placement runs inside its own command group on the
// editor's undo stack: the group is opened when a new item is picked up,
// previews modify the document directly through immediate edit commands, and
// the group is committed on confirmation or aborted on cancel.
package fsm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/editor/cmd"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// Phase is the position of a state in its enter/place/exit cycle.
type Phase uint8

const (
	PhaseInactive Phase = iota
	PhaseIdle
	PhasePlacing
)

var phaseNames = map[Phase]string{
	PhaseInactive: "Inactive",
	PhaseIdle:     "Idle",
	PhasePlacing:  "Placing",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// PadType selects the defaults of newly placed pads.
type PadType uint8

const (
	PadTHT PadType = iota
	PadSMT
)

// Context is the part of the package editor a state works on.
type Context struct {
	Package   *library.Package
	Footprint *library.Footprint
	Stack     *undo.Stack
	// Grid is the snap interval for pointer positions.
	Grid   types.PositiveLength
	Logger *slog.Logger
}

// AddPads places footprint pads one after another. The properties of the
// last placed pad are the template for the next one, and each placement
// picks the first package pad not yet used by the footprint.
type AddPads struct {
	ctx     Context
	logger  *slog.Logger
	phase   Phase
	last    *library.FootprintPad
	current *library.FootprintPad
	edit    *cmd.FootprintPadEdit
}

// NewAddPads creates an inactive state.
func NewAddPads(ctx Context, kind PadType) *AddPads {
	s := &AddPads{ctx: ctx, logger: ctx.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if kind == PadSMT {
		s.last = library.NewFootprintPad(types.NilIdentifier, types.NilIdentifier, types.Point{}, types.Deg0,
			library.PadShapeRect, length(1500000), length(700000), types.MustUnsignedLength(0), library.BoardSideTop)
	} else {
		s.last = library.NewFootprintPad(types.NilIdentifier, types.NilIdentifier, types.Point{}, types.Deg0,
			library.PadShapeRound, length(2500000), length(1300000), types.MustUnsignedLength(800000), library.BoardSideTHT)
	}
	return s
}

func length(nm types.Length) types.PositiveLength { return types.MustPositiveLength(nm) }

func (s *AddPads) Phase() Phase { return s.phase }

// Current returns the pad being placed, or nil.
func (s *AddPads) Current() *library.FootprintPad { return s.current }

// Template returns a copy of the properties the next pad starts with.
func (s *AddPads) Template() *library.FootprintPad { return s.last.Clone() }

// Entry activates the state and picks up the first pad at pos.
func (s *AddPads) Entry(pos types.Point) error {
	if s.phase != PhaseInactive {
		return fmt.Errorf("fsm.AddPads.Entry: state is already %s", s.phase)
	}
	s.phase = PhaseIdle
	s.selectNextFreePad()
	return s.start(s.snap(pos))
}

// Exit cancels the pad in hand and deactivates the state.
func (s *AddPads) Exit() error {
	if err := s.Abort(); err != nil {
		return err
	}
	s.phase = PhaseInactive
	return nil
}

// Abort drops the pad in hand. The document is left as it was before the pad
// was picked up.
func (s *AddPads) Abort() error {
	if s.phase != PhasePlacing {
		return nil
	}
	s.last = s.current.Clone()
	s.current = nil
	s.edit = nil
	s.phase = PhaseIdle
	return s.ctx.Stack.AbortGroup()
}

// PointerMove drags the pad in hand and reports whether the event was used.
func (s *AddPads) PointerMove(pos types.Point) bool {
	if s.phase != PhasePlacing {
		return false
	}
	s.edit.SetPosition(s.snap(pos), true)
	return true
}

// PointerPress drops the pad in hand at pos and picks up the next one.
func (s *AddPads) PointerPress(pos types.Point) error {
	if s.phase == PhaseInactive {
		return nil
	}
	pos = s.snap(pos)
	if s.phase == PhasePlacing {
		if err := s.finish(pos); err != nil {
			return err
		}
	}
	return s.start(pos)
}

func (s *AddPads) RotateCW() bool { return s.rotate(types.Deg90.Inverted()) }
func (s *AddPads) RotateCCW() bool { return s.rotate(types.Deg90) }

func (s *AddPads) rotate(angle types.Angle) bool {
	if s.phase != PhasePlacing {
		return false
	}
	s.edit.Rotate(angle, s.current.Position(), true)
	return true
}

// SetPackagePad connects the pad in hand and the following ones to id.
func (s *AddPads) SetPackagePad(id types.Identifier) {
	s.last.SetPackagePad(id)
	if s.edit != nil {
		s.edit.SetPackagePad(id, true)
	}
}

// PackagePad returns the package pad the next placed pad connects to.
func (s *AddPads) PackagePad() types.Identifier { return s.last.PackagePad() }

func (s *AddPads) SetShape(shape library.PadShape) {
	s.last.SetShape(shape)
	if s.edit != nil {
		s.edit.SetShape(shape, true)
	}
}

func (s *AddPads) SetSide(side library.BoardSide) {
	s.last.SetBoardSide(side)
	if s.edit != nil {
		s.edit.SetBoardSide(side, true)
	}
}

func (s *AddPads) SetSize(width, height types.PositiveLength) {
	s.last.SetWidth(width)
	s.last.SetHeight(height)
	if s.edit != nil {
		s.edit.SetWidth(width, true)
		s.edit.SetHeight(height, true)
	}
}

func (s *AddPads) SetDrill(d types.UnsignedLength) {
	s.last.SetDrillDiameter(d)
	if s.edit != nil {
		s.edit.SetDrillDiameter(d, true)
	}
}

func (s *AddPads) snap(pos types.Point) types.Point {
	if s.ctx.Grid.Length() <= 0 {
		return pos
	}
	return pos.MappedToGrid(s.ctx.Grid)
}

func (s *AddPads) start(pos types.Point) error {
	if err := s.ctx.Stack.BeginGroup("Add footprint pad"); err != nil {
		return err
	}
	s.last.SetPosition(pos)
	pad := s.last.CopyWithUUID(types.NewIdentifier())
	if err := s.ctx.Stack.AppendToGroup(cmd.NewFootprintPadInsert(s.ctx.Footprint, pad)); err != nil {
		if abortErr := s.ctx.Stack.AbortGroup(); abortErr != nil {
			s.logger.Error("aborting pad placement failed", "error", abortErr)
		}
		return err
	}
	s.current = pad
	s.edit = cmd.NewFootprintPadEdit(pad)
	s.phase = PhasePlacing
	return nil
}

func (s *AddPads) finish(pos types.Point) error {
	s.edit.SetPosition(pos, true)
	s.last = s.current.Clone()
	edit := s.edit
	s.current = nil
	s.edit = nil
	s.phase = PhaseIdle
	if err := s.ctx.Stack.AppendToGroup(edit); err != nil {
		return err
	}
	if err := s.ctx.Stack.CommitGroup(); err != nil {
		return err
	}
	s.logger.Debug("footprint pad placed", "footprint", s.ctx.Footprint.UUID(), "position", pos)
	s.selectNextFreePad()
	return nil
}

// selectNextFreePad picks the first package pad no footprint pad connects
// to, or none if all are taken.
func (s *AddPads) selectNextFreePad() {
	next := types.NilIdentifier
	for _, pp := range s.ctx.Package.Pads {
		used := slices.ContainsFunc(s.ctx.Footprint.Pads(), func(p *library.FootprintPad) bool {
			return p.PackagePad() == pp.UUID
		})
		if !used {
			next = pp.UUID
			break
		}
	}
	s.SetPackagePad(next)
}
