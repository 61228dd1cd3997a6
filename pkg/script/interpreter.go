package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/editor/cmd"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

var (
	ErrUnknownName       = errors.New("unknown name")
	ErrUnterminatedGroup = errors.New("begin without commit or abort")
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger for executed statements.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// Interpreter executes scripts through a project's undo stack.
type Interpreter struct {
	project *project.Project
	logger  *slog.Logger
	// Executed counts the statements run successfully.
	Executed int
}

// NewInterpreter creates an interpreter for p.
func NewInterpreter(p *project.Project, opts ...Option) *Interpreter {
	in := &Interpreter{project: p, logger: slog.Default()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run parses and executes a script. A failing statement stops the run; a
// group opened by the script is aborted so the failed block leaves no trace.
func (in *Interpreter) Run(ctx context.Context, name string, r io.Reader) error {
	s, err := Parse(name, r)
	if err != nil {
		return err
	}
	return in.Exec(ctx, s)
}

// RunString is a convenience wrapper around Run.
func (in *Interpreter) RunString(ctx context.Context, name, src string) error {
	return in.Run(ctx, name, strings.NewReader(src))
}

// Exec executes a parsed script.
func (in *Interpreter) Exec(ctx context.Context, s *Script) error {
	if in.project.IsClosed() {
		return project.ErrClosed
	}
	stack := in.project.UndoStack
	openedHere := false
	fail := func(err error) error {
		if openedHere && stack.IsGroupOpen() {
			if abortErr := stack.AbortGroup(); abortErr != nil {
				in.logger.Error("aborting script group failed", "error", abortErr)
				return errors.Join(err, abortErr)
			}
		}
		return err
	}
	for _, st := range s.Statements {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := in.statement(st); err != nil {
			return fail(fmt.Errorf("%s: %w", st.Pos, err))
		}
		switch {
		case st.Begin != nil:
			openedHere = true
		case st.Commit || st.Abort:
			openedHere = false
		}
		in.Executed++
		in.logger.Debug("script statement executed", "pos", st.Pos.String())
	}
	if openedHere {
		return fail(ErrUnterminatedGroup)
	}
	return nil
}

func (in *Interpreter) statement(st *Statement) error {
	stack := in.project.UndoStack
	switch {
	case st.Begin != nil:
		return stack.BeginGroup(*st.Begin)
	case st.Commit:
		return stack.CommitGroup()
	case st.Abort:
		return stack.AbortGroup()
	case st.Undo:
		return stack.Undo()
	case st.Redo:
		return stack.Redo()
	case st.Move != nil:
		return in.move(st.Move)
	case st.Place != nil:
		return in.place(st.Place)
	case st.Rotate != nil:
		return in.rotate(st.Rotate)
	case st.Mirror != nil:
		return in.mirror(st.Mirror)
	case st.Connect != nil:
		return in.connect(st.Connect)
	case st.Disconnect != nil:
		return in.disconnect(st.Disconnect)
	case st.RenameNet != nil:
		return in.renameNet(st.RenameNet)
	case st.Text != nil:
		return in.text(st.Text)
	case st.Route != nil:
		return in.route(st.Route)
	}
	return fmt.Errorf("empty statement")
}

// exec runs cmds as one undo step, or appends them to the open group.
func (in *Interpreter) exec(cmds ...undo.Command) error {
	stack := in.project.UndoStack
	if stack.IsGroupOpen() {
		for _, c := range cmds {
			if err := stack.AppendToGroup(c); err != nil {
				return err
			}
		}
		return nil
	}
	if len(cmds) == 1 {
		return stack.Execute(cmds[0])
	}
	return stack.Execute(undo.NewGroup(cmds[0].Text(), cmds...))
}

func (in *Interpreter) device(name string) (*board.Device, error) {
	ci := in.project.Circuit.ComponentInstanceByName(name)
	if ci == nil || ci.Device() == nil {
		return nil, fmt.Errorf("%w: no device %q on the board", ErrUnknownName, name)
	}
	return ci.Device(), nil
}

func (in *Interpreter) signal(device, name string) (*board.ComponentSignalInstance, error) {
	d, err := in.device(device)
	if err != nil {
		return nil, err
	}
	sig, ok := d.ComponentInstance().SignalByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no signal %q", ErrUnknownName, device, name)
	}
	return sig, nil
}

func (in *Interpreter) pad(ref PadRef) (*board.FootprintPad, error) {
	d, err := in.device(ref.Device)
	if err != nil {
		return nil, err
	}
	for _, p := range d.Footprint().Pads() {
		if pp := p.PackagePad(); pp != nil && pp.Name.String() == ref.Pad {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no pad %s", ErrUnknownName, ref)
}

func parsePoint(x, y string) (types.Point, error) {
	lx, err := types.ParseLength(x)
	if err != nil {
		return types.Point{}, err
	}
	ly, err := types.ParseLength(y)
	if err != nil {
		return types.Point{}, err
	}
	return types.NewPoint(lx, ly), nil
}

func (in *Interpreter) move(m *Move) error {
	d, err := in.device(m.Device)
	if err != nil {
		return err
	}
	delta, err := parsePoint(m.DX, m.DY)
	if err != nil {
		return err
	}
	edit := cmd.NewDeviceEdit(d)
	edit.Translate(delta, false)
	return in.exec(edit)
}

func (in *Interpreter) place(p *Place) error {
	d, err := in.device(p.Device)
	if err != nil {
		return err
	}
	pos, err := parsePoint(p.X, p.Y)
	if err != nil {
		return err
	}
	edit := cmd.NewDeviceEdit(d)
	edit.SetPosition(pos, false)
	return in.exec(edit)
}

func (in *Interpreter) rotate(r *Rotate) error {
	d, err := in.device(r.Device)
	if err != nil {
		return err
	}
	angle, err := types.ParseAngle(r.Angle)
	if err != nil {
		return err
	}
	edit := cmd.NewDeviceEdit(d)
	edit.Rotate(angle, d.Position(), false)
	return in.exec(edit)
}

func (in *Interpreter) mirror(m *Mirror) error {
	d, err := in.device(m.Device)
	if err != nil {
		return err
	}
	edit := cmd.NewDeviceEdit(d)
	edit.Mirror(types.Horizontal, d.Position(), false)
	return in.exec(edit)
}

func (in *Interpreter) connect(c *Connect) error {
	sig, err := in.signal(c.Device, c.Signal)
	if err != nil {
		return err
	}
	if net := in.project.Circuit.NetSignalByName(c.Net); net != nil {
		return in.exec(cmd.NewCompSigInstSetNetSignal(sig, net))
	}
	name, err := types.NewCircuitIdentifier(c.Net)
	if err != nil {
		return err
	}
	net := board.NewNetSignal(types.NewIdentifier(), name)
	return in.exec(cmd.NewNetSignalAdd(in.project.Circuit, net), cmd.NewCompSigInstSetNetSignal(sig, net))
}

func (in *Interpreter) disconnect(d *Disconnect) error {
	sig, err := in.signal(d.Device, d.Signal)
	if err != nil {
		return err
	}
	return in.exec(cmd.NewCompSigInstSetNetSignal(sig, nil))
}

func (in *Interpreter) renameNet(r *RenameNet) error {
	net := in.project.Circuit.NetSignalByName(r.From)
	if net == nil {
		return fmt.Errorf("%w: no net %q", ErrUnknownName, r.From)
	}
	name, err := types.NewCircuitIdentifier(r.To)
	if err != nil {
		return err
	}
	edit := cmd.NewNetSignalEdit(net)
	edit.SetName(name)
	return in.exec(edit)
}

func (in *Interpreter) text(t *Text) error {
	d, err := in.device(t.Device)
	if err != nil {
		return err
	}
	tf := d.Transform()
	lt := library.NewStrokeText(types.NewIdentifier(), tf.MapLayer(types.LayerTopNames), t.Value,
		d.Position(), d.Rotation(), types.MustPositiveLength(types.Millimetre),
		types.MustUnsignedLength(200*types.Micrometre), library.AlignHCenter, library.AlignBottom,
		tf.MapMirror(false), true)
	return in.exec(cmd.NewFootprintStrokeTextAdd(d.Footprint(), board.NewStrokeText(d.Board(), lt)))
}

func (in *Interpreter) route(r *Route) error {
	start, err := in.pad(r.From)
	if err != nil {
		return err
	}
	end, err := in.pad(r.To)
	if err != nil {
		return err
	}
	w, err := types.ParseLength(r.Width)
	if err != nil {
		return err
	}
	width, err := types.NewPositiveLength(w)
	if err != nil {
		return err
	}
	layer := types.LayerTopCopper
	if r.Layer != "" {
		layer = r.Layer
	}
	nl, err := board.NewNetLine(in.project.Board, types.NewIdentifier(), start, end, width, layer)
	if err != nil {
		return err
	}
	return in.exec(cmd.NewNetLineAdd(nl))
}
