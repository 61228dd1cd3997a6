package board

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/scopeguard"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Option configures a Board.
type Option func(*Board)

// WithScene sets the graphics hook. The default is NopScene.
func WithScene(s Scene) Option {
	return func(b *Board) { b.scene = s }
}

// WithLogger sets the logger for rollback failures and connectivity events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// Board is one board of a project.
type Board struct {
	uuid         types.Identifier
	name         types.ElementName
	library      *library.Library
	circuit      *Circuit
	scene        Scene
	logger       *slog.Logger
	connectivity *Connectivity

	devices  []*Device
	netLines []*NetLine
	texts    []*StrokeText
}

// New creates an empty board over a library and circuit.
func New(uuid types.Identifier, name types.ElementName, lib *library.Library, circuit *Circuit, opts ...Option) *Board {
	b := &Board{
		uuid:    uuid,
		name:    name,
		library: lib,
		circuit: circuit,
		scene:   NopScene{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.connectivity = newConnectivity(b.logger)
	return b
}

func (b *Board) UUID() types.Identifier { return b.uuid }
func (b *Board) Name() types.ElementName { return b.name }
func (b *Board) Library() *library.Library { return b.library }
func (b *Board) Circuit() *Circuit { return b.circuit }
func (b *Board) Connectivity() *Connectivity { return b.connectivity }
func (b *Board) Devices() []*Device { return b.devices }
func (b *Board) NetLines() []*NetLine { return b.netLines }
func (b *Board) StrokeTexts() []*StrokeText { return b.texts }

// SetName renames the board.
func (b *Board) SetName(name types.ElementName) bool {
	if name == b.name {
		return false
	}
	b.name = name
	return true
}

// Device returns the device placing the component instance uuid, or nil.
func (b *Board) Device(uuid types.Identifier) *Device {
	i := slices.IndexFunc(b.devices, func(d *Device) bool { return d.UUID() == uuid })
	if i < 0 {
		return nil
	}
	return b.devices[i]
}

// NetLine returns the net line uuid, or nil.
func (b *Board) NetLine(uuid types.Identifier) *NetLine {
	i := slices.IndexFunc(b.netLines, func(nl *NetLine) bool { return nl.uuid == uuid })
	if i < 0 {
		return nil
	}
	return b.netLines[i]
}

// RebuildAirWires takes the nets scheduled since the last call and returns
// them in scheduling order. It is called once per finished document change.
func (b *Board) RebuildAirWires() []*NetSignal {
	nets := b.connectivity.TakePendingRebuilds()
	if len(nets) > 0 {
		b.logger.Debug("air wires rebuilt", "board", b.uuid, "nets", len(nets))
	}
	return nets
}

// rollback reverts the completed steps of a failed operation. Failures of
// the rollback itself are logged and joined with cause.
func (b *Board) rollback(op string, cause error, sgl *scopeguard.List) error {
	if err := sgl.Rollback(); err != nil {
		b.logger.Error("rollback failed", "op", op, "cause", cause, "error", err)
		return errors.Join(cause, fmt.Errorf("%s: rollback: %w", op, err))
	}
	return cause
}

// insertItem attaches it and inserts it into list at index.
func insertItem[T Item](b *Board, op string, list []T, index int, it T) ([]T, error) {
	if it.Board() != b {
		return list, docerr.Lifecycle(op, it.UUID(), docerr.ErrForeignBoard, "%s belongs to another board", it.Kind())
	}
	if slices.ContainsFunc(list, func(o T) bool { return o.UUID() == it.UUID() }) {
		return list, docerr.Lifecycle(op, it.UUID(), docerr.ErrAlreadyRegistered, "%s is already on the board", it.Kind())
	}
	if err := it.AddToBoard(); err != nil {
		return list, err
	}
	if index < 0 || index > len(list) {
		index = len(list)
	}
	return slices.Insert(list, index, it), nil
}

// removeItem detaches it and removes it from list.
func removeItem[T Item](op string, list []T, it T) ([]T, int, error) {
	i := slices.IndexFunc(list, func(o T) bool { return Item(o) == Item(it) })
	if i < 0 {
		return list, -1, docerr.Lifecycle(op, it.UUID(), docerr.ErrNotRegistered, "%s is not on the board", it.Kind())
	}
	if err := it.RemoveFromBoard(); err != nil {
		return list, -1, err
	}
	return slices.Delete(list, i, i+1), i, nil
}

// AddDevice attaches d and appends it.
func (b *Board) AddDevice(d *Device) error { return b.InsertDevice(-1, d) }

// InsertDevice attaches d and inserts it at index; a negative index appends.
func (b *Board) InsertDevice(index int, d *Device) (err error) {
	b.devices, err = insertItem(b, "board.Board.AddDevice", b.devices, index, d)
	return err
}

// RemoveDevice detaches d and returns its former index.
func (b *Board) RemoveDevice(d *Device) (index int, err error) {
	b.devices, index, err = removeItem("board.Board.RemoveDevice", b.devices, d)
	return index, err
}

// AddNetLine attaches nl and appends it.
func (b *Board) AddNetLine(nl *NetLine) error { return b.InsertNetLine(-1, nl) }

// InsertNetLine attaches nl and inserts it at index.
func (b *Board) InsertNetLine(index int, nl *NetLine) (err error) {
	b.netLines, err = insertItem(b, "board.Board.AddNetLine", b.netLines, index, nl)
	return err
}

// RemoveNetLine detaches nl and returns its former index.
func (b *Board) RemoveNetLine(nl *NetLine) (index int, err error) {
	b.netLines, index, err = removeItem("board.Board.RemoveNetLine", b.netLines, nl)
	return index, err
}

// AddStrokeText attaches a board-level text and appends it.
func (b *Board) AddStrokeText(t *StrokeText) error { return b.InsertStrokeText(-1, t) }

// InsertStrokeText adds a free text. Footprint texts are added through
// their footprint.
func (b *Board) InsertStrokeText(index int, t *StrokeText) (err error) {
	if t.footprint != nil {
		return docerr.Lifecycle("board.Board.AddStrokeText", t.UUID(), docerr.ErrAlreadyRegistered,
			"stroke text belongs to footprint %s", t.footprint.UUID())
	}
	b.texts, err = insertItem(b, "board.Board.AddStrokeText", b.texts, index, t)
	return err
}

// RemoveStrokeText detaches t and returns its former index.
func (b *Board) RemoveStrokeText(t *StrokeText) (index int, err error) {
	b.texts, index, err = removeItem("board.Board.RemoveStrokeText", b.texts, t)
	return index, err
}

// ClearSelection deselects every item.
func (b *Board) ClearSelection() {
	for _, d := range b.devices {
		d.SetSelected(false)
	}
	for _, nl := range b.netLines {
		nl.SetSelected(false)
	}
	for _, t := range b.texts {
		t.SetSelected(false)
	}
}

// SelectedItems returns the selected items: devices, their pads and texts,
// net lines, then free texts.
func (b *Board) SelectedItems() []Item {
	var out []Item
	for _, d := range b.devices {
		if d.IsSelected() {
			out = append(out, d)
		}
		for _, p := range d.footprint.pads {
			if p.IsSelected() {
				out = append(out, p)
			}
		}
		for _, t := range d.footprint.texts {
			if t.IsSelected() {
				out = append(out, t)
			}
		}
	}
	for _, nl := range b.netLines {
		if nl.IsSelected() {
			out = append(out, nl)
		}
	}
	for _, t := range b.texts {
		if t.IsSelected() {
			out = append(out, t)
		}
	}
	return out
}

// Serialize writes the board content in insertion order.
func (b *Board) Serialize() *sexp.Node {
	n := sexp.NewList("board", sexp.Stringer(b.uuid))
	n.AppendList("name", sexp.String(b.name.String()))
	for _, d := range b.devices {
		n.Append(d.Serialize())
	}
	for _, nl := range b.netLines {
		n.Append(nl.Serialize())
	}
	for _, t := range b.texts {
		n.Append(t.Serialize())
	}
	return n
}

// Deserialize reads a board written by Serialize and attaches all items.
// Devices go through the same validation as NewDevice. On failure every item
// attached so far is removed again, so circuit keeps no registrations of the
// discarded board.
func Deserialize(n *sexp.Node, format types.Version, lib *library.Library, circuit *Circuit, opts ...Option) (*Board, error) {
	const op = "board.Deserialize"
	r := sexp.NewReader(n, op)
	uuid := r.Identifier("@0")
	name := r.ElementName("name/@0")
	if err := r.Err(); err != nil {
		return nil, err
	}
	b := New(uuid, name, lib, circuit, opts...)
	devices := n.ChildrenNamed("device")
	netLines := n.ChildrenNamed("netline")
	texts := n.ChildrenNamed("stroke_text")
	sgl := scopeguard.New(len(devices) + len(netLines) + len(texts))

	for _, c := range devices {
		d, err := DeserializeDevice(b, c, format)
		if err == nil {
			err = b.AddDevice(d)
		}
		if err != nil {
			return nil, b.rollback(op, err, sgl)
		}
		sgl.Add(func() error {
			_, err := b.RemoveDevice(d)
			return err
		})
	}
	for _, c := range netLines {
		nl, err := DeserializeNetLine(b, c, format)
		if err == nil {
			err = b.AddNetLine(nl)
		}
		if err != nil {
			return nil, b.rollback(op, err, sgl)
		}
		sgl.Add(func() error {
			_, err := b.RemoveNetLine(nl)
			return err
		})
	}
	for _, c := range texts {
		t, err := DeserializeStrokeText(b, c, format)
		if err == nil {
			err = b.AddStrokeText(t)
		}
		if err != nil {
			return nil, b.rollback(op, err, sgl)
		}
		sgl.Add(func() error {
			_, err := b.RemoveStrokeText(t)
			return err
		})
	}
	sgl.Dismiss()
	return b, nil
}
