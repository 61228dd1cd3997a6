package library

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// PadListChange says how the pad list of a footprint changed.
type PadListChange int

const (
	PadInserted PadListChange = iota
	PadRemoved
	PadEdited
)

// PadListEvent is emitted by Footprint.OnPadsEdited. Event is only meaningful
// for PadEdited.
type PadListEvent struct {
	Change PadListChange
	Index  int
	Pad    *FootprintPad
	Event  FootprintPadEvent
}

type padEntry struct {
	pad  *FootprintPad
	slot *signal.Slot[FootprintPadEvent]
}

// Footprint is one physical land pattern of a package. Pads and stroke texts
// keep their insertion order.
type Footprint struct {
	OnPadsEdited signal.Signal[PadListEvent]

	uuid  types.Identifier
	name  types.ElementName
	pads  []padEntry
	texts []*StrokeText
}

// NewFootprint creates an empty footprint.
func NewFootprint(uuid types.Identifier, name types.ElementName) *Footprint {
	return &Footprint{uuid: uuid, name: name}
}

func (f *Footprint) UUID() types.Identifier { return f.uuid }
func (f *Footprint) Name() types.ElementName { return f.name }

// Len returns the number of pads.
func (f *Footprint) Len() int { return len(f.pads) }

// Pads returns the pads in order.
func (f *Footprint) Pads() []*FootprintPad {
	out := make([]*FootprintPad, len(f.pads))
	for i, e := range f.pads {
		out[i] = e.pad
	}
	return out
}

// Pad returns the pad with the given identifier.
func (f *Footprint) Pad(uuid types.Identifier) (*FootprintPad, bool) {
	if i := f.IndexOf(uuid); i >= 0 {
		return f.pads[i].pad, true
	}
	return nil, false
}

// IndexOf returns the position of a pad, or -1.
func (f *Footprint) IndexOf(uuid types.Identifier) int {
	return slices.IndexFunc(f.pads, func(e padEntry) bool { return e.pad.uuid == uuid })
}

// Insert places pad at index (clamped to the list; negative appends).
func (f *Footprint) Insert(index int, pad *FootprintPad) error {
	if f.IndexOf(pad.uuid) >= 0 {
		return docerr.Structural("library.Footprint.Insert", pad.uuid, docerr.ErrDuplicatePadIdentifier,
			"pad identifiers of footprint %s must be unique", f.uuid)
	}
	if index < 0 || index > len(f.pads) {
		index = len(f.pads)
	}
	f.pads = slices.Insert(f.pads, index, f.observe(pad))
	f.OnPadsEdited.Notify(PadListEvent{Change: PadInserted, Index: index, Pad: pad})
	return nil
}

func (f *Footprint) observe(pad *FootprintPad) padEntry {
	slot := pad.OnEdited.Attach(func(ev FootprintPadEvent) {
		f.OnPadsEdited.Notify(PadListEvent{Change: PadEdited, Index: f.IndexOf(pad.uuid), Pad: pad, Event: ev})
	})
	return padEntry{pad: pad, slot: slot}
}

// Append adds pad at the end.
func (f *Footprint) Append(pad *FootprintPad) error {
	return f.Insert(-1, pad)
}

// Remove takes the pad out of the list and returns its former index.
func (f *Footprint) Remove(uuid types.Identifier) (int, error) {
	i := f.IndexOf(uuid)
	if i < 0 {
		return -1, docerr.Structural("library.Footprint.Remove", uuid, docerr.ErrNotFound,
			"pad is not part of footprint %s", f.uuid)
	}
	e := f.pads[i]
	e.slot.Detach()
	f.pads = slices.Delete(f.pads, i, i+1)
	f.OnPadsEdited.Notify(PadListEvent{Change: PadRemoved, Index: i, Pad: e.pad})
	return i, nil
}

// StrokeTexts returns the default texts in order.
func (f *Footprint) StrokeTexts() []*StrokeText { return f.texts }

// AddStrokeText appends a default text.
func (f *Footprint) AddStrokeText(t *StrokeText) {
	f.texts = append(f.texts, t)
}

// Serialize writes "(footprint uuid (name ..) (pad ..)... (stroke_text ..)...)".
func (f *Footprint) Serialize() *sexp.Node {
	n := sexp.NewList("footprint", sexp.Stringer(f.uuid))
	n.AppendList("name", sexp.String(f.name.String()))
	for _, e := range f.pads {
		n.Append(e.pad.Serialize())
	}
	for _, t := range f.texts {
		n.Append(t.Serialize())
	}
	return n
}

// DeserializeFootprint reads a footprint written by Serialize. Duplicate pad
// identifiers are kept; they are rejected when a board footprint is built
// from the result.
func DeserializeFootprint(n *sexp.Node, format types.Version) (*Footprint, error) {
	r := sexp.NewReader(n, "library.Footprint")
	f := NewFootprint(r.Identifier("@0"), r.ElementName("name/@0"))
	if err := r.Err(); err != nil {
		return nil, err
	}
	for _, c := range n.ChildrenNamed("pad") {
		p, err := DeserializeFootprintPad(c, format)
		if err != nil {
			return nil, err
		}
		f.pads = append(f.pads, f.observe(p))
	}
	for _, c := range n.ChildrenNamed("stroke_text") {
		t, err := DeserializeStrokeText(c, format)
		if err != nil {
			return nil, err
		}
		f.texts = append(f.texts, t)
	}
	return f, nil
}
