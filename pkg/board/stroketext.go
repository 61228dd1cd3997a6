package board

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// StrokeText is a text on the board, either free or belonging to a
// footprint. Its position is absolute in both cases. The rendering paths are
// regenerated whenever the text is edited.
type StrokeText struct {
	itemBase

	footprint *Footprint
	text      *library.StrokeText
	paths     []library.Path
}

// NewStrokeText creates a detached board text that takes ownership of text.
func NewStrokeText(b *Board, text *library.StrokeText) *StrokeText {
	t := &StrokeText{itemBase: itemBase{board: b}, text: text}
	t.paths = text.GeneratePaths()
	text.OnEdited.Attach(func(library.StrokeTextEvent) {
		t.paths = t.text.GeneratePaths()
		t.UpdateGraphics()
	})
	return t
}

func (t *StrokeText) Kind() Kind { return KindStrokeText }
func (t *StrokeText) UUID() types.Identifier { return t.text.UUID() }

// Text returns the owned text. Edits through its setters are reflected
// immediately.
func (t *StrokeText) Text() *library.StrokeText { return t.text }

// Footprint returns the owning footprint, or nil for board texts.
func (t *StrokeText) Footprint() *Footprint { return t.footprint }

// Paths returns the current rendering paths.
func (t *StrokeText) Paths() []library.Path { return t.paths }

// UpdateGraphics pushes the current geometry to the scene.
func (t *StrokeText) UpdateGraphics() {
	if t.added {
		t.board.scene.UpdateTransform(t)
	}
}

// AddToBoard attaches the text graphics.
func (t *StrokeText) AddToBoard() error {
	const op = "board.StrokeText.AddToBoard"
	if err := t.checkAttachable(op, t.UUID()); err != nil {
		return err
	}
	return t.attachGraphics(op, t)
}

// RemoveFromBoard detaches the text graphics.
func (t *StrokeText) RemoveFromBoard() error {
	const op = "board.StrokeText.RemoveFromBoard"
	if err := t.checkDetachable(op, t.UUID()); err != nil {
		return err
	}
	return t.detachGraphics(op, t)
}

// Serialize writes the owned text.
func (t *StrokeText) Serialize() *sexp.Node {
	return t.text.Serialize()
}

// DeserializeStrokeText reads a detached board text.
func DeserializeStrokeText(b *Board, n *sexp.Node, format types.Version) (*StrokeText, error) {
	text, err := library.DeserializeStrokeText(n, format)
	if err != nil {
		return nil, err
	}
	return NewStrokeText(b, text), nil
}
