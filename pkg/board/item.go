package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Kind is the closed set of board item types.
type Kind int

const (
	KindDevice Kind = iota
	KindFootprint
	KindFootprintPad
	KindStrokeText
	KindNetLine
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindFootprint:
		return "footprint"
	case KindFootprintPad:
		return "footprint pad"
	case KindStrokeText:
		return "stroke text"
	case KindNetLine:
		return "net line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Item is implemented by every element placed on a board.
type Item interface {
	Kind() Kind
	UUID() types.Identifier
	Board() *Board
	IsAddedToBoard() bool
	IsSelected() bool
	SetSelected(selected bool)
	AddToBoard() error
	RemoveFromBoard() error
}

// itemBase carries the state shared by all items.
type itemBase struct {
	board    *Board
	added    bool
	selected bool
}

func (b *itemBase) Board() *Board { return b.board }
func (b *itemBase) IsAddedToBoard() bool { return b.added }
func (b *itemBase) IsSelected() bool { return b.selected }

// SetSelected is ignored for detached items.
func (b *itemBase) SetSelected(selected bool) {
	b.selected = selected && b.added
}

func (b *itemBase) checkAttachable(op string, id types.Identifier) error {
	if b.added {
		return docerr.Lifecycle(op, id, docerr.ErrAlreadyAttached, "item must be detached before it is added")
	}
	return nil
}

func (b *itemBase) checkDetachable(op string, id types.Identifier) error {
	if !b.added {
		return docerr.Lifecycle(op, id, docerr.ErrNotAttached, "item must be attached before it is removed")
	}
	return nil
}

// attachGraphics registers it with the scene and marks it added.
func (b *itemBase) attachGraphics(op string, it Item) error {
	if err := b.board.scene.Attach(it); err != nil {
		return fmt.Errorf("%s: attach graphics of %s %s: %w", op, it.Kind(), it.UUID(), err)
	}
	b.added = true
	return nil
}

// detachGraphics unregisters it from the scene and marks it detached.
func (b *itemBase) detachGraphics(op string, it Item) error {
	if err := b.board.scene.Detach(it); err != nil {
		return fmt.Errorf("%s: detach graphics of %s %s: %w", op, it.Kind(), it.UUID(), err)
	}
	b.added = false
	b.selected = false
	return nil
}

// Compile-time interface checks.
var (
	_ Item = (*Device)(nil)
	_ Item = (*Footprint)(nil)
	_ Item = (*FootprintPad)(nil)
	_ Item = (*StrokeText)(nil)
	_ Item = (*NetLine)(nil)
)
