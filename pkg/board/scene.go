package board

// Scene receives the graphics side of item lifecycle changes. A Board calls
// Attach when an item is added, Detach when it is removed and
// UpdateTransform when an attached item moves. Attach and Detach may fail,
// in which case the item's add or remove is rolled back.
type Scene interface {
	Attach(it Item) error
	Detach(it Item) error
	UpdateTransform(it Item)
}

// NopScene is a Scene without graphics.
type NopScene struct{}

func (NopScene) Attach(Item) error { return nil }
func (NopScene) Detach(Item) error { return nil }
func (NopScene) UpdateTransform(Item) {}
