// Package signal implements synchronous observer lists.
//
// A Signal delivers every notification to its attached slots in the order they
// were attached, inside the Notify call. Slots may detach themselves (or other
// slots) from within a callback; detached slots are skipped from then on.
package signal

// Signal is a list of observers for values of type T.
type Signal[T any] struct {
	slots []*Slot[T]
}

// Slot is one attached observer.
type Slot[T any] struct {
	owner *Signal[T]
	fn    func(T)
}

// Attach registers fn and returns its slot.
func (s *Signal[T]) Attach(fn func(T)) *Slot[T] {
	slot := &Slot[T]{owner: s, fn: fn}
	s.slots = append(s.slots, slot)
	return slot
}

// Notify calls every attached slot with v.
func (s *Signal[T]) Notify(v T) {
	// Iterate over a snapshot so callbacks may attach or detach.
	snapshot := make([]*Slot[T], len(s.slots))
	copy(snapshot, s.slots)
	for _, slot := range snapshot {
		if slot.owner == s {
			slot.fn(v)
		}
	}
}

// Len returns the number of attached slots.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}

// Detach removes the slot from its signal. Detaching twice is a no-op.
func (sl *Slot[T]) Detach() {
	if sl == nil || sl.owner == nil {
		return
	}
	s := sl.owner
	for i, other := range s.slots {
		if other == sl {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			break
		}
	}
	sl.owner = nil
}

// Attached reports whether the slot is still connected.
func (sl *Slot[T]) Attached() bool {
	return sl != nil && sl.owner != nil
}
