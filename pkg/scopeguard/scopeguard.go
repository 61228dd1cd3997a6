// Package scopeguard provides a list of inverse actions for multi-step
// structural changes.
//
// Each successful step pushes the action that reverts it. If a later step
// fails, Rollback runs the collected actions last-in-first-out. Once the whole
// change has succeeded, Dismiss discards them without running:
//
//	sgl := scopeguard.New(len(children))
//	defer sgl.Rollback()
//	for _, c := range children {
//		if err := c.Add(); err != nil {
//			return err
//		}
//		sgl.Add(c.Remove)
//	}
//	sgl.Dismiss()
package scopeguard

import "errors"

// List collects inverse actions.
type List struct {
	actions   []func() error
	dismissed bool
}

// New creates a list with room for capacity actions.
func New(capacity int) *List {
	return &List{actions: make([]func() error, 0, capacity)}
}

// Add pushes an inverse action.
func (l *List) Add(action func() error) {
	l.actions = append(l.actions, action)
}

// Len returns the number of pending actions.
func (l *List) Len() int {
	return len(l.actions)
}

// Dismiss marks the change as complete. Later Rollback calls do nothing.
func (l *List) Dismiss() {
	l.dismissed = true
	l.actions = nil
}

// Rollback runs the pending actions in reverse order. Every action runs even
// if an earlier one failed; their errors are joined. The list is empty
// afterwards.
func (l *List) Rollback() error {
	if l.dismissed {
		return nil
	}
	var errs []error
	for i := len(l.actions) - 1; i >= 0; i-- {
		if err := l.actions[i](); err != nil {
			errs = append(errs, err)
		}
	}
	l.actions = nil
	return errors.Join(errs...)
}
