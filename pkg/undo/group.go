package undo

import (
	"errors"
	"fmt"
	"slices"
)

// Group is a command made of ordered children. Children that change
// nothing are dropped; an empty group is a no-op.
type Group struct {
	Base
	children []Command
}

// NewGroup creates a group of not yet executed children.
func NewGroup(text string, children ...Command) *Group {
	return &Group{Base: NewBase(text), children: children}
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// Children returns the children in execution order.
func (g *Group) Children() []Command { return g.children }

// Append adds cmd. Once the group is applied, cmd is executed right away and
// kept only if it changed something.
func (g *Group) Append(cmd Command) error {
	switch {
	case !g.executed:
		g.children = append(g.children, cmd)
		return nil
	case !g.applied:
		return fmt.Errorf("undo.Group.Append: group %q is undone", g.text)
	}
	changed, err := cmd.Execute()
	if err != nil {
		return err
	}
	if changed {
		g.children = append(g.children, cmd)
	}
	return nil
}

// Execute runs the children in order. If one fails, the ones before it are
// undone in reverse order.
func (g *Group) Execute() (bool, error) {
	return g.RunExecute(func() (bool, error) {
		kept := make([]Command, 0, len(g.children))
		for _, c := range g.children {
			changed, err := c.Execute()
			if err != nil {
				return false, joinRollback(err, undoAll(kept))
			}
			if changed {
				kept = append(kept, c)
			}
		}
		g.children = kept
		return len(kept) > 0, nil
	})
}

// Undo reverts the children in reverse order. If one fails, the ones already
// reverted are applied again.
func (g *Group) Undo() error {
	return g.RunUndo(func() error {
		for i := len(g.children) - 1; i >= 0; i-- {
			if err := g.children[i].Undo(); err != nil {
				return joinRollback(err, redoAll(g.children[i+1:]))
			}
		}
		return nil
	})
}

// Redo applies the children again in order. If one fails, the ones already
// applied are reverted.
func (g *Group) Redo() error {
	return g.RunRedo(func() error {
		for i, c := range g.children {
			if err := c.Redo(); err != nil {
				return joinRollback(err, undoAll(g.children[:i]))
			}
		}
		return nil
	})
}

func undoAll(cmds []Command) error {
	var errs []error
	for _, c := range slices.Backward(cmds) {
		if err := c.Undo(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func redoAll(cmds []Command) error {
	var errs []error
	for _, c := range cmds {
		if err := c.Redo(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func joinRollback(cause, rollbackErr error) error {
	if rollbackErr == nil {
		return cause
	}
	return errors.Join(cause, fmt.Errorf("rollback: %w", rollbackErr))
}
