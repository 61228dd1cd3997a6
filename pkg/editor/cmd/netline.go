package cmd

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// NetLineAdd routes a net line between two pads.
type NetLineAdd struct {
	undo.Base
	line  *board.NetLine
	index int
}

// NewNetLineAdd creates a command adding nl to its board.
func NewNetLineAdd(nl *board.NetLine) *NetLineAdd {
	return &NetLineAdd{Base: undo.NewBase("Add net line"), line: nl, index: -1}
}

// NetLine returns the routed line.
func (c *NetLineAdd) NetLine() *board.NetLine { return c.line }

func (c *NetLineAdd) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		b := c.line.Board()
		if err := b.AddNetLine(c.line); err != nil {
			return false, err
		}
		c.index = len(b.NetLines()) - 1
		return true, nil
	})
}

func (c *NetLineAdd) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.line.Board().RemoveNetLine(c.line)
		return err
	})
}

func (c *NetLineAdd) Redo() error {
	return c.RunRedo(func() error { return c.line.Board().InsertNetLine(c.index, c.line) })
}

// NetLineRemove removes a routed net line.
type NetLineRemove struct {
	undo.Base
	line  *board.NetLine
	index int
}

// NewNetLineRemove creates a command removing nl from its board.
func NewNetLineRemove(nl *board.NetLine) *NetLineRemove {
	return &NetLineRemove{Base: undo.NewBase("Remove net line"), line: nl}
}

func (c *NetLineRemove) remove() error {
	i, err := c.line.Board().RemoveNetLine(c.line)
	if err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *NetLineRemove) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) { return true, c.remove() })
}

func (c *NetLineRemove) Undo() error {
	return c.RunUndo(func() error { return c.line.Board().InsertNetLine(c.index, c.line) })
}

func (c *NetLineRemove) Redo() error {
	return c.RunRedo(c.remove)
}
