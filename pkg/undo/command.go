// Package undo implements undoable document edits.
//
// A Command is executed once and can then be undone and redone any number
// of times, alternating. Commands that change nothing report so from Execute
// and are discarded by Group and Stack. A Group bundles commands into one
// history entry; a Stack keeps the history of one document.
package undo

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"

// Command is one undoable edit.
type Command interface {
	Text() string
	// Execute applies the command for the first time and reports whether the
	// document changed. A failed Execute leaves the document unchanged.
	Execute() (bool, error)
	Undo() error
	Redo() error
}

// Base tracks the execution state shared by all commands. Concrete commands
// embed it and route Execute, Undo and Redo through RunExecute, RunUndo and
// RunRedo, which enforce the legal order.
type Base struct {
	text     string
	executed bool
	applied  bool
}

// NewBase creates the state of a command with a user visible text.
func NewBase(text string) Base {
	return Base{text: text}
}

func (b *Base) Text() string { return b.text }

// WasExecuted reports whether Execute has succeeded.
func (b *Base) WasExecuted() bool { return b.executed }

// IsApplied reports whether the command's effect is in the document.
func (b *Base) IsApplied() bool { return b.applied }

// RunExecute runs perform unless the command was executed before.
func (b *Base) RunExecute(perform func() (bool, error)) (bool, error) {
	if b.executed {
		return false, docerr.Stack("undo.Command.Execute", docerr.ErrAlreadyExecuted, "command %q can only be executed once", b.text)
	}
	changed, err := perform()
	if err != nil {
		return false, err
	}
	b.executed = true
	b.applied = true
	return changed, nil
}

// RunUndo runs perform if the command is currently applied.
func (b *Base) RunUndo(perform func() error) error {
	if !b.applied {
		return docerr.Stack("undo.Command.Undo", docerr.ErrNothingToUndo, "command %q is not applied", b.text)
	}
	if err := perform(); err != nil {
		return err
	}
	b.applied = false
	return nil
}

// RunRedo runs perform if the command was executed and then undone.
func (b *Base) RunRedo(perform func() error) error {
	if !b.executed || b.applied {
		return docerr.Stack("undo.Command.Redo", docerr.ErrNothingToRedo, "command %q is not undone", b.text)
	}
	if err := perform(); err != nil {
		return err
	}
	b.applied = true
	return nil
}
