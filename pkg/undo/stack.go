package undo

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
)

// State is a snapshot of what the stack can do next, emitted by OnChanged.
type State struct {
	CanUndo   bool
	CanRedo   bool
	UndoText  string
	RedoText  string
	Clean     bool
	GroupOpen bool
}

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger for history events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stack) { s.logger = l }
}

// Stack is the undo history of one document. At most one group is open at
// a time; while it is open the stack only accepts commands for that group.
type Stack struct {
	OnChanged signal.Signal[State]

	past   []Command
	future []Command // next redo last
	open   *Group
	clean  int // len(past) at the clean point, -1 if unreachable
	logger *slog.Logger
}

// NewStack creates an empty, clean stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs cmd and records it. A command that changes nothing is
// dropped and leaves the redo history intact.
func (s *Stack) Execute(cmd Command) error {
	if s.open != nil {
		return docerr.Stack("undo.Stack.Execute", docerr.ErrGroupOpen,
			"commands go to the open group %q until it is committed or aborted", s.open.Text())
	}
	changed, err := cmd.Execute()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.push(cmd)
	return nil
}

// BeginGroup opens a group. Commands appended to it are executed
// immediately.
func (s *Stack) BeginGroup(text string) error {
	if s.open != nil {
		return docerr.Stack("undo.Stack.BeginGroup", docerr.ErrGroupOpen, "group %q is still open", s.open.Text())
	}
	g := NewGroup(text)
	if _, err := g.Execute(); err != nil {
		return err
	}
	s.open = g
	s.logger.Debug("command group opened", "text", text)
	s.notify()
	return nil
}

// AppendToGroup executes cmd as part of the open group.
func (s *Stack) AppendToGroup(cmd Command) error {
	if s.open == nil {
		return docerr.Stack("undo.Stack.AppendToGroup", docerr.ErrNoGroupOpen, "begin a group first")
	}
	return s.open.Append(cmd)
}

// CommitGroup closes the open group and records it. An empty group is
// dropped.
func (s *Stack) CommitGroup() error {
	if s.open == nil {
		return docerr.Stack("undo.Stack.CommitGroup", docerr.ErrNoGroupOpen, "no group to commit")
	}
	g := s.open
	s.open = nil
	if g.Len() == 0 {
		s.logger.Debug("empty command group dropped", "text", g.Text())
		s.notify()
		return nil
	}
	s.logger.Debug("command group committed", "text", g.Text(), "commands", g.Len())
	s.push(g)
	return nil
}

// AbortGroup reverts everything done in the open group and closes it. The
// group is closed even if reverting fails.
func (s *Stack) AbortGroup() error {
	if s.open == nil {
		return docerr.Stack("undo.Stack.AbortGroup", docerr.ErrNoGroupOpen, "no group to abort")
	}
	g := s.open
	s.open = nil
	err := g.Undo()
	if err != nil {
		s.logger.Error("aborting command group failed", "text", g.Text(), "error", err)
	} else {
		s.logger.Debug("command group aborted", "text", g.Text())
	}
	s.notify()
	return err
}

// Undo reverts the most recent entry.
func (s *Stack) Undo() error {
	const op = "undo.Stack.Undo"
	if s.open != nil {
		return docerr.Stack(op, docerr.ErrGroupOpen, "cannot undo while group %q is open", s.open.Text())
	}
	if len(s.past) == 0 {
		return docerr.Stack(op, docerr.ErrNothingToUndo, "history is empty")
	}
	cmd := s.past[len(s.past)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, cmd)
	s.logger.Debug("undone", "text", cmd.Text())
	s.notify()
	return nil
}

// Redo applies the most recently undone entry again.
func (s *Stack) Redo() error {
	const op = "undo.Stack.Redo"
	if s.open != nil {
		return docerr.Stack(op, docerr.ErrGroupOpen, "cannot redo while group %q is open", s.open.Text())
	}
	if len(s.future) == 0 {
		return docerr.Stack(op, docerr.ErrNothingToRedo, "nothing was undone")
	}
	cmd := s.future[len(s.future)-1]
	if err := cmd.Redo(); err != nil {
		return err
	}
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, cmd)
	s.logger.Debug("redone", "text", cmd.Text())
	s.notify()
	return nil
}

func (s *Stack) CanUndo() bool { return s.open == nil && len(s.past) > 0 }
func (s *Stack) CanRedo() bool { return s.open == nil && len(s.future) > 0 }
func (s *Stack) IsGroupOpen() bool { return s.open != nil }

// UndoText returns the text of the entry Undo would revert, or "".
func (s *Stack) UndoText() string {
	if len(s.past) == 0 {
		return ""
	}
	return s.past[len(s.past)-1].Text()
}

// RedoText returns the text of the entry Redo would apply, or "".
func (s *Stack) RedoText() string {
	if len(s.future) == 0 {
		return ""
	}
	return s.future[len(s.future)-1].Text()
}

// Len returns the number of entries that can be undone.
func (s *Stack) Len() int { return len(s.past) }

// IsClean reports whether the document is in the state last marked clean,
// typically the saved state.
func (s *Stack) IsClean() bool { return s.open == nil && s.clean == len(s.past) }

// SetClean marks the current state as clean.
func (s *Stack) SetClean() {
	s.clean = len(s.past)
	s.notify()
}

// Clear aborts an open group and forgets the history. The current state
// becomes clean.
func (s *Stack) Clear() error {
	var err error
	if s.open != nil {
		err = s.AbortGroup()
	}
	s.past, s.future = nil, nil
	s.clean = 0
	s.notify()
	return err
}

// State returns a snapshot of the stack.
func (s *Stack) State() State {
	return State{
		CanUndo:   s.CanUndo(),
		CanRedo:   s.CanRedo(),
		UndoText:  s.UndoText(),
		RedoText:  s.RedoText(),
		Clean:     s.IsClean(),
		GroupOpen: s.IsGroupOpen(),
	}
}

// push records an executed entry and drops the redo history.
func (s *Stack) push(cmd Command) {
	if s.clean > len(s.past) {
		s.clean = -1
	}
	s.future = nil
	s.past = append(s.past, cmd)
	s.notify()
}

func (s *Stack) notify() {
	s.OnChanged.Notify(s.State())
}
