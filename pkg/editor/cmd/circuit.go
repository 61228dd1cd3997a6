package cmd

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// NetSignalAdd registers a new net in a circuit.
type NetSignalAdd struct {
	undo.Base
	circuit *board.Circuit
	net     *board.NetSignal
	index   int
}

// NewNetSignalAdd creates a command adding net to c.
func NewNetSignalAdd(c *board.Circuit, net *board.NetSignal) *NetSignalAdd {
	return &NetSignalAdd{Base: undo.NewBase("Add net"), circuit: c, net: net, index: -1}
}

func (c *NetSignalAdd) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		if err := c.circuit.AddNetSignal(c.net); err != nil {
			return false, err
		}
		c.index = len(c.circuit.NetSignals()) - 1
		return true, nil
	})
}

func (c *NetSignalAdd) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.circuit.RemoveNetSignal(c.net)
		return err
	})
}

func (c *NetSignalAdd) Redo() error {
	return c.RunRedo(func() error { return c.circuit.InsertNetSignal(c.index, c.net) })
}

// NetSignalRemove unregisters an unused net.
type NetSignalRemove struct {
	undo.Base
	circuit *board.Circuit
	net     *board.NetSignal
	index   int
}

// NewNetSignalRemove creates a command removing net from c.
func NewNetSignalRemove(c *board.Circuit, net *board.NetSignal) *NetSignalRemove {
	return &NetSignalRemove{Base: undo.NewBase("Remove net"), circuit: c, net: net}
}

func (c *NetSignalRemove) remove() error {
	i, err := c.circuit.RemoveNetSignal(c.net)
	if err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *NetSignalRemove) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) { return true, c.remove() })
}

func (c *NetSignalRemove) Undo() error {
	return c.RunUndo(func() error { return c.circuit.InsertNetSignal(c.index, c.net) })
}

func (c *NetSignalRemove) Redo() error {
	return c.RunRedo(c.remove)
}

// NetSignalEdit renames a net.
type NetSignalEdit struct {
	undo.Base
	net       *board.NetSignal
	old, next types.CircuitIdentifier
}

// NewNetSignalEdit creates an edit of net.
func NewNetSignalEdit(net *board.NetSignal) *NetSignalEdit {
	return &NetSignalEdit{Base: undo.NewBase("Rename net"), net: net, old: net.Name(), next: net.Name()}
}

// SetName renames the net when the command executes.
func (c *NetSignalEdit) SetName(name types.CircuitIdentifier) {
	if !c.WasExecuted() {
		c.next = name
	}
}

func (c *NetSignalEdit) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		return c.net.SetName(c.next)
	})
}

func (c *NetSignalEdit) Undo() error {
	return c.RunUndo(func() error {
		_, err := c.net.SetName(c.old)
		return err
	})
}

func (c *NetSignalEdit) Redo() error {
	return c.RunRedo(func() error {
		_, err := c.net.SetName(c.next)
		return err
	})
}

// CompSigInstSetNetSignal connects a component signal to a net, or
// disconnects it when the net is nil.
type CompSigInstSetNetSignal struct {
	undo.Base
	signal    *board.ComponentSignalInstance
	old, next *board.NetSignal
}

// NewCompSigInstSetNetSignal creates a command binding sig to net. A nil
// net disconnects the signal.
func NewCompSigInstSetNetSignal(sig *board.ComponentSignalInstance, net *board.NetSignal) *CompSigInstSetNetSignal {
	return &CompSigInstSetNetSignal{
		Base:   undo.NewBase("Change component signal net"),
		signal: sig,
		old:    sig.NetSignal(),
		next:   net,
	}
}

func (c *CompSigInstSetNetSignal) Execute() (bool, error) {
	return c.RunExecute(func() (bool, error) {
		if c.old == c.next {
			return false, nil
		}
		return true, c.signal.SetNetSignal(c.next)
	})
}

func (c *CompSigInstSetNetSignal) Undo() error {
	return c.RunUndo(func() error { return c.signal.SetNetSignal(c.old) })
}

func (c *CompSigInstSetNetSignal) Redo() error {
	return c.RunRedo(func() error { return c.signal.SetNetSignal(c.next) })
}
