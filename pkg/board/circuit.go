package board

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// NetSignalChange is emitted when a component signal is rebound from one net
// to another. Either side may be nil.
type NetSignalChange struct {
	From, To *NetSignal
}

// NetSignal is an electrical net of the circuit.
type NetSignal struct {
	OnNameChanged signal.Signal[types.CircuitIdentifier]

	uuid    types.Identifier
	name    types.CircuitIdentifier
	circuit *Circuit
	users   []*ComponentSignalInstance
}

// NewNetSignal creates a net that is not yet part of a circuit.
func NewNetSignal(uuid types.Identifier, name types.CircuitIdentifier) *NetSignal {
	return &NetSignal{uuid: uuid, name: name}
}

func (n *NetSignal) UUID() types.Identifier { return n.uuid }
func (n *NetSignal) Name() types.CircuitIdentifier { return n.name }
func (n *NetSignal) Circuit() *Circuit { return n.circuit }

// ComponentSignals returns the component signals bound to the net.
func (n *NetSignal) ComponentSignals() []*ComponentSignalInstance { return n.users }

// IsUsed reports whether any component signal is bound to the net.
func (n *NetSignal) IsUsed() bool { return len(n.users) > 0 }

// SetName renames the net. Names are unique within a circuit.
func (n *NetSignal) SetName(name types.CircuitIdentifier) (bool, error) {
	if name == n.name {
		return false, nil
	}
	if n.circuit != nil {
		if other := n.circuit.NetSignalByName(name.String()); other != nil {
			return false, docerr.Lifecycle("board.NetSignal.SetName", n.uuid, docerr.ErrAlreadyRegistered,
				"net name %q is taken by %s", name, other.uuid)
		}
	}
	n.name = name
	n.OnNameChanged.Notify(name)
	return true, nil
}

// ComponentInstance is a placed instance of a library component.
type ComponentInstance struct {
	uuid      types.Identifier
	name      types.CircuitIdentifier
	lib       *library.Component
	signals   []*ComponentSignalInstance
	circuit   *Circuit
	placement *Device
}

// NewComponentInstance creates an instance with one unconnected signal
// instance per library signal.
func NewComponentInstance(uuid types.Identifier, name types.CircuitIdentifier, lib *library.Component) *ComponentInstance {
	ci := &ComponentInstance{uuid: uuid, name: name, lib: lib}
	for _, s := range lib.Signals {
		ci.signals = append(ci.signals, &ComponentSignalInstance{component: ci, lib: s})
	}
	return ci
}

func (c *ComponentInstance) UUID() types.Identifier { return c.uuid }
func (c *ComponentInstance) Name() types.CircuitIdentifier { return c.name }
func (c *ComponentInstance) LibComponent() *library.Component { return c.lib }
func (c *ComponentInstance) Signals() []*ComponentSignalInstance { return c.signals }

// Device returns the board device placing this instance, or nil.
func (c *ComponentInstance) Device() *Device { return c.placement }

// Signal returns the instance of a library signal.
func (c *ComponentInstance) Signal(uuid types.Identifier) (*ComponentSignalInstance, bool) {
	i := slices.IndexFunc(c.signals, func(s *ComponentSignalInstance) bool { return s.lib.UUID == uuid })
	if i < 0 {
		return nil, false
	}
	return c.signals[i], true
}

// SignalByName returns the instance of the library signal with that name.
func (c *ComponentInstance) SignalByName(name string) (*ComponentSignalInstance, bool) {
	i := slices.IndexFunc(c.signals, func(s *ComponentSignalInstance) bool { return s.lib.Name.String() == name })
	if i < 0 {
		return nil, false
	}
	return c.signals[i], true
}

func (c *ComponentInstance) registerDevice(d *Device) error {
	if c.placement != nil && c.placement != d {
		return docerr.Lifecycle("board.ComponentInstance.registerDevice", c.uuid, docerr.ErrAlreadyRegistered,
			"component instance is already placed by device %s", c.placement.UUID())
	}
	c.placement = d
	return nil
}

func (c *ComponentInstance) unregisterDevice(d *Device) error {
	if c.placement != d {
		return docerr.Lifecycle("board.ComponentInstance.unregisterDevice", c.uuid, docerr.ErrNotRegistered,
			"device %s does not place this component instance", d.UUID())
	}
	c.placement = nil
	return nil
}

// ComponentSignalInstance binds one signal of a component instance to a net.
type ComponentSignalInstance struct {
	OnNetSignalChanged signal.Signal[NetSignalChange]

	component *ComponentInstance
	lib       library.ComponentSignal
	net       *NetSignal
	pads      []*FootprintPad
}

// UUID returns the library signal identifier.
func (s *ComponentSignalInstance) UUID() types.Identifier { return s.lib.UUID }
func (s *ComponentSignalInstance) Name() types.CircuitIdentifier { return s.lib.Name }
func (s *ComponentSignalInstance) ComponentInstance() *ComponentInstance { return s.component }
func (s *ComponentSignalInstance) NetSignal() *NetSignal { return s.net }

// RegisteredPads returns the attached footprint pads connected to the signal.
func (s *ComponentSignalInstance) RegisteredPads() []*FootprintPad { return s.pads }

// SetNetSignal rebinds the signal. It fails while any registered pad carries
// net lines, and emits exactly one NetSignalChange on success.
func (s *ComponentSignalInstance) SetNetSignal(net *NetSignal) error {
	const op = "board.ComponentSignalInstance.SetNetSignal"
	if net == s.net {
		return nil
	}
	if net != nil && (s.component.circuit == nil || net.circuit != s.component.circuit) {
		return docerr.Lifecycle(op, net.uuid, docerr.ErrNotRegistered,
			"net signal must belong to the circuit of component %s", s.component.uuid)
	}
	for _, p := range s.pads {
		if p.IsUsed() {
			return docerr.Lifecycle(op, s.lib.UUID, docerr.ErrInUse,
				"pad %s carries net lines", p.UUID())
		}
	}
	from := s.net
	if from != nil {
		from.users = slices.DeleteFunc(from.users, func(o *ComponentSignalInstance) bool { return o == s })
	}
	if net != nil {
		net.users = append(net.users, s)
	}
	s.net = net
	s.OnNetSignalChanged.Notify(NetSignalChange{From: from, To: net})
	return nil
}

func (s *ComponentSignalInstance) registerPad(p *FootprintPad) error {
	if slices.Contains(s.pads, p) {
		return docerr.Lifecycle("board.ComponentSignalInstance.registerPad", p.UUID(), docerr.ErrAlreadyRegistered,
			"pad is already registered with signal %s", s.lib.UUID)
	}
	s.pads = append(s.pads, p)
	return nil
}

func (s *ComponentSignalInstance) unregisterPad(p *FootprintPad) error {
	if !slices.Contains(s.pads, p) {
		return docerr.Lifecycle("board.ComponentSignalInstance.unregisterPad", p.UUID(), docerr.ErrNotRegistered,
			"pad is not registered with signal %s", s.lib.UUID)
	}
	s.pads = slices.DeleteFunc(s.pads, func(o *FootprintPad) bool { return o == p })
	return nil
}

// Circuit holds the nets and component instances of a project.
type Circuit struct {
	nets       []*NetSignal
	components []*ComponentInstance
}

// NewCircuit creates an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

func (c *Circuit) NetSignals() []*NetSignal { return c.nets }
func (c *Circuit) ComponentInstances() []*ComponentInstance { return c.components }

// NetSignal looks up a net by identifier.
func (c *Circuit) NetSignal(uuid types.Identifier) *NetSignal {
	i := slices.IndexFunc(c.nets, func(n *NetSignal) bool { return n.uuid == uuid })
	if i < 0 {
		return nil
	}
	return c.nets[i]
}

// NetSignalByName looks up a net by name.
func (c *Circuit) NetSignalByName(name string) *NetSignal {
	i := slices.IndexFunc(c.nets, func(n *NetSignal) bool { return n.name.String() == name })
	if i < 0 {
		return nil
	}
	return c.nets[i]
}

// ComponentInstance looks up a component instance by identifier.
func (c *Circuit) ComponentInstance(uuid types.Identifier) *ComponentInstance {
	i := slices.IndexFunc(c.components, func(ci *ComponentInstance) bool { return ci.uuid == uuid })
	if i < 0 {
		return nil
	}
	return c.components[i]
}

// ComponentInstanceByName looks up a component instance by name, e.g. "R1".
func (c *Circuit) ComponentInstanceByName(name string) *ComponentInstance {
	i := slices.IndexFunc(c.components, func(ci *ComponentInstance) bool { return ci.name.String() == name })
	if i < 0 {
		return nil
	}
	return c.components[i]
}

// AddNetSignal registers a net. Identifiers and names must be unique.
func (c *Circuit) AddNetSignal(n *NetSignal) error {
	return c.InsertNetSignal(-1, n)
}

// InsertNetSignal registers a net at index; a negative or too large index
// appends.
func (c *Circuit) InsertNetSignal(index int, n *NetSignal) error {
	const op = "board.Circuit.AddNetSignal"
	if n.circuit != nil || c.NetSignal(n.uuid) != nil {
		return docerr.Lifecycle(op, n.uuid, docerr.ErrAlreadyRegistered, "net signal is already part of a circuit")
	}
	if c.NetSignalByName(n.name.String()) != nil {
		return docerr.Lifecycle(op, n.uuid, docerr.ErrAlreadyRegistered, "net name %q is taken", n.name)
	}
	if index < 0 || index > len(c.nets) {
		index = len(c.nets)
	}
	n.circuit = c
	c.nets = slices.Insert(c.nets, index, n)
	return nil
}

// RemoveNetSignal unregisters a net that no component signal uses and
// returns its former index.
func (c *Circuit) RemoveNetSignal(n *NetSignal) (int, error) {
	const op = "board.Circuit.RemoveNetSignal"
	i := slices.Index(c.nets, n)
	if n.circuit != c || i < 0 {
		return -1, docerr.Lifecycle(op, n.uuid, docerr.ErrNotRegistered, "net signal is not part of this circuit")
	}
	if n.IsUsed() {
		return -1, docerr.Lifecycle(op, n.uuid, docerr.ErrInUse, "net signal is bound to %d component signals", len(n.users))
	}
	c.nets = slices.Delete(c.nets, i, i+1)
	n.circuit = nil
	return i, nil
}

// AddComponentInstance registers a component instance with a unique name.
func (c *Circuit) AddComponentInstance(ci *ComponentInstance) error {
	const op = "board.Circuit.AddComponentInstance"
	if ci.circuit != nil || c.ComponentInstance(ci.uuid) != nil {
		return docerr.Lifecycle(op, ci.uuid, docerr.ErrAlreadyRegistered, "component instance is already part of a circuit")
	}
	if c.ComponentInstanceByName(ci.name.String()) != nil {
		return docerr.Lifecycle(op, ci.uuid, docerr.ErrAlreadyRegistered, "component name %q is taken", ci.name)
	}
	ci.circuit = c
	c.components = append(c.components, ci)
	return nil
}

// RemoveComponentInstance unregisters a component instance that is neither
// placed on a board nor connected to any net.
func (c *Circuit) RemoveComponentInstance(ci *ComponentInstance) error {
	const op = "board.Circuit.RemoveComponentInstance"
	if ci.circuit != c {
		return docerr.Lifecycle(op, ci.uuid, docerr.ErrNotRegistered, "component instance is not part of this circuit")
	}
	if ci.placement != nil {
		return docerr.Lifecycle(op, ci.uuid, docerr.ErrInUse, "component instance is placed by device %s", ci.placement.UUID())
	}
	for _, s := range ci.signals {
		if s.net != nil {
			return docerr.Lifecycle(op, ci.uuid, docerr.ErrInUse, "signal %s is connected to net %s", s.lib.Name, s.net.name)
		}
	}
	c.components = slices.DeleteFunc(c.components, func(o *ComponentInstance) bool { return o == ci })
	ci.circuit = nil
	return nil
}

// Serialize writes "(circuit (netsignal ..)... (component ..)...)".
func (c *Circuit) Serialize() *sexp.Node {
	n := sexp.NewList("circuit")
	for _, net := range c.nets {
		n.AppendList("netsignal", sexp.Stringer(net.uuid)).AppendList("name", sexp.String(net.name.String()))
	}
	for _, ci := range c.components {
		cn := n.AppendList("component", sexp.Stringer(ci.uuid))
		cn.AppendList("name", sexp.String(ci.name.String()))
		cn.AppendList("lib_component", sexp.Stringer(ci.lib.UUID))
		for _, s := range ci.signals {
			var net types.Identifier
			if s.net != nil {
				net = s.net.uuid
			}
			cn.AppendList("signal", sexp.Stringer(s.lib.UUID)).AppendList("net", sexp.Stringer(net))
		}
	}
	return n
}

// DeserializeCircuit reads a circuit written by Serialize, resolving library
// components in lib.
func DeserializeCircuit(n *sexp.Node, _ types.Version, lib *library.Library) (*Circuit, error) {
	const op = "board.DeserializeCircuit"
	c := NewCircuit()
	for _, nn := range n.ChildrenNamed("netsignal") {
		r := sexp.NewReader(nn, op)
		net := NewNetSignal(r.Identifier("@0"), r.CircuitIdentifier("name/@0"))
		if err := r.Err(); err != nil {
			return nil, err
		}
		if err := c.AddNetSignal(net); err != nil {
			return nil, err
		}
	}
	for _, cn := range n.ChildrenNamed("component") {
		r := sexp.NewReader(cn, op)
		uuid := r.Identifier("@0")
		name := r.CircuitIdentifier("name/@0")
		libUUID := r.Identifier("lib_component/@0")
		if err := r.Err(); err != nil {
			return nil, err
		}
		libCmp, ok := lib.Component(libUUID)
		if !ok {
			return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "library component %s not found", libUUID)
		}
		ci := NewComponentInstance(uuid, name, libCmp)
		if err := c.AddComponentInstance(ci); err != nil {
			return nil, err
		}
		for _, sn := range cn.ChildrenNamed("signal") {
			sr := sexp.NewReader(sn, op)
			sigUUID := sr.Identifier("@0")
			netUUID := sr.Identifier("net/@0")
			if err := sr.Err(); err != nil {
				return nil, err
			}
			sig, ok := ci.Signal(sigUUID)
			if !ok {
				return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "signal %s not in library component %s", sigUUID, libUUID)
			}
			if netUUID.IsNil() {
				continue
			}
			net := c.NetSignal(netUUID)
			if net == nil {
				return nil, docerr.Structural(op, uuid, docerr.ErrNotFound, "net signal %s not found", netUUID)
			}
			if err := sig.SetNetSignal(net); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
