package library

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Library is the set of library elements a project uses. Elements keep the
// order they were added in.
type Library struct {
	components []*Component
	packages   []*Package
	devices    []*Device
	byUUID     map[types.Identifier]any
}

// New creates an empty library.
func New() *Library {
	return &Library{byUUID: make(map[types.Identifier]any)}
}

func (l *Library) add(op string, uuid types.Identifier, el any) error {
	if _, dup := l.byUUID[uuid]; dup {
		return docerr.Structural(op, uuid, docerr.ErrAlreadyRegistered, "library element identifiers must be unique")
	}
	l.byUUID[uuid] = el
	return nil
}

// AddComponent adds c. Identifiers must be unique across the library.
func (l *Library) AddComponent(c *Component) error {
	if err := l.add("library.AddComponent", c.UUID, c); err != nil {
		return err
	}
	l.components = append(l.components, c)
	return nil
}

// AddPackage adds p.
func (l *Library) AddPackage(p *Package) error {
	if err := l.add("library.AddPackage", p.UUID, p); err != nil {
		return err
	}
	l.packages = append(l.packages, p)
	return nil
}

// AddDevice adds d.
func (l *Library) AddDevice(d *Device) error {
	if err := l.add("library.AddDevice", d.UUID, d); err != nil {
		return err
	}
	l.devices = append(l.devices, d)
	return nil
}

func (l *Library) Components() []*Component { return l.components }
func (l *Library) Packages() []*Package { return l.packages }
func (l *Library) Devices() []*Device { return l.devices }

func (l *Library) Component(uuid types.Identifier) (*Component, bool) {
	c, ok := l.byUUID[uuid].(*Component)
	return c, ok
}

func (l *Library) Package(uuid types.Identifier) (*Package, bool) {
	p, ok := l.byUUID[uuid].(*Package)
	return p, ok
}

func (l *Library) Device(uuid types.Identifier) (*Device, bool) {
	d, ok := l.byUUID[uuid].(*Device)
	return d, ok
}

// Serialize writes "(library (component ..)... (package ..)... (device ..)...)".
func (l *Library) Serialize() *sexp.Node {
	n := sexp.NewList("library")
	for _, c := range l.components {
		n.Append(c.Serialize())
	}
	for _, p := range l.packages {
		n.Append(p.Serialize())
	}
	for _, d := range l.devices {
		n.Append(d.Serialize())
	}
	return n
}

// Deserialize reads a library written by Serialize. Devices must reference
// a component and a package of the same library.
func Deserialize(n *sexp.Node, format types.Version) (*Library, error) {
	l := New()
	for _, c := range n.ChildrenNamed("component") {
		el, err := DeserializeComponent(c, format)
		if err != nil {
			return nil, err
		}
		if err := l.AddComponent(el); err != nil {
			return nil, err
		}
	}
	for _, c := range n.ChildrenNamed("package") {
		el, err := DeserializePackage(c, format)
		if err != nil {
			return nil, err
		}
		if err := l.AddPackage(el); err != nil {
			return nil, err
		}
	}
	for _, c := range n.ChildrenNamed("device") {
		el, err := DeserializeDevice(c, format)
		if err != nil {
			return nil, err
		}
		if _, ok := l.Component(el.Component); !ok {
			return nil, docerr.Structural("library.Deserialize", el.UUID, docerr.ErrNotFound,
				"component %s of device not in library", el.Component)
		}
		if _, ok := l.Package(el.Package); !ok {
			return nil, docerr.Structural("library.Deserialize", el.UUID, docerr.ErrNotFound,
				"package %s of device not in library", el.Package)
		}
		if err := l.AddDevice(el); err != nil {
			return nil, err
		}
	}
	return l, nil
}
