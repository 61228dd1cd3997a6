// Package project loads, edits and saves board documents.
//
// A document file holds one project:
//
//	(project <uuid> (name "demo") (format "0.2")
//	  (library ...)
//	  (circuit ...)
//	  (board ...))
//
// Every open project owns exactly one undo stack. All edits go through it,
// and every change of the stack ends with an air-wire rebuild of the nets
// the change touched.
package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

var (
	// FormatVersion is the version written by Save by default.
	FormatVersion = types.MustParseVersion("0.2")
	// OldestFormat is the oldest version Load accepts.
	OldestFormat = types.MustParseVersion("0.1")
	// OldestWritableFormat is the oldest version Save can produce. Format 0.1
	// identifies package pads by the footprint pad identifier and cannot
	// express arbitrary pad assignments.
	OldestWritableFormat = types.MustParseVersion("0.2")

	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrClosed            = errors.New("project is closed")
)

type options struct {
	logger *slog.Logger
	scene  board.Scene
}

// Option configures how a project is opened.
type Option func(*options)

// WithLogger sets the logger passed to the board and the undo stack.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScene sets the graphics hook of the board.
func WithScene(s board.Scene) Option {
	return func(o *options) { o.scene = s }
}

// Project is one open document.
type Project struct {
	UUID      types.Identifier
	Name      types.ElementName
	Library   *library.Library
	Circuit   *board.Circuit
	Board     *board.Board
	UndoStack *undo.Stack

	format types.Version
	path   string
	logger *slog.Logger
	closed bool
}

func resolve(opts []Option) options {
	o := options{logger: slog.Default(), scene: board.NopScene{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates an empty project around lib.
func New(name types.ElementName, lib *library.Library, opts ...Option) *Project {
	o := resolve(opts)
	circuit := board.NewCircuit()
	b := board.New(types.NewIdentifier(), name, lib, circuit, board.WithScene(o.scene), board.WithLogger(o.logger))
	return newProject(types.NewIdentifier(), name, lib, circuit, b, FormatVersion, o)
}

func newProject(uuid types.Identifier, name types.ElementName, lib *library.Library, circuit *board.Circuit,
	b *board.Board, format types.Version, o options) *Project {
	p := &Project{
		UUID:      uuid,
		Name:      name,
		Library:   lib,
		Circuit:   circuit,
		Board:     b,
		UndoStack: undo.NewStack(undo.WithLogger(o.logger)),
		format:    format,
		logger:    o.logger,
	}
	b.RebuildAirWires()
	p.UndoStack.OnChanged.Attach(func(undo.State) { b.RebuildAirWires() })
	return p
}

// Load reads a document. Every item is validated as if it had been created
// interactively.
func Load(r io.Reader, opts ...Option) (*Project, error) {
	n, err := sexp.Parse(r)
	if err != nil {
		return nil, err
	}
	return Deserialize(n, opts...)
}

// Open loads the document at path.
func Open(path string, opts ...Option) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	defer f.Close()

	p, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.path = path
	p.logger.Info("project opened", "path", path, "format", p.format, "devices", len(p.Board.Devices()))
	return p, nil
}

// Deserialize builds a project from a parsed document.
func Deserialize(n *sexp.Node, opts ...Option) (*Project, error) {
	if n.Name() != "project" {
		return nil, fmt.Errorf("line %d: expected project, got %q", n.Line(), n.Name())
	}
	r := sexp.NewReader(n, "project.Deserialize")
	uuid := r.Identifier("@0")
	name := r.ElementName("name/@0")
	formatText := r.String("format/@0")
	if err := r.Err(); err != nil {
		return nil, err
	}
	format, err := types.ParseVersion(formatText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if !format.AtLeast(OldestFormat) || format.Compare(FormatVersion) > 0 {
		return nil, fmt.Errorf("%w: %s (supported %s to %s)", ErrUnsupportedFormat, format, OldestFormat, FormatVersion)
	}

	section := func(name string) (*sexp.Node, error) {
		c := n.TryChild(name)
		if c == nil {
			return nil, fmt.Errorf("line %d: project: missing %s section", n.Line(), name)
		}
		return c, nil
	}
	o := resolve(opts)

	ln, err := section("library")
	if err != nil {
		return nil, err
	}
	lib, err := library.Deserialize(ln, format)
	if err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	cn, err := section("circuit")
	if err != nil {
		return nil, err
	}
	circuit, err := board.DeserializeCircuit(cn, format, lib)
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}
	bn, err := section("board")
	if err != nil {
		return nil, err
	}
	b, err := board.Deserialize(bn, format, lib, circuit, board.WithScene(o.scene), board.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	return newProject(uuid, name, lib, circuit, b, format, o), nil
}

// Format returns the version the document was read with.
func (p *Project) Format() types.Version { return p.format }

// Path returns the file the project was opened from, if any.
func (p *Project) Path() string { return p.path }

// IsModified reports whether there are edits since the last save.
func (p *Project) IsModified() bool { return !p.UndoStack.IsClean() }

// IsClosed reports whether Close was called.
func (p *Project) IsClosed() bool { return p.closed }

// Serialize builds the document tree stamped with version.
func (p *Project) Serialize(version types.Version) *sexp.Node {
	n := sexp.NewList("project", sexp.Stringer(p.UUID))
	n.AppendList("name", sexp.String(p.Name.String()))
	n.AppendList("format", sexp.String(version.String()))
	n.Append(p.Library.Serialize(), p.Circuit.Serialize(), p.Board.Serialize())
	return n
}

// Save writes the document in the given format and marks the undo stack
// clean. A command group must not be open.
func (p *Project) Save(w io.Writer, version types.Version) error {
	if p.closed {
		return ErrClosed
	}
	if !version.AtLeast(OldestWritableFormat) || version.Compare(FormatVersion) > 0 {
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, version)
	}
	if p.UndoStack.IsGroupOpen() {
		return fmt.Errorf("project.Save: a command group is open")
	}
	if err := p.Serialize(version).Write(w); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	p.UndoStack.SetClean()
	return nil
}

// SaveFile writes the document to path, replacing the file only once the
// new content is complete.
func (p *Project) SaveFile(path string, version types.Version) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pcbdoc-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := p.Save(tmp, version); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	p.path = path
	return nil
}

// Close aborts an open command group and drops the undo history. The
// project must not be used afterwards.
func (p *Project) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.UndoStack.Clear()
	p.logger.Debug("project closed", "uuid", p.UUID)
	return err
}
