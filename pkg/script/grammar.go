// Package script runs edit scripts against an open project.
//
// A script is a sequence of statements. Statements outside a begin/commit
// block each become one undo step; statements inside a block are collected
// into a single step:
//
//	# move the resistor and hook it up
//	begin "Place R1"
//	place R1 10 5
//	rotate R1 90
//	connect R1 1 VCC
//	commit
//	route R1.1 R2.1 0.25
//	undo
//
// Lengths are in millimetres and angles in degrees.
package script

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},
	{Name: "Punct", Pattern: `[.;]`},
})

// Script is a parsed edit script.
type Script struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one line of a script. Exactly one field is set.
type Statement struct {
	Pos lexer.Position

	Begin      *string     `parser:"(  'begin' @String"`
	Commit     bool        `parser:" | @'commit'"`
	Abort      bool        `parser:" | @'abort'"`
	Undo       bool        `parser:" | @'undo'"`
	Redo       bool        `parser:" | @'redo'"`
	Move       *Move       `parser:" | 'move' @@"`
	Place      *Place      `parser:" | 'place' @@"`
	Rotate     *Rotate     `parser:" | 'rotate' @@"`
	Mirror     *Mirror     `parser:" | 'mirror' @@"`
	Connect    *Connect    `parser:" | 'connect' @@"`
	Disconnect *Disconnect `parser:" | 'disconnect' @@"`
	RenameNet  *RenameNet  `parser:" | 'rename-net' @@"`
	Text       *Text       `parser:" | 'text' @@"`
	Route      *Route      `parser:" | 'route' @@ ) ';'?"`
}

// Move translates a device by (DX, DY).
type Move struct {
	Device string `parser:"@(Ident | String)"`
	DX     string `parser:"@Number"`
	DY     string `parser:"@Number"`
}

// Place puts a device at (X, Y).
type Place struct {
	Device string `parser:"@(Ident | String)"`
	X      string `parser:"@Number"`
	Y      string `parser:"@Number"`
}

// Rotate turns a device around its own position, counter-clockwise.
type Rotate struct {
	Device string `parser:"@(Ident | String)"`
	Angle  string `parser:"@Number"`
}

// Mirror flips a device to the other board side.
type Mirror struct {
	Device string `parser:"@(Ident | String)"`
}

// Connect binds a component signal to a net. Missing nets are created.
type Connect struct {
	Device string `parser:"@(Ident | String)"`
	Signal string `parser:"@(Ident | String | Number)"`
	Net    string `parser:"@(Ident | String | Number)"`
}

// Disconnect unbinds a component signal.
type Disconnect struct {
	Device string `parser:"@(Ident | String)"`
	Signal string `parser:"@(Ident | String | Number)"`
}

// RenameNet renames a net.
type RenameNet struct {
	From string `parser:"@(Ident | String | Number)"`
	To   string `parser:"@(Ident | String | Number)"`
}

// Text adds a text to a device's footprint.
type Text struct {
	Device string `parser:"@(Ident | String)"`
	Value  string `parser:"@String"`
}

// Route draws a net line between two pads.
type Route struct {
	From  PadRef `parser:"@@"`
	To    PadRef `parser:"@@"`
	Width string `parser:"@Number"`
	Layer string `parser:"( 'on' @Ident )?"`
}

// PadRef names a pad as <device>.<package pad>.
type PadRef struct {
	Device string `parser:"@(Ident | String)"`
	Pad    string `parser:"'.' @(Ident | String | Number)"`
}

func (r PadRef) String() string { return r.Device + "." + r.Pad }

var parser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse reads a script. name is used in error positions.
func Parse(name string, r io.Reader) (*Script, error) {
	s, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return s, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(name, src string) (*Script, error) {
	s, err := parser.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return s, nil
}
