// Package library holds the library elements a board is built from:
// packages with their footprints, components with their signals, and devices
// binding a component to a package.
//
// Board code treats every element here as an immutable input. The package
// editor, on the other hand, edits footprints in place through the commands in
// pkg/editor/cmd, which is why footprint pads and stroke texts carry setters
// and change notifications.
package library
