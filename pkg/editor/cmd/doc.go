// Package cmd holds the undoable commands editors use to change library
// footprints and boards.
//
// Insert/add/remove commands record where an element was so Undo and Redo
// restore the exact order. Edit commands capture the old state on creation;
// their setters change the new state and, with immediate set, preview it on
// the element right away. An edit command that is never executed must be
// reverted with Revert to drop such previews.
package cmd
