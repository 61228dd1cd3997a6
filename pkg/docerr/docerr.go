// Package docerr defines the error taxonomy of the document model.
//
// Every error returned by a structural operation is a *Error carrying its
// Kind, the operation, the entity it concerns and the invariant that was
// violated. An *Error matches both its specific sentinel and its class
// sentinel with errors.Is:
//
//	if errors.Is(err, docerr.ErrStructuralValidation) { ... }
//	if errors.Is(err, docerr.ErrDanglingPackagePad) { ... }
package docerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindStructuralValidation: malformed library or file input. The object
	// under construction is discarded.
	KindStructuralValidation
	// KindLifecycleViolation: an item was attached, detached or registered in
	// the wrong state. The document is left unchanged.
	KindLifecycleViolation
	// KindStackDiscipline: the undo stack was driven in an illegal order.
	KindStackDiscipline
)

func (k Kind) String() string {
	switch k {
	case KindStructuralValidation:
		return "structural validation"
	case KindLifecycleViolation:
		return "lifecycle violation"
	case KindStackDiscipline:
		return "stack discipline"
	default:
		return "unknown"
	}
}

// Class sentinels.
var (
	ErrStructuralValidation = errors.New("structural validation")
	ErrLifecycleViolation   = errors.New("lifecycle violation")
	ErrStackDiscipline      = errors.New("stack discipline")
)

func (k Kind) sentinel() error {
	switch k {
	case KindStructuralValidation:
		return ErrStructuralValidation
	case KindLifecycleViolation:
		return ErrLifecycleViolation
	case KindStackDiscipline:
		return ErrStackDiscipline
	default:
		return nil
	}
}

// Structural validation sentinels.
var (
	ErrDuplicatePadIdentifier = errors.New("duplicate pad identifier")
	ErrDanglingPackagePad     = errors.New("dangling package pad")
	ErrUnmappedSignal         = errors.New("unmapped signal")
	ErrNotFound               = errors.New("referenced element not found")
	ErrInvalidValue           = errors.New("invalid value")
)

// Lifecycle sentinels.
var (
	ErrAlreadyAttached   = errors.New("already attached")
	ErrNotAttached       = errors.New("not attached")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrInUse             = errors.New("in use")
	ErrForeignBoard      = errors.New("belongs to another board")
)

// Stack discipline sentinels.
var (
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrGroupOpen       = errors.New("a command group is open")
	ErrNoGroupOpen     = errors.New("no command group is open")
	ErrAlreadyExecuted = errors.New("command already executed")
)

// Error is the concrete error type of the document model.
type Error struct {
	Kind      Kind
	Op        string           // operation, e.g. "board.Footprint.AddToBoard"
	Entity    types.Identifier // entity concerned, NilIdentifier if none
	Invariant string           // human readable description of the violated rule
	Err       error            // specific sentinel or underlying cause
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if !e.Entity.IsNil() {
		fmt.Fprintf(&b, " [%s]", e.Entity)
	}
	if e.Invariant != "" {
		b.WriteString(" (")
		b.WriteString(e.Invariant)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes both the specific cause and the class sentinel.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	return errs
}

// Structural builds a KindStructuralValidation error.
func Structural(op string, entity types.Identifier, err error, format string, args ...any) *Error {
	return &Error{Kind: KindStructuralValidation, Op: op, Entity: entity, Err: err, Invariant: fmt.Sprintf(format, args...)}
}

// Lifecycle builds a KindLifecycleViolation error.
func Lifecycle(op string, entity types.Identifier, err error, format string, args ...any) *Error {
	return &Error{Kind: KindLifecycleViolation, Op: op, Entity: entity, Err: err, Invariant: fmt.Sprintf(format, args...)}
}

// Stack builds a KindStackDiscipline error.
func Stack(op string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindStackDiscipline, Op: op, Err: err, Invariant: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
