package types

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// Identifier is an opaque, randomly generated 128-bit identifier.
type Identifier struct {
	u uuid.UUID
}

// NilIdentifier is the zero Identifier. It stands for "no identifier".
var NilIdentifier = Identifier{}

// NewIdentifier returns a fresh random identifier.
func NewIdentifier() Identifier {
	return Identifier{u: uuid.New()}
}

// ParseIdentifier parses the canonical 36 character form. The literal "none"
// parses to NilIdentifier.
func ParseIdentifier(s string) (Identifier, error) {
	if s == "none" {
		return NilIdentifier, nil
	}
	if len(s) != 36 {
		return NilIdentifier, fmt.Errorf("invalid identifier %q: expected 36 characters", s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return NilIdentifier, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return Identifier{u: u}, nil
}

// MustParseIdentifier is like ParseIdentifier but panics on error. Intended
// for constants in tests and fixtures.
func MustParseIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsNil reports whether id is the reserved "none" value.
func (id Identifier) IsNil() bool {
	return id.u == uuid.Nil
}

// String returns the canonical lowercase form, or "none" for NilIdentifier.
func (id Identifier) String() string {
	if id.IsNil() {
		return "none"
	}
	return id.u.String()
}

// Compare orders identifiers by their raw bytes.
func (id Identifier) Compare(other Identifier) int {
	return bytes.Compare(id.u[:], other.u[:])
}
