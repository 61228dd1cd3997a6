package types

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var circuitIdentifierRe = regexp.MustCompile(`^[-a-zA-Z0-9_+/!?@#$]{1,32}$`)

// CircuitIdentifier is a name usable in netlists: pad names, signal names,
// net names.
type CircuitIdentifier struct{ v string }

// NewCircuitIdentifier validates s.
func NewCircuitIdentifier(s string) (CircuitIdentifier, error) {
	if !circuitIdentifierRe.MatchString(s) {
		return CircuitIdentifier{}, fmt.Errorf("invalid circuit identifier %q", s)
	}
	return CircuitIdentifier{v: s}, nil
}

// MustCircuitIdentifier panics if s is not valid.
func MustCircuitIdentifier(s string) CircuitIdentifier {
	c, err := NewCircuitIdentifier(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CircuitIdentifier) String() string { return c.v }

const maxElementNameLength = 100

// ElementName is a human readable, single line, non-empty name.
type ElementName struct{ v string }

// NewElementName validates s.
func NewElementName(s string) (ElementName, error) {
	switch {
	case strings.TrimSpace(s) == "":
		return ElementName{}, fmt.Errorf("element name must not be empty")
	case strings.ContainsAny(s, "\r\n"):
		return ElementName{}, fmt.Errorf("element name %q must be a single line", s)
	case utf8.RuneCountInString(s) > maxElementNameLength:
		return ElementName{}, fmt.Errorf("element name %q exceeds %d characters", s, maxElementNameLength)
	}
	return ElementName{v: s}, nil
}

// MustElementName panics if s is not valid.
func MustElementName(s string) ElementName {
	n, err := NewElementName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n ElementName) String() string { return n.v }
