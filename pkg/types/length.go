package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Length is a distance in nanometres.
type Length int64

const (
	Nanometre  Length = 1
	Micrometre Length = 1000
	Millimetre Length = 1000000
)

// LengthFromMM converts millimetres to a Length, rounding to the nearest
// nanometre.
func LengthFromMM(mm float64) Length {
	return Length(math.Round(mm * float64(Millimetre)))
}

// ParseLength parses a decimal millimetre value such as "1.5" or "-0.000001"
// without going through floating point.
func ParseLength(s string) (Length, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, fmt.Errorf("invalid length %q: empty", s)
	}
	neg := false
	switch str[0] {
	case '-':
		neg = true
		str = str[1:]
	case '+':
		str = str[1:]
	}
	intPart, fracPart, _ := strings.Cut(str, ".")
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid length %q: no digits", s)
	}
	if len(fracPart) > 6 {
		return 0, fmt.Errorf("invalid length %q: more than 6 decimal places", s)
	}
	var whole int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid length %q", s)
		}
		whole = v
	}
	var frac int64
	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", 6-len(fracPart))
		v, err := strconv.ParseInt(padded, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid length %q", s)
		}
		frac = v
	}
	if whole > math.MaxInt64/int64(Millimetre) {
		return 0, fmt.Errorf("invalid length %q: out of range", s)
	}
	nm := whole*int64(Millimetre) + frac
	if neg {
		nm = -nm
	}
	return Length(nm), nil
}

// MM returns the length in millimetres.
func (l Length) MM() float64 {
	return float64(l) / float64(Millimetre)
}

// Abs returns the absolute value.
func (l Length) Abs() Length {
	if l < 0 {
		return -l
	}
	return l
}

// String formats the length in millimetres with trailing zeros removed, e.g.
// "1.5" or "0.0".
func (l Length) String() string {
	nm := int64(l)
	sign := ""
	if nm < 0 {
		sign = "-"
		nm = -nm
	}
	whole := nm / int64(Millimetre)
	frac := nm % int64(Millimetre)
	fs := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	if fs == "" {
		fs = "0"
	}
	return fmt.Sprintf("%s%d.%s", sign, whole, fs)
}

// MappedToGrid rounds l to the nearest multiple of interval.
func (l Length) MappedToGrid(interval Length) Length {
	if interval <= 0 {
		return l
	}
	rem := l % interval
	if rem < 0 {
		rem += interval
	}
	base := l - rem
	if rem*2 >= interval {
		return base + interval
	}
	return base
}

// PositiveLength is a Length greater than zero.
type PositiveLength struct{ v Length }

// NewPositiveLength validates l > 0.
func NewPositiveLength(l Length) (PositiveLength, error) {
	if l <= 0 {
		return PositiveLength{}, fmt.Errorf("length %s must be positive", l)
	}
	return PositiveLength{v: l}, nil
}

// MustPositiveLength panics if l <= 0.
func MustPositiveLength(l Length) PositiveLength {
	p, err := NewPositiveLength(l)
	if err != nil {
		panic(err)
	}
	return p
}

// Length returns the underlying value.
func (p PositiveLength) Length() Length { return p.v }

func (p PositiveLength) String() string { return p.v.String() }

// UnsignedLength is a Length greater than or equal to zero.
type UnsignedLength struct{ v Length }

// NewUnsignedLength validates l >= 0.
func NewUnsignedLength(l Length) (UnsignedLength, error) {
	if l < 0 {
		return UnsignedLength{}, fmt.Errorf("length %s must not be negative", l)
	}
	return UnsignedLength{v: l}, nil
}

// MustUnsignedLength panics if l < 0.
func MustUnsignedLength(l Length) UnsignedLength {
	u, err := NewUnsignedLength(l)
	if err != nil {
		panic(err)
	}
	return u
}

// Length returns the underlying value.
func (u UnsignedLength) Length() Length { return u.v }

func (u UnsignedLength) String() string { return u.v.String() }
