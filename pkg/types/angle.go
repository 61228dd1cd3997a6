package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Angle is a rotation in micro-degrees, counter-clockwise positive.
type Angle int64

const (
	Deg0   Angle = 0
	Deg90  Angle = 90000000
	Deg180 Angle = 180000000
	Deg270 Angle = 270000000
	Deg360 Angle = 360000000
)

// AngleFromDeg converts degrees to an Angle, rounding to the nearest
// micro-degree.
func AngleFromDeg(deg float64) Angle {
	return Angle(math.Round(deg * 1e6))
}

// ParseAngle parses a decimal degree value such as "90.0" or "-45.5".
func ParseAngle(s string) (Angle, error) {
	str := strings.TrimSpace(s)
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid angle %q: %w", s, err)
	}
	return AngleFromDeg(v), nil
}

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 {
	return float64(a) / 1e6
}

// Rad returns the angle in radians.
func (a Angle) Rad() float64 {
	return a.Deg() * math.Pi / 180.0
}

// Mapped0To360 normalises the angle into [0°, 360°).
func (a Angle) Mapped0To360() Angle {
	m := a % Deg360
	if m < 0 {
		m += Deg360
	}
	return m
}

// Inverted returns the negated angle.
func (a Angle) Inverted() Angle {
	return -a
}

// String formats the angle in degrees, e.g. "90.0".
func (a Angle) String() string {
	s := strconv.FormatFloat(a.Deg(), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Add returns a + o.
func (a Angle) Add(o Angle) Angle {
	return a + o
}

// Sub returns a - o.
func (a Angle) Sub(o Angle) Angle {
	return a - o
}
