package types

import (
	"fmt"
	"math"
)

// Orientation selects the axis a mirror operation flips.
type Orientation int

const (
	// Horizontal mirrors left/right (negates x).
	Horizontal Orientation = iota
	// Vertical mirrors top/bottom (negates y).
	Vertical
)

// Point is a position in board coordinates.
type Point struct {
	X Length
	Y Length
}

// NewPoint builds a point from two lengths.
func NewPoint(x, y Length) Point {
	return Point{X: x, Y: y}
}

// PointFromMM builds a point from millimetre values.
func PointFromMM(x, y float64) Point {
	return Point{X: LengthFromMM(x), Y: LengthFromMM(y)}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsOrigin reports whether p is (0, 0).
func (p Point) IsOrigin() bool {
	return p.X == 0 && p.Y == 0
}

// Rotated rotates p counter-clockwise around center. Multiples of 90° are
// computed exactly.
func (p Point) Rotated(angle Angle, center Point) Point {
	a := angle.Mapped0To360()
	if a == 0 {
		return p
	}
	dx := p.X - center.X
	dy := p.Y - center.Y
	switch a {
	case Deg90:
		return Point{X: center.X - dy, Y: center.Y + dx}
	case Deg180:
		return Point{X: center.X - dx, Y: center.Y - dy}
	case Deg270:
		return Point{X: center.X + dy, Y: center.Y - dx}
	}
	sin, cos := math.Sincos(a.Rad())
	fx, fy := float64(dx), float64(dy)
	return Point{
		X: center.X + Length(math.Round(fx*cos-fy*sin)),
		Y: center.Y + Length(math.Round(fx*sin+fy*cos)),
	}
}

// Mirrored mirrors p around center along the given orientation.
func (p Point) Mirrored(o Orientation, center Point) Point {
	switch o {
	case Horizontal:
		return Point{X: 2*center.X - p.X, Y: p.Y}
	default:
		return Point{X: p.X, Y: 2*center.Y - p.Y}
	}
}

// MappedToGrid snaps both coordinates to the nearest grid multiple.
func (p Point) MappedToGrid(interval PositiveLength) Point {
	return Point{
		X: p.X.MappedToGrid(interval.Length()),
		Y: p.Y.MappedToGrid(interval.Length()),
	}
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}
