package types

import "strings"

// Transform maps coordinates from an element's local system into board
// coordinates: mirror (horizontally), then rotate, then translate.
type Transform struct {
	Position Point
	Rotation Angle
	Mirrored bool
}

// NewTransform creates a transform from a placement.
func NewTransform(pos Point, rot Angle, mirrored bool) Transform {
	return Transform{Position: pos, Rotation: rot, Mirrored: mirrored}
}

// Map transforms a local point into board coordinates.
func (t Transform) Map(p Point) Point {
	if t.Mirrored {
		p = p.Mirrored(Horizontal, Point{})
	}
	p = p.Rotated(t.Rotation, Point{})
	return p.Add(t.Position)
}

// MapAngle transforms a local rotation into a board rotation.
func (t Transform) MapAngle(a Angle) Angle {
	if t.Mirrored {
		return t.Rotation.Sub(a)
	}
	return t.Rotation.Add(a)
}

// MapMirror transforms a local mirror flag.
func (t Transform) MapMirror(m bool) bool {
	return m != t.Mirrored
}

// MapLayer swaps top and bottom layer names when the transform is mirrored.
func (t Transform) MapLayer(layer string) string {
	if !t.Mirrored {
		return layer
	}
	return MirroredLayer(layer)
}

// Board layer names.
const (
	LayerTopCopper    = "top_cu"
	LayerBottomCopper = "bot_cu"
	LayerTHTPads      = "brd_pads_tht"
	LayerTopNames     = "top_names"
	LayerTopValues    = "top_values"
	LayerTopPlacement = "top_placement"
)

// MirroredLayer returns the layer on the opposite board side, or the layer
// itself if it has no side.
func MirroredLayer(layer string) string {
	switch {
	case strings.HasPrefix(layer, "top_"):
		return "bot_" + strings.TrimPrefix(layer, "top_")
	case strings.HasPrefix(layer, "bot_"):
		return "top_" + strings.TrimPrefix(layer, "bot_")
	default:
		return layer
	}
}

// IsCopperLayer reports whether layer carries copper.
func IsCopperLayer(layer string) bool {
	return strings.HasSuffix(layer, "_cu")
}
