package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointRotatedExact(t *testing.T) {
	p := PointFromMM(1, 0)
	center := Point{}

	assert.Equal(t, PointFromMM(0, 1), p.Rotated(Deg90, center))
	assert.Equal(t, PointFromMM(-1, 0), p.Rotated(Deg180, center))
	assert.Equal(t, PointFromMM(0, -1), p.Rotated(Deg270, center))
	assert.Equal(t, p, p.Rotated(Deg360, center))
	assert.Equal(t, PointFromMM(0, -1), p.Rotated(-Deg90, center))
}

func TestPointRotatedAroundCenter(t *testing.T) {
	p := PointFromMM(2, 1)
	center := PointFromMM(1, 1)
	assert.Equal(t, PointFromMM(1, 2), p.Rotated(Deg90, center))
}

func TestPointMirrored(t *testing.T) {
	p := PointFromMM(2, 3)
	assert.Equal(t, PointFromMM(-2, 3), p.Mirrored(Horizontal, Point{}))
	assert.Equal(t, PointFromMM(2, -3), p.Mirrored(Vertical, Point{}))
	assert.Equal(t, PointFromMM(0, 3), p.Mirrored(Horizontal, PointFromMM(1, 0)))
}

func TestTransformMap(t *testing.T) {
	tr := NewTransform(PointFromMM(10, 20), Deg90, false)
	assert.Equal(t, PointFromMM(10, 21), tr.Map(PointFromMM(1, 0)))
	assert.Equal(t, Deg180, tr.MapAngle(Deg90))
	assert.Equal(t, "top_cu", tr.MapLayer("top_cu"))

	mirrored := NewTransform(PointFromMM(10, 20), Deg0, true)
	assert.Equal(t, PointFromMM(9, 20), mirrored.Map(PointFromMM(1, 0)))
	assert.Equal(t, "bot_cu", mirrored.MapLayer("top_cu"))
	assert.Equal(t, "brd_pads_tht", mirrored.MapLayer("brd_pads_tht"))
	assert.True(t, mirrored.MapMirror(false))
}
