package library

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// HAlign is the horizontal anchor of a text.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignHCenter
	AlignRight
)

// VAlign is the vertical anchor of a text.
type VAlign int

const (
	AlignBottom VAlign = iota
	AlignVCenter
	AlignTop
)

var hAlignNames = []string{"left", "center", "right"}
var vAlignNames = []string{"bottom", "center", "top"}

func (a HAlign) String() string { return hAlignNames[a] }
func (a VAlign) String() string { return vAlignNames[a] }

func parseHAlign(s string) (HAlign, error) {
	for i, n := range hAlignNames {
		if n == s {
			return HAlign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown horizontal alignment %q", s)
}

func parseVAlign(s string) (VAlign, error) {
	for i, n := range vAlignNames {
		if n == s {
			return VAlign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown vertical alignment %q", s)
}

// StrokeTextEvent names the property a StrokeText change touched.
type StrokeTextEvent int

const (
	TextLayerChanged StrokeTextEvent = iota
	TextValueChanged
	TextPositionChanged
	TextRotationChanged
	TextHeightChanged
	TextStrokeWidthChanged
	TextAlignChanged
	TextMirroredChanged
	TextAutoRotateChanged
)

// StrokeText is a text drawn with a stroke font on a board layer.
type StrokeText struct {
	OnEdited signal.Signal[StrokeTextEvent]

	uuid        types.Identifier
	layer       string
	text        string
	position    types.Point
	rotation    types.Angle
	height      types.PositiveLength
	strokeWidth types.UnsignedLength
	hAlign      HAlign
	vAlign      VAlign
	mirrored    bool
	autoRotate  bool
}

// NewStrokeText creates a text.
func NewStrokeText(uuid types.Identifier, layer, text string, pos types.Point, rot types.Angle,
	height types.PositiveLength, strokeWidth types.UnsignedLength, h HAlign, v VAlign, mirrored, autoRotate bool) *StrokeText {
	return &StrokeText{
		uuid:        uuid,
		layer:       layer,
		text:        text,
		position:    pos,
		rotation:    rot,
		height:      height,
		strokeWidth: strokeWidth,
		hAlign:      h,
		vAlign:      v,
		mirrored:    mirrored,
		autoRotate:  autoRotate,
	}
}

// Clone returns a copy without observers.
func (t *StrokeText) Clone() *StrokeText {
	return NewStrokeText(t.uuid, t.layer, t.text, t.position, t.rotation, t.height,
		t.strokeWidth, t.hAlign, t.vAlign, t.mirrored, t.autoRotate)
}

func (t *StrokeText) UUID() types.Identifier { return t.uuid }
func (t *StrokeText) Layer() string { return t.layer }
func (t *StrokeText) Text() string { return t.text }
func (t *StrokeText) Position() types.Point { return t.position }
func (t *StrokeText) Rotation() types.Angle { return t.rotation }
func (t *StrokeText) Height() types.PositiveLength { return t.height }
func (t *StrokeText) StrokeWidth() types.UnsignedLength { return t.strokeWidth }
func (t *StrokeText) Align() (HAlign, VAlign) { return t.hAlign, t.vAlign }
func (t *StrokeText) Mirrored() bool { return t.mirrored }
func (t *StrokeText) AutoRotate() bool { return t.autoRotate }

func (t *StrokeText) SetLayer(layer string) bool {
	if layer == t.layer {
		return false
	}
	t.layer = layer
	t.OnEdited.Notify(TextLayerChanged)
	return true
}

func (t *StrokeText) SetText(text string) bool {
	if text == t.text {
		return false
	}
	t.text = text
	t.OnEdited.Notify(TextValueChanged)
	return true
}

func (t *StrokeText) SetPosition(pos types.Point) bool {
	if pos == t.position {
		return false
	}
	t.position = pos
	t.OnEdited.Notify(TextPositionChanged)
	return true
}

func (t *StrokeText) SetRotation(rot types.Angle) bool {
	if rot == t.rotation {
		return false
	}
	t.rotation = rot
	t.OnEdited.Notify(TextRotationChanged)
	return true
}

func (t *StrokeText) SetHeight(h types.PositiveLength) bool {
	if h == t.height {
		return false
	}
	t.height = h
	t.OnEdited.Notify(TextHeightChanged)
	return true
}

func (t *StrokeText) SetStrokeWidth(w types.UnsignedLength) bool {
	if w == t.strokeWidth {
		return false
	}
	t.strokeWidth = w
	t.OnEdited.Notify(TextStrokeWidthChanged)
	return true
}

func (t *StrokeText) SetAlign(h HAlign, v VAlign) bool {
	if h == t.hAlign && v == t.vAlign {
		return false
	}
	t.hAlign, t.vAlign = h, v
	t.OnEdited.Notify(TextAlignChanged)
	return true
}

func (t *StrokeText) SetMirrored(m bool) bool {
	if m == t.mirrored {
		return false
	}
	t.mirrored = m
	t.OnEdited.Notify(TextMirroredChanged)
	return true
}

func (t *StrokeText) SetAutoRotate(a bool) bool {
	if a == t.autoRotate {
		return false
	}
	t.autoRotate = a
	t.OnEdited.Notify(TextAutoRotateChanged)
	return true
}

// Equal compares every property, ignoring observers.
func (t *StrokeText) Equal(o *StrokeText) bool {
	return t.uuid == o.uuid && t.layer == o.layer && t.text == o.text &&
		t.position == o.position && t.rotation == o.rotation &&
		t.height == o.height && t.strokeWidth == o.strokeWidth &&
		t.hAlign == o.hAlign && t.vAlign == o.vAlign &&
		t.mirrored == o.mirrored && t.autoRotate == o.autoRotate
}

// Path is an open or closed polyline in board coordinates.
type Path []types.Point

// glyph cells are 3/5 of the text height wide with 1/5 height spacing.
const (
	glyphWidthNum   = 3
	glyphSpacingNum = 1
	glyphDen        = 5
)

// GeneratePaths returns one closed outline per visible glyph cell, placed,
// aligned, mirrored and rotated like the text itself.
func (t *StrokeText) GeneratePaths() []Path {
	runes := []rune(t.text)
	if len(runes) == 0 {
		return nil
	}
	h := t.height.Length()
	gw := h * glyphWidthNum / glyphDen
	gs := h * glyphSpacingNum / glyphDen
	total := types.Length(len(runes))*gw + types.Length(len(runes)-1)*gs

	var x0 types.Length
	switch t.hAlign {
	case AlignHCenter:
		x0 = -total / 2
	case AlignRight:
		x0 = -total
	}
	var y0 types.Length
	switch t.vAlign {
	case AlignVCenter:
		y0 = -h / 2
	case AlignTop:
		y0 = -h
	}

	rot := t.rotation
	if t.autoRotate {
		m := rot.Mapped0To360()
		if m > types.Deg90 && m <= types.Deg270 {
			rot = rot.Add(types.Deg180)
		}
	}
	tr := types.NewTransform(t.position, rot, t.mirrored)

	paths := make([]Path, 0, len(runes))
	for i, r := range runes {
		if r == ' ' {
			continue
		}
		x := x0 + types.Length(i)*(gw+gs)
		corners := []types.Point{
			{X: x, Y: y0},
			{X: x + gw, Y: y0},
			{X: x + gw, Y: y0 + h},
			{X: x, Y: y0 + h},
			{X: x, Y: y0},
		}
		p := make(Path, len(corners))
		for j, c := range corners {
			p[j] = tr.Map(c)
		}
		paths = append(paths, p)
	}
	return paths
}

// Serialize writes "(stroke_text uuid (layer ..) ...)".
func (t *StrokeText) Serialize() *sexp.Node {
	n := sexp.NewList("stroke_text", sexp.Stringer(t.uuid))
	n.AppendList("layer", sexp.Token(t.layer))
	n.AppendList("height", sexp.Stringer(t.height))
	n.AppendList("stroke_width", sexp.Stringer(t.strokeWidth))
	n.AppendList("align", sexp.Stringer(t.hAlign), sexp.Stringer(t.vAlign))
	n.AppendPoint("position", t.position)
	n.AppendList("rotation", sexp.Stringer(t.rotation))
	n.AppendList("auto_rotate", sexp.Bool(t.autoRotate))
	n.AppendList("mirror", sexp.Bool(t.mirrored))
	n.AppendList("value", sexp.String(t.text))
	return n
}

// DeserializeStrokeText reads a text written by Serialize.
func DeserializeStrokeText(n *sexp.Node, _ types.Version) (*StrokeText, error) {
	r := sexp.NewReader(n, "library.StrokeText")
	t := &StrokeText{
		uuid:        r.Identifier("@0"),
		layer:       r.String("layer/@0"),
		height:      r.Positive("height/@0"),
		strokeWidth: r.Unsigned("stroke_width/@0"),
		hAlign:      sexp.ReadEnum(r, "align/@0", parseHAlign),
		vAlign:      sexp.ReadEnum(r, "align/@1", parseVAlign),
		position:    r.Point("position"),
		rotation:    r.Angle("rotation/@0"),
		autoRotate:  r.Bool("auto_rotate/@0"),
		mirrored:    r.Bool("mirror/@0"),
		text:        r.String("value/@0"),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
