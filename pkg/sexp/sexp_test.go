package sexp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

func TestParseList(t *testing.T) {
	root, err := ParseString(`(pad "a b" (side top) (position 1.27 -2.54) (rotation 90.0))`)
	require.NoError(t, err)

	assert.Equal(t, "pad", root.Name())
	require.Len(t, root.Children(), 4)
	assert.True(t, root.Children()[0].IsString())
	assert.Equal(t, "a b", root.Children()[0].Value())

	side, err := root.ValueAt("side/@0")
	require.NoError(t, err)
	assert.Equal(t, "top", side)

	pos, err := root.PointAt("position")
	require.NoError(t, err)
	assert.Equal(t, types.NewPoint(1270000, -2540000), pos)

	rot, err := root.AngleAt("rotation/@0")
	require.NoError(t, err)
	assert.Equal(t, types.Deg90, rot)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "empty input"},
		{name: "unclosed list", input: "(a (b c)\n", want: "unexpected EOF in list"},
		{name: "stray paren", input: ")", want: "unexpected ')'"},
		{name: "unterminated string", input: "(a \"xyz", want: "unexpected EOF in string"},
		{name: "two roots", input: "(a)\n(b)", want: "line 2"},
		{name: "nameless list", input: "((a))", want: "must start with a name"},
		{name: "leaf root", input: "abc", want: "must be a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChildMissingReportsLine(t *testing.T) {
	root, err := ParseString("(board\n (name \"x\")\n (device\n  (position 1 2)))")
	require.NoError(t, err)

	dev, err := root.Child("device")
	require.NoError(t, err)
	_, err = dev.Child("rotation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	assert.Nil(t, root.TryChild("device/@7"))
	assert.Nil(t, root.TryChild("name/@0/deeper"))
}

func TestFormatRoundTrip(t *testing.T) {
	id := types.NewIdentifier()
	root := NewList("footprint", Stringer(id))
	root.AppendList("name", String(`quote " and \ backslash`))
	pad := root.AppendList("pad", Token("p1"))
	pad.AppendList("side", Token("top"))
	pad.AppendPoint("position", types.PointFromMM(1.5, -2))
	pad.AppendList("mirror", Bool(false))

	text := root.Format()
	assert.True(t, strings.HasPrefix(text, "(footprint "+id.String()+"\n"))

	parsed, err := ParseString(text)
	require.NoError(t, err)
	assert.Equal(t, parsed.Format(), text)

	name, err := parsed.ValueAt("name/@0")
	require.NoError(t, err)
	assert.Equal(t, `quote " and \ backslash`, name)

	gotID, err := parsed.IdentifierAt("@0")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	mirror, err := parsed.BoolAt("pad/mirror/@0")
	require.NoError(t, err)
	assert.False(t, mirror)
}

func TestCommentsAreSkipped(t *testing.T) {
	root, err := ParseString("# header\n(a # trailing\n (b 1))")
	require.NoError(t, err)
	v, err := root.IntAt("b/@0")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
