package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	a := NewIdentifier()
	b := NewIdentifier()
	assert.False(t, a.IsNil())
	assert.NotEqual(t, a, b)

	parsed, err := ParseIdentifier(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
	assert.Equal(t, 0, a.Compare(parsed))

	none, err := ParseIdentifier("none")
	require.NoError(t, err)
	assert.True(t, none.IsNil())
	assert.Equal(t, "none", none.String())

	_, err = ParseIdentifier("not-a-uuid")
	assert.Error(t, err)
}

func TestCircuitIdentifier(t *testing.T) {
	for _, ok := range []string{"GND", "+5V", "D0", "a/b", "N$1"} {
		_, err := NewCircuitIdentifier(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "has space", "x\n", "0123456789012345678901234567890123"} {
		_, err := NewCircuitIdentifier(bad)
		assert.Error(t, err, bad)
	}
}

func TestVersion(t *testing.T) {
	v01 := MustParseVersion("0.1")
	v02 := MustParseVersion("0.2")
	assert.True(t, v02.AtLeast(v01))
	assert.False(t, v01.AtLeast(v02))
	assert.Equal(t, 0, v02.Compare(MustParseVersion("0.2")))

	_, err := ParseVersion("x.y")
	assert.Error(t, err)
}
