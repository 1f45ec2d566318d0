package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCycles(t *testing.T) {
	assert.Equal(t, Amber, Phosphor.Next())
	assert.Equal(t, Ice, Amber.Next())
	assert.Equal(t, Phosphor, Ice.Next())
}

func TestParse(t *testing.T) {
	v, err := Parse(" AMBER ")
	require.NoError(t, err)
	assert.Equal(t, Amber, v)

	v, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Phosphor, v)

	_, err = Parse("sepia")
	assert.Error(t, err)
}

func TestTextRoundTrip(t *testing.T) {
	var v Variant
	require.NoError(t, v.UnmarshalText([]byte("ice")))
	b, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ice", string(b))
}

func TestResolveDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range []Variant{Phosphor, Amber, Ice} {
		p := Resolve(v)
		assert.NotEmpty(t, p.Foreground)
		assert.False(t, seen[p.Foreground], "duplicate palette for %s", v)
		seen[p.Foreground] = true
	}
	assert.Equal(t, Resolve(Phosphor), Resolve(Variant(42)))
}
