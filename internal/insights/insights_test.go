package insights

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
	for seed := uint64(0); seed < 50; seed++ {
		d := Generate(rand.New(rand.NewPCG(seed, seed+1)), now)

		require.Len(t, d.Mood, days)
		require.Len(t, d.Words, days)
		require.Len(t, d.Energy, days)
		assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), d.Mood[0].Day)
		assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), d.Mood[days-1].Day)

		for i := range d.Mood {
			assert.GreaterOrEqual(t, d.Mood[i].Value, 1)
			assert.LessOrEqual(t, d.Mood[i].Value, 10)
			assert.GreaterOrEqual(t, d.Energy[i].Value, 0)
			assert.LessOrEqual(t, d.Energy[i].Value, 100)
		}

		total := 0
		for _, ts := range d.TopTags {
			assert.Positive(t, ts.Percent)
			total += ts.Percent
		}
		assert.Equal(t, 100, total)
		assert.NotEmpty(t, d.Headline)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Generate(rand.New(rand.NewPCG(7, 7)), now)
	b := Generate(rand.New(rand.NewPCG(7, 7)), now)
	assert.Equal(t, a, b)
}
