package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

func catalogItem(t *testing.T, key string) Achievement {
	t.Helper()
	for _, a := range Catalog() {
		if a.Key == key {
			return a
		}
	}
	t.Fatalf("no catalog item %s", key)
	return Achievement{}
}

var noon = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestProgress_TenEntries(t *testing.T) {
	a := catalogItem(t, TenEntries)

	prev := -1.0
	for n := 0; n < 10; n++ {
		p := Progress(a, stats.Summary{TotalEntries: n}, noon)
		assert.InDelta(t, float64(n)*10, p, 1e-9)
		assert.Greater(t, p, prev)
		prev = p
	}
	for _, n := range []int{10, 11, 500} {
		assert.Equal(t, 100.0, Progress(a, stats.Summary{TotalEntries: n}, noon))
	}
}

func TestProgress_Thresholds(t *testing.T) {
	tests := []struct {
		key     string
		summary stats.Summary
		want    float64
	}{
		{FirstEntry, stats.Summary{TotalEntries: 1}, 100},
		{FiftyEntries, stats.Summary{TotalEntries: 25}, 50},
		{Century, stats.Summary{TotalEntries: 100}, 100},
		{WeekStreak, stats.Summary{Streak: 7}, 100},
		{MonthStreak, stats.Summary{Streak: 15}, 50},
		{TagCollector, stats.Summary{UniqueTags: 5}, 50},
		{Wordsmith, stats.Summary{LongestEntryWords: 999, TotalWords: 5000}, 99.9},
		{Wordsmith, stats.Summary{LongestEntryWords: 1000}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.InDelta(t, tt.want, Progress(catalogItem(t, tt.key), tt.summary, noon), 1e-9)
		})
	}
}

func TestProgress_TimeOfDay(t *testing.T) {
	owl := catalogItem(t, NightOwl)
	bird := catalogItem(t, EarlyBird)

	at := func(h, m int) time.Time { return time.Date(2026, 5, 1, h, m, 0, 0, time.UTC) }

	assert.Equal(t, 100.0, Progress(owl, stats.Summary{}, at(0, 0)))
	assert.Equal(t, 100.0, Progress(owl, stats.Summary{}, at(4, 59)))
	assert.Equal(t, 0.0, Progress(owl, stats.Summary{}, at(5, 0)))

	assert.Equal(t, 100.0, Progress(bird, stats.Summary{}, at(5, 0)))
	assert.Equal(t, 100.0, Progress(bird, stats.Summary{}, at(5, 59)))
	assert.Equal(t, 0.0, Progress(bird, stats.Summary{}, at(6, 0)))
	assert.Equal(t, 0.0, Progress(bird, stats.Summary{}, at(4, 0)))
}

func TestCatalog_KeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog() {
		require.False(t, seen[a.Key], a.Key)
		seen[a.Key] = true
		assert.Positive(t, a.Threshold)
	}
}
