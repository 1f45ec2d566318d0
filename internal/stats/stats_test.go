package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int, hour int) time.Time {
	d := Day(now).AddDate(0, 0, -n)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []time.Time{daysAgo(0, 9)}, 1},
		{"yesterday only", []time.Time{daysAgo(1, 23)}, 1},
		{"two days old", []time.Time{daysAgo(2, 9)}, 0},
		{"gap breaks run", []time.Time{daysAgo(0, 9), daysAgo(1, 9), daysAgo(3, 9)}, 2},
		{"duplicates collapse", []time.Time{daysAgo(0, 1), daysAgo(0, 20), daysAgo(1, 5), daysAgo(1, 6)}, 2},
		{"unsorted input", []time.Time{daysAgo(2, 1), daysAgo(0, 1), daysAgo(1, 1)}, 3},
		{"run from yesterday", []time.Time{daysAgo(1, 1), daysAgo(2, 1), daysAgo(3, 1)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.times, now))
		})
	}
}

func TestStreak_TodayYesterdayPlusRun(t *testing.T) {
	for n := 0; n < 40; n += 7 {
		times := []time.Time{daysAgo(0, 8), daysAgo(1, 8)}
		for i := 0; i < n; i++ {
			times = append(times, daysAgo(2+i, 12))
		}
		assert.Equal(t, n+2, Streak(times, now), "n=%d", n)
	}
}

func TestStreak_AcrossMonthBoundary(t *testing.T) {
	march1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	times := []time.Time{
		march1,
		time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 27, 1, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, Streak(times, march1.Add(5*time.Hour)))
}

func TestStreak_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	localNow := time.Date(2026, 3, 15, 8, 0, 0, 0, loc)
	// 23:00 UTC on the 14th is 09:00 on the 15th in UTC+10.
	times := []time.Time{time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1, Streak(times, localNow))
	assert.Equal(t, Day(localNow), Day(times[0].In(loc)))
}

func TestCompute(t *testing.T) {
	entries := []Entry{
		{CreatedAt: daysAgo(0, 9), Words: 120, Tags: []string{"WORK", "mood"}},
		{CreatedAt: daysAgo(1, 9), Words: 1300, Tags: []string{"Work", "  "}},
		{CreatedAt: daysAgo(5, 9), Words: 10},
	}
	s := Compute(entries, now)

	assert.Equal(t, 3, s.TotalEntries)
	assert.Equal(t, 1430, s.TotalWords)
	assert.Equal(t, 2, s.UniqueTags)
	assert.Equal(t, 2, s.Streak)
	assert.Equal(t, 1300, s.LongestEntryWords)
}

func TestCompute_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Compute(nil, now))
}
