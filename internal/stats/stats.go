// Package stats derives journaling statistics from already-fetched entries.
// It is the single implementation behind both the global and the per-session numbers.
package stats

import (
	"sort"
	"strings"
	"time"
)

// Entry is the slice of an entry that statistics care about.
type Entry struct {
	CreatedAt time.Time
	Words     int
	Tags      []string
}

type Summary struct {
	TotalEntries      int `json:"total_entries"`
	TotalWords        int `json:"total_words"`
	UniqueTags        int `json:"unique_tags"`
	Streak            int `json:"streak"`
	LongestEntryWords int `json:"longest_entry_words"`
}

// Compute aggregates entries relative to now. Calendar days are taken in now's location.
func Compute(entries []Entry, now time.Time) Summary {
	var s Summary
	tags := make(map[string]struct{})
	times := make([]time.Time, 0, len(entries))

	for _, e := range entries {
		s.TotalEntries++
		s.TotalWords += e.Words
		if e.Words > s.LongestEntryWords {
			s.LongestEntryWords = e.Words
		}
		for _, t := range e.Tags {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" {
				tags[t] = struct{}{}
			}
		}
		times = append(times, e.CreatedAt)
	}
	s.UniqueTags = len(tags)
	s.Streak = Streak(times, now)
	return s
}

// Streak counts consecutive calendar days with at least one timestamp, ending today or
// yesterday. A newest day older than yesterday yields 0.
func Streak(times []time.Time, now time.Time) int {
	if len(times) == 0 {
		return 0
	}
	loc := now.Location()

	seen := make(map[time.Time]struct{}, len(times))
	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		d := Day(t.In(loc))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := Day(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// Day truncates t to local midnight of its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
