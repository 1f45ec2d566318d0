package achievement

import (
	"math"
	"time"

	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

const (
	FirstEntry   = "FIRST_ENTRY"
	TenEntries   = "TEN_ENTRIES"
	FiftyEntries = "FIFTY_ENTRIES"
	Century      = "CENTURY"
	WeekStreak   = "WEEK_STREAK"
	MonthStreak  = "MONTH_STREAK"
	TagCollector = "TAG_COLLECTOR"
	Wordsmith    = "WORDSMITH"
	NightOwl     = "NIGHT_OWL"
	EarlyBird    = "EARLY_BIRD"
)

// Catalog is the static reference data seeded into the achievements table.
func Catalog() []Achievement {
	return []Achievement{
		{Key: FirstEntry, Name: "HELLO WORLD", Description: "Write your first entry", Icon: ">_", Threshold: 1},
		{Key: TenEntries, Name: "DEDICATED", Description: "Write 10 entries", Icon: "[10]", Threshold: 10},
		{Key: FiftyEntries, Name: "CHRONICLER", Description: "Write 50 entries", Icon: "[50]", Threshold: 50},
		{Key: Century, Name: "CENTURION", Description: "Write 100 entries", Icon: "[C]", Threshold: 100},
		{Key: WeekStreak, Name: "WEEK LONG", Description: "Keep a 7 day streak", Icon: "7D", Threshold: 7},
		{Key: MonthStreak, Name: "UNBROKEN", Description: "Keep a 30 day streak", Icon: "30D", Threshold: 30},
		{Key: TagCollector, Name: "TAXONOMIST", Description: "Use 10 different tags", Icon: "#", Threshold: 10},
		{Key: Wordsmith, Name: "WORDSMITH", Description: "Write 1000 words in one entry", Icon: "W", Threshold: 1000},
		{Key: NightOwl, Name: "NIGHT OWL", Description: "Journal between midnight and 5am", Icon: "(o,o)", Threshold: 1},
		{Key: EarlyBird, Name: "EARLY BIRD", Description: "Journal between 5am and 6am", Icon: "^v^", Threshold: 1},
	}
}

// Progress returns how far the summary is toward the achievement, in [0,100].
// Time-of-day achievements are all or nothing on the hour of now.
func Progress(a Achievement, s stats.Summary, now time.Time) float64 {
	hour := now.Hour()
	switch a.Key {
	case NightOwl:
		if hour >= 0 && hour < 5 {
			return 100
		}
		return 0
	case EarlyBird:
		if hour >= 5 && hour < 6 {
			return 100
		}
		return 0
	}

	if a.Threshold <= 0 {
		return 0
	}
	var value int
	switch a.Key {
	case FirstEntry, TenEntries, FiftyEntries, Century:
		value = s.TotalEntries
	case WeekStreak, MonthStreak:
		value = s.Streak
	case TagCollector:
		value = s.UniqueTags
	case Wordsmith:
		value = s.LongestEntryWords
	default:
		return 0
	}
	return math.Min(float64(value)/float64(a.Threshold), 1) * 100
}
