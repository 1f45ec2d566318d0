package insights

import (
	"math/rand/v2"
	"time"
)

// Point is one day of a series.
type Point struct {
	Day   time.Time `json:"day"`
	Value int       `json:"value"`
}

type TagShare struct {
	Tag     string `json:"tag"`
	Percent int    `json:"percent"`
}

// Dashboard is placeholder analytics. None of it is derived from real entries.
type Dashboard struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Mood        []Point    `json:"mood"`   // 1..10
	Words       []Point    `json:"words"`  // per day
	Energy      []Point    `json:"energy"` // 0..100
	TopTags     []TagShare `json:"top_tags"`
	Headline    string     `json:"headline"`
}

const days = 7

var (
	tagPool   = []string{"WORK", "FAMILY", "HEALTH", "DREAMS", "IDEAS", "TRAVEL", "MUSIC", "GRATITUDE"}
	headlines = []string{
		"YOUR WRITING PEAKS MID-WEEK",
		"MOOD TRENDING UPWARD",
		"ENERGY DIPS ON WEEKENDS",
		"CONSISTENCY IS BUILDING",
		"SIGNAL STRONG. KEEP TRANSMITTING.",
	}
)

// Generate builds a mock dashboard for the seven days ending at now.
func Generate(rng *rand.Rand, now time.Time) Dashboard {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := Dashboard{
		GeneratedAt: now,
		Mood:        make([]Point, 0, days),
		Words:       make([]Point, 0, days),
		Energy:      make([]Point, 0, days),
		Headline:    headlines[rng.IntN(len(headlines))],
	}
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		d.Mood = append(d.Mood, Point{Day: day, Value: 1 + rng.IntN(10)})
		d.Words = append(d.Words, Point{Day: day, Value: rng.IntN(1200)})
		d.Energy = append(d.Energy, Point{Day: day, Value: rng.IntN(101)})
	}

	pool := append([]string(nil), tagPool...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	remaining := 100
	for i, tag := range pool[:4] {
		p := remaining
		if i < 3 {
			p = 10 + rng.IntN(remaining/2-5)
		}
		remaining -= p
		d.TopTags = append(d.TopTags, TagShare{Tag: tag, Percent: p})
	}
	return d
}
