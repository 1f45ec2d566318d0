package purge

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Animation is the cosmetic destruction effect for one entry. Progress only moves forward.
type Animation struct {
	Method  Method
	Subject string
	elapsed time.Duration
}

func NewAnimation(m Method, subject string) Animation {
	return Animation{Method: m, Subject: subject}
}

// Advance moves the clock forward by dt. Negative steps are ignored.
func (a Animation) Advance(dt time.Duration) Animation {
	if dt > 0 {
		a.elapsed += dt
	}
	return a
}

func (a Animation) Elapsed() time.Duration { return a.elapsed }

// Progress is the completed fraction in [0,1].
func (a Animation) Progress() float64 {
	d := a.Method.Duration()
	if d <= 0 {
		return 1
	}
	p := float64(a.elapsed) / float64(d)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (a Animation) Done() bool { return a.Progress() >= 1 }

// Frame renders the effect at the current progress, at most width columns wide.
func (a Animation) Frame(width int) string {
	if width < 8 {
		width = 8
	}
	text := fit(a.Subject, width)
	p := a.Progress()

	var body []string
	switch a.Method {
	case Incinerate:
		body = incinerate(text, p)
	case Shred:
		body = shred(text, p)
	default:
		body = dissolve(text, p)
	}
	return strings.Join(append(body, bar(p, width)), "\n")
}

func incinerate(text string, p float64) []string {
	r := []rune(text)
	burnt := int(p * float64(len(r)))
	flames := []rune("^*~'")
	line := make([]rune, len(r))
	fire := make([]rune, len(r))
	for i := range r {
		switch {
		case i < burnt:
			line[i] = '.'
			fire[i] = ' '
		case i < burnt+3 && p > 0 && p < 1:
			line[i] = flames[(i+burnt)%len(flames)]
			fire[i] = flames[(i+burnt+1)%len(flames)]
		default:
			line[i] = r[i]
			fire[i] = ' '
		}
	}
	return []string{strings.TrimRight(string(fire), " "), string(line)}
}

func shred(text string, p float64) []string {
	const rows = 4
	r := []rune(text)
	drop := int(p * rows)
	out := make([][]rune, rows+1)
	for i := range out {
		out[i] = []rune(strings.Repeat(" ", len(r)))
	}
	for i, c := range r {
		// odd strips fall faster
		off := drop
		if i%2 == 1 {
			off = min(rows, drop+1)
		}
		if p == 0 {
			off = 0
		}
		if off >= rows {
			continue
		}
		if p > 0 && i%3 == 2 {
			c = '|'
		}
		out[off][i] = c
	}
	lines := make([]string, 0, len(out))
	for _, l := range out {
		lines = append(lines, strings.TrimRight(string(l), " "))
	}
	return lines
}

func dissolve(text string, p float64) []string {
	r := []rune(text)
	noise := []rune(":.'`")
	out := make([]rune, len(r))
	for i, c := range r {
		h := scatter(i)
		switch {
		case h < p:
			out[i] = ' '
		case h < p+0.15 && c != ' ':
			out[i] = noise[i%len(noise)]
		default:
			out[i] = c
		}
	}
	return []string{string(out)}
}

// scatter maps a column to a fixed pseudo-random value in [0,1).
func scatter(i int) float64 {
	x := uint32(i+1) * 2654435761
	x ^= x >> 13
	return float64(x%1000) / 1000
}

func bar(p float64, width int) string {
	inner := width - 2
	n := int(p * float64(inner))
	return "[" + strings.Repeat("#", n) + strings.Repeat("-", inner-n) + "]"
}

func fit(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-1]) + "~"
}
