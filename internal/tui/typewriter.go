package tui

// typewriter reveals text a few runes at a time. Text may keep growing while it types.
type typewriter struct {
	target []rune
	shown  int
}

func (t *typewriter) Append(s string) {
	t.target = append(t.target, []rune(s)...)
}

// Step reveals up to n more runes and reports whether anything is still hidden.
func (t *typewriter) Step(n int) bool {
	t.shown = min(t.shown+n, len(t.target))
	return t.shown < len(t.target)
}

// Flush reveals everything.
func (t *typewriter) Flush() { t.shown = len(t.target) }

func (t *typewriter) Visible() string { return string(t.target[:t.shown]) }
func (t *typewriter) Full() string    { return string(t.target) }
func (t *typewriter) Done() bool      { return t.shown >= len(t.target) }
