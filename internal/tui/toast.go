package tui

import "time"

const toastTTL = 4 * time.Second

type toast struct {
	text    string
	isErr   bool
	expires time.Time
}

// toasts is a short queue of transient notifications; oldest first.
type toasts struct {
	items []toast
	max   int
}

func (t *toasts) push(text string, isErr bool, now time.Time) {
	if t.max == 0 {
		t.max = 3
	}
	t.items = append(t.items, toast{text: text, isErr: isErr, expires: now.Add(toastTTL)})
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
}

// expire drops toasts past their deadline and reports whether any remain.
func (t *toasts) expire(now time.Time) bool {
	keep := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.expires) {
			keep = append(keep, it)
		}
	}
	t.items = keep
	return len(t.items) > 0
}
