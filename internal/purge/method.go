package purge

import (
	"fmt"
	"strings"
	"time"
)

type Method int

const (
	Incinerate Method = iota
	Shred
	Dissolve
)

var methods = []struct {
	name     string
	label    string
	duration time.Duration
}{
	Incinerate: {"INCINERATE", "burn it to ash", 2500 * time.Millisecond},
	Shred:      {"SHRED", "cut it into strips", 1800 * time.Millisecond},
	Dissolve:   {"DISSOLVE", "scatter it into static", 2200 * time.Millisecond},
}

// Methods lists every destruction method in menu order.
func Methods() []Method {
	return []Method{Incinerate, Shred, Dissolve}
}

func (m Method) Valid() bool { return m >= 0 && int(m) < len(methods) }

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methods[m].name
}

func (m Method) Label() string {
	if !m.Valid() {
		return ""
	}
	return methods[m].label
}

// Duration is how long the animation for m plays.
func (m Method) Duration() time.Duration {
	if !m.Valid() {
		return 0
	}
	return methods[m].duration
}

func ParseMethod(s string) (Method, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, m := range Methods() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown purge method %q", s)
}
