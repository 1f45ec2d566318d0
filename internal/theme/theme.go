package theme

import (
	"fmt"
	"strings"
)

// Variant is one of the three terminal skins.
type Variant int

const (
	Phosphor Variant = iota
	Amber
	Ice
)

var names = [...]string{"phosphor", "amber", "ice"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(names) {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return names[v]
}

// Next cycles phosphor -> amber -> ice -> phosphor.
func (v Variant) Next() Variant {
	return Variant((int(v) + 1) % len(names))
}

// Parse accepts a variant name, case-insensitive. Empty means Phosphor.
func Parse(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Phosphor, nil
	}
	for i, n := range names {
		if n == s {
			return Variant(i), nil
		}
	}
	return Phosphor, fmt.Errorf("unknown theme %q", s)
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

// Palette holds hex colors for one skin.
type Palette struct {
	Foreground string
	Dim        string
	Accent     string
	Background string
	Border     string
	Danger     string
	Glow       string
}

// Resolve maps a variant to its palette. Unknown variants fall back to Phosphor.
func Resolve(v Variant) Palette {
	switch v {
	case Amber:
		return Palette{
			Foreground: "#FFB000",
			Dim:        "#8A5F00",
			Accent:     "#FFD36B",
			Background: "#1A1000",
			Border:     "#B37A00",
			Danger:     "#FF5F1F",
			Glow:       "#FFCC66",
		}
	case Ice:
		return Palette{
			Foreground: "#9FE8FF",
			Dim:        "#4A7F91",
			Accent:     "#E0F7FF",
			Background: "#06141A",
			Border:     "#5FB8D6",
			Danger:     "#FF6B8B",
			Glow:       "#C8F4FF",
		}
	default:
		return Palette{
			Foreground: "#33FF66",
			Dim:        "#1A7F33",
			Accent:     "#A6FFB8",
			Background: "#001A08",
			Border:     "#22B24A",
			Danger:     "#FF4040",
			Glow:       "#7CFF9C",
		}
	}
}
