package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/suPer8Hu/journal-terminal/internal/theme"
)

// SessionStats are counters for the current device session.
type SessionStats struct {
	MessagesSent int       `json:"messages_sent"`
	WordsWritten int       `json:"words_written"`
	EntriesSaved int       `json:"entries_saved"`
	StartedAt    time.Time `json:"started_at"`
}

type Prefs struct {
	Theme     theme.Variant `json:"theme"`
	SessionID string        `json:"session_id,omitempty"`
	Stats     SessionStats  `json:"stats"`
}

var ErrInvalidScope = errors.New("invalid prefs scope")

// Store persists prefs per scope. Load returns zero Prefs when nothing is stored.
type Store interface {
	Load(ctx context.Context, scope string) (Prefs, error)
	Save(ctx context.Context, scope string, p Prefs) error
}
