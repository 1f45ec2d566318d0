package prefs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/theme"
)

// Scoped is the loaded prefs for one scope. Every mutation is saved immediately.
type Scoped struct {
	store Store
	scope string
	log   *zap.Logger

	// saveMu orders mutations with their saves, so the last save holds the newest value.
	saveMu sync.Mutex
	mu     sync.Mutex
	cur    Prefs
}

// Open loads the scope. A failed load is logged and starts from defaults.
func Open(ctx context.Context, store Store, scope string, log *zap.Logger, now time.Time) *Scoped {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scoped{store: store, scope: scope, log: log}
	p, err := store.Load(ctx, scope)
	if err != nil {
		log.Warn("load prefs", zap.String("scope", scope), zap.Error(err))
		p = Prefs{}
	}
	if p.Stats.StartedAt.IsZero() {
		p.Stats.StartedAt = now
	}
	s.cur = p
	return s
}

func (s *Scoped) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update applies fn and saves. On save failure the in-memory value is still updated.
// Concurrent updates are saved in the order they were applied; Get does not wait on a save.
func (s *Scoped) Update(ctx context.Context, fn func(*Prefs)) (Prefs, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	fn(&s.cur)
	p := s.cur
	s.mu.Unlock()

	if err := s.store.Save(ctx, s.scope, p); err != nil {
		s.log.Warn("save prefs", zap.String("scope", s.scope), zap.Error(err))
		return p, err
	}
	return p, nil
}

func (s *Scoped) SetTheme(ctx context.Context, v theme.Variant) (Prefs, error) {
	return s.Update(ctx, func(p *Prefs) { p.Theme = v })
}

func (s *Scoped) SetSessionID(ctx context.Context, id string) (Prefs, error) {
	return s.Update(ctx, func(p *Prefs) { p.SessionID = id })
}

func (s *Scoped) RecordMessage(ctx context.Context) (Prefs, error) {
	return s.Update(ctx, func(p *Prefs) { p.Stats.MessagesSent++ })
}

func (s *Scoped) RecordEntry(ctx context.Context, words int) (Prefs, error) {
	return s.Update(ctx, func(p *Prefs) {
		p.Stats.EntriesSaved++
		p.Stats.WordsWritten += words
	})
}

// ResetStats starts a fresh session counter at now.
func (s *Scoped) ResetStats(ctx context.Context, now time.Time) (Prefs, error) {
	return s.Update(ctx, func(p *Prefs) { p.Stats = SessionStats{StartedAt: now} })
}
