package achievement

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

var ErrSessionRequired = errors.New("session id is required")

// FactSource supplies the entries statistics are computed from.
type FactSource interface {
	Facts(ctx context.Context, sessionID string) ([]stats.Entry, error)
}

type Service struct {
	repo  *Repo
	facts FactSource
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo *Repo, facts FactSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, facts: facts, log: log, now: time.Now}
}

type CheckResult struct {
	Summary  stats.Summary `json:"summary"`
	Unlocked []Achievement `json:"unlocked"`
	Statuses []Status      `json:"achievements"`
}

// List reports every catalog item with its progress for the session.
func (s *Service) List(ctx context.Context, sessionID string) ([]Status, stats.Summary, error) {
	now := s.now()
	summary := s.summary(ctx, now)

	var (
		catalog  []Achievement
		unlocked []UserAchievement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog, err = s.repo.Catalog(gctx)
		return err
	})
	if sessionID != "" {
		g.Go(func() (err error) {
			unlocked, err = s.repo.Unlocked(gctx, sessionID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, summary, err
	}
	return merge(catalog, unlocked, summary, now), summary, nil
}

// Check unlocks every achievement the session now qualifies for. Already unlocked
// achievements are skipped; only new unlocks are returned.
func (s *Service) Check(ctx context.Context, sessionID string) (*CheckResult, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	now := s.now()
	summary := s.summary(ctx, now)

	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.Unlocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(existing))
	for _, ua := range existing {
		have[ua.AchievementKey] = struct{}{}
	}

	res := &CheckResult{Summary: summary, Unlocked: []Achievement{}}
	for _, a := range catalog {
		if _, ok := have[a.Key]; ok {
			continue
		}
		p := Progress(a, summary, now)
		if p < 100 {
			continue
		}
		inserted, err := s.repo.Insert(ctx, &UserAchievement{
			SessionID:      sessionID,
			AchievementKey: a.Key,
			Progress:       p,
			UnlockedAt:     now,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			s.log.Info("achievement unlocked", zap.String("session_id", sessionID), zap.String("key", a.Key))
			res.Unlocked = append(res.Unlocked, a)
		}
	}

	if len(res.Unlocked) > 0 {
		existing, err = s.repo.Unlocked(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	res.Statuses = merge(catalog, existing, summary, now)
	return res, nil
}

// summary never fails: a broken read leaves every statistic at zero.
func (s *Service) summary(ctx context.Context, now time.Time) stats.Summary {
	facts, err := s.facts.Facts(ctx, "")
	if err != nil {
		s.log.Warn("load entries for achievements", zap.Error(err))
		return stats.Summary{}
	}
	return stats.Compute(facts, now)
}

func merge(catalog []Achievement, unlocked []UserAchievement, summary stats.Summary, now time.Time) []Status {
	byKey := make(map[string]UserAchievement, len(unlocked))
	for _, ua := range unlocked {
		byKey[ua.AchievementKey] = ua
	}
	out := make([]Status, 0, len(catalog))
	for _, a := range catalog {
		st := Status{Achievement: a, Progress: Progress(a, summary, now)}
		if ua, ok := byKey[a.Key]; ok {
			at := ua.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &at
			st.Progress = 100
		}
		out = append(out, st)
	}
	return out
}
