package goal

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

const DefaultTargetWords = 500

var (
	ErrInvalidTarget   = errors.New("target words must be positive")
	ErrSessionRequired = errors.New("session id is required")
)

type DailyGoal struct {
	SessionID   string    `gorm:"primaryKey;type:varchar(26)" json:"session_id"`
	TargetWords int       `gorm:"not null" json:"target_words"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DailyGoal) TableName() string { return "daily_goals" }

// Progress is the state of today's goal.
type Progress struct {
	SessionID   string `json:"session_id"`
	TargetWords int    `json:"target_words"`
	TodayWords  int    `json:"today_words"`
	Percent     int    `json:"percent"`
	Complete    bool   `json:"complete"`
}

// Evaluate is the pure part of the tracker: percent is capped at 100 and the goal is
// complete iff today's words reach the target.
func Evaluate(todayWords, target int) (percent int, complete bool) {
	if target <= 0 {
		target = DefaultTargetWords
	}
	if todayWords < 0 {
		todayWords = 0
	}
	percent = todayWords * 100 / target
	if percent > 100 {
		percent = 100
	}
	return percent, todayWords >= target
}

func newProgress(sessionID string, todayWords, target int) Progress {
	p, done := Evaluate(todayWords, target)
	return Progress{SessionID: sessionID, TargetWords: target, TodayWords: todayWords, Percent: p, Complete: done}
}

// WordCounter sums word counts of entries created at or after a moment.
type WordCounter interface {
	WordsSince(ctx context.Context, t time.Time) (int, error)
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Get(ctx context.Context, sessionID string) (*DailyGoal, error) {
	var g DailyGoal
	if err := r.db.WithContext(ctx).First(&g, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Upsert writes the target keyed by session id.
func (r *Repo) Upsert(ctx context.Context, g *DailyGoal) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_words", "updated_at"}),
		}).
		Create(g).Error
}

type Service struct {
	repo          *Repo
	words         WordCounter
	defaultTarget int
	now           func() time.Time
}

func NewService(repo *Repo, words WordCounter, defaultTarget int) *Service {
	if defaultTarget <= 0 {
		defaultTarget = DefaultTargetWords
	}
	return &Service{repo: repo, words: words, defaultTarget: defaultTarget, now: time.Now}
}

// Today loads the session's target and the words written since local midnight.
func (s *Service) Today(ctx context.Context, sessionID string) (*Tracker, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	target := s.defaultTarget
	g, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil:
		target = g.TargetWords
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	words, err := s.words.WordsSince(ctx, stats.Day(s.now()))
	if err != nil {
		return nil, err
	}
	return &Tracker{svc: s, sessionID: sessionID, target: target, todayWords: words}, nil
}

// Tracker holds today's known word count so target changes do not refetch entries.
type Tracker struct {
	svc        *Service
	sessionID  string
	target     int
	todayWords int
}

func (t *Tracker) Progress() Progress {
	return newProgress(t.sessionID, t.todayWords, t.target)
}

// SetTarget persists the new target and recomputes from the already-known word count.
func (t *Tracker) SetTarget(ctx context.Context, target int) (Progress, error) {
	if target <= 0 {
		return t.Progress(), ErrInvalidTarget
	}
	if err := t.svc.repo.Upsert(ctx, &DailyGoal{
		SessionID:   t.sessionID,
		TargetWords: target,
		UpdatedAt:   t.svc.now(),
	}); err != nil {
		return t.Progress(), err
	}
	t.target = target
	return t.Progress(), nil
}

// SetTodayWords replaces the known word count, e.g. after an entry was saved or purged.
func (t *Tracker) SetTodayWords(n int) Progress {
	t.todayWords = n
	return t.Progress()
}
