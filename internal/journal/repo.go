package journal

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("entry not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Repo) Get(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update overwrites title, content and tags. Last write wins.
func (r *Repo) Update(ctx context.Context, e *Entry) error {
	res := r.db.WithContext(ctx).Model(e).
		Select("title", "content", "tags", "updated_at").
		Updates(map[string]any{
			"title":      e.Title,
			"content":    e.Content,
			"tags":       e.Tags,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Entry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type Filter struct {
	SessionID string
	Since     time.Time
	Limit     int
}

// List returns entries newest first.
func (r *Repo) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if f.SessionID != "" {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []Entry
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
