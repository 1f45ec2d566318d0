package achievement

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Catalog(ctx context.Context) ([]Achievement, error) {
	var out []Achievement
	if err := r.db.WithContext(ctx).Order("threshold ASC").Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Unlocked(ctx context.Context, sessionID string) ([]UserAchievement, error) {
	var out []UserAchievement
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("unlocked_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Insert adds the row unless (session_id, achievement_key) already exists.
// It reports whether a row was written.
func (r *Repo) Insert(ctx context.Context, ua *UserAchievement) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ua)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
