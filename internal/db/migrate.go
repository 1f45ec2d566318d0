package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
)

// Migrate creates every table and seeds the achievement catalog.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(
		&chat.Session{},
		&chat.Message{},
		&chat.Job{},
		&journal.Entry{},
		&achievement.Achievement{},
		&achievement.UserAchievement{},
		&goal.DailyGoal{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	catalog := achievement.Catalog()
	if err := gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "threshold"}),
		}).
		Create(&catalog).Error; err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}
	return nil
}
