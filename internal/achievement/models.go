package achievement

import "time"

type Achievement struct {
	Key         string `gorm:"primaryKey;type:varchar(32)" json:"key"`
	Name        string `gorm:"type:varchar(64);not null" json:"name"`
	Description string `gorm:"type:varchar(255);not null" json:"description"`
	Icon        string `gorm:"type:varchar(16)" json:"icon"`
	Threshold   int    `gorm:"not null" json:"threshold"`
}

func (Achievement) TableName() string { return "achievements" }

type UserAchievement struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID      string    `gorm:"type:varchar(26);not null;uniqueIndex:uniq_session_achievement,priority:1" json:"session_id"`
	AchievementKey string    `gorm:"type:varchar(32);not null;uniqueIndex:uniq_session_achievement,priority:2" json:"achievement_key"`
	Progress       float64   `json:"progress"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}

func (UserAchievement) TableName() string { return "user_achievements" }

// Status is a catalog item as seen by one session.
type Status struct {
	Achievement
	Progress   float64    `json:"progress"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
