package models

import (
	"time"

	"gorm.io/gorm"
)

// UserXP tracks experience, level and logging streaks. Level is always kept
// consistent with TotalXP (level = floor(sqrt(totalXp/100)) + 1).
type UserXP struct {
	gorm.Model
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalXP       int        `gorm:"not null;default:0" json:"total_xp"`
	Level         int        `gorm:"not null;default:1" json:"level"`
	CurrentStreak int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int        `gorm:"not null;default:0" json:"longest_streak"`
	LastLogDate   *time.Time `json:"last_log_date,omitempty"`
}

// Achievement is one entry of the static catalog, seeded at startup.
type Achievement struct {
	gorm.Model
	Key         string `gorm:"uniqueIndex;not null" json:"key"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `gorm:"not null" json:"xp_reward"`
}

// UserAchievement records a grant. At most one per (user, achievement),
// immutable once created.
type UserAchievement struct {
	gorm.Model
	UserID        uint        `gorm:"uniqueIndex:uniq_user_achievement;not null" json:"user_id"`
	AchievementID uint        `gorm:"uniqueIndex:uniq_user_achievement;not null" json:"achievement_id"`
	Achievement   Achievement `json:"achievement"`
}
