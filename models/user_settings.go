package models

import (
	"gorm.io/gorm"
)

// UserSettings holds the per-user calorie-banking knobs. Created lazily with
// defaults on first read.
type UserSettings struct {
	gorm.Model
	UserID             uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	PointsPerCalorie   float64 `gorm:"not null" json:"points_per_calorie"`
	MaxDailyEarnPoints int     `gorm:"not null" json:"max_daily_earn_points"`
}
