package models

import (
	"time"

	"gorm.io/gorm"
)

type UserProfile struct {
	gorm.Model
	UserID              uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	HeightCm            float64   `json:"height_cm"`
	CurrentWeightKg     float64   `json:"current_weight_kg"`
	GoalWeightKg        float64   `json:"goal_weight_kg"`
	ActivityLevel       string    `json:"activity_level"` // SEDENTARY|LIGHT|MODERATE|ACTIVE|VERY_ACTIVE
	GoalPace            string    `json:"goal_pace"`      // SLOW|NORMAL|FAST
	Gender              string    `json:"gender"`         // MALE|FEMALE
	DateOfBirth         time.Time `json:"date_of_birth"`
	DailyTargetCalories int       `json:"daily_target_calories"` // recomputed on every profile/weight change
}

// WeightEntry is one append-only weight-history row. Entries are never
// updated or removed.
type WeightEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	Date     time.Time `gorm:"not null" json:"date"`
	WeightKg float64   `gorm:"not null" json:"weight_kg"`
}
