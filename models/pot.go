package models

import (
	"time"

	"gorm.io/gorm"
)

// Pot is a named savings goal. Once IsRedeemed is true the pot is terminal:
// no further allocation, immutable except for deletion.
type Pot struct {
	gorm.Model
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Title          string    `gorm:"not null" json:"title"`
	TargetCalories int       `gorm:"not null" json:"target_calories"`
	DueDate        time.Time `gorm:"not null" json:"due_date"`
	SavedPoints    int       `gorm:"not null;default:0" json:"saved_points"`
	IsRedeemed     bool      `gorm:"not null;default:false" json:"is_redeemed"`
}
