package models

import (
	"time"

	"gorm.io/gorm"
)

type MealEntry struct {
	gorm.Model
	UserID   uint            `gorm:"index;not null" json:"user_id"`
	Date     time.Time       `gorm:"index;not null" json:"date"` // local midnight of the day logged against
	MealType string          `json:"meal_type"`                  // BREAKFAST|LUNCH|DINNER|SNACK
	Items    []MealEntryItem `json:"items"`
}

// MealEntryItem snapshots the calories at log time — ComputedCalories is
// never recomputed if the food item changes later.
type MealEntryItem struct {
	gorm.Model
	MealEntryID      uint     `gorm:"index;not null" json:"meal_entry_id"`
	FoodItemID       uint     `gorm:"not null" json:"food_item_id"`
	FoodItem         FoodItem `json:"food_item"`
	Servings         float64  `gorm:"not null" json:"servings"`
	ComputedCalories int      `gorm:"not null" json:"computed_calories"`
}
