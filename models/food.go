package models

import (
	"gorm.io/gorm"
)

// FoodItem is either a built-in catalog entry (UserID nil, IsCustom false)
// or a user-created custom food.
type FoodItem struct {
	gorm.Model
	UserID             *uint   `gorm:"index" json:"user_id,omitempty"`
	Name               string  `gorm:"not null" json:"name"`
	CaloriesPerServing float64 `gorm:"not null" json:"calories_per_serving"`
	ServingLabel       string  `json:"serving_label"`
	IsCustom           bool    `json:"is_custom"`
}
