package services

import (
	"errors"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

type FoodInput struct {
	Name               string  `json:"name" binding:"required"`
	CaloriesPerServing float64 `json:"calories_per_serving" binding:"required,gte=0"`
	ServingLabel       string  `json:"serving_label"`
}

// ListFoods returns built-in foods plus the caller's custom foods,
// optionally filtered by a case-insensitive name search.
func ListFoods(userID uint, search string) ([]models.FoodItem, error) {
	q := config.DB.Where("is_custom = ? OR user_id = ?", false, userID)
	if search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var foods []models.FoodItem
	err := q.Order("is_custom asc, name asc").Find(&foods).Error
	return foods, err
}

func CreateFood(userID uint, input FoodInput) (*models.FoodItem, error) {
	label := input.ServingLabel
	if label == "" {
		label = "serving"
	}
	food := models.FoodItem{
		UserID:             &userID,
		Name:               input.Name,
		CaloriesPerServing: input.CaloriesPerServing,
		ServingLabel:       label,
		IsCustom:           true,
	}
	if err := config.DB.Create(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func UpdateFood(userID, foodID uint, input FoodInput) (*models.FoodItem, error) {
	food, err := getOwnedFood(userID, foodID)
	if err != nil {
		return nil, err
	}

	food.Name = input.Name
	food.CaloriesPerServing = input.CaloriesPerServing
	if input.ServingLabel != "" {
		food.ServingLabel = input.ServingLabel
	}
	if err := config.DB.Save(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func DeleteFood(userID, foodID uint) error {
	food, err := getOwnedFood(userID, foodID)
	if err != nil {
		return err
	}
	return config.DB.Delete(food).Error
}

func getOwnedFood(userID, foodID uint) (*models.FoodItem, error) {
	var food models.FoodItem
	err := config.DB.First(&food, foodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("Food item not found")
	}
	if err != nil {
		return nil, err
	}
	if food.UserID == nil || *food.UserID != userID {
		return nil, utils.ErrNotAuthorized()
	}
	return &food, nil
}

// SeedFoods loads the built-in catalog if it isn't there yet.
func SeedFoods(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.FoodItem{}).Where("is_custom = ?", false).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	builtin := []models.FoodItem{
		{Name: "Scrambled Eggs (2 eggs)", CaloriesPerServing: 182, ServingLabel: "serving"},
		{Name: "Oatmeal", CaloriesPerServing: 154, ServingLabel: "cup"},
		{Name: "Greek Yogurt", CaloriesPerServing: 130, ServingLabel: "cup"},
		{Name: "Banana", CaloriesPerServing: 105, ServingLabel: "medium"},
		{Name: "Whole Wheat Toast", CaloriesPerServing: 69, ServingLabel: "slice"},
		{Name: "Grilled Chicken Breast", CaloriesPerServing: 165, ServingLabel: "100g"},
		{Name: "Brown Rice", CaloriesPerServing: 216, ServingLabel: "cup cooked"},
		{Name: "Turkey Sandwich", CaloriesPerServing: 320, ServingLabel: "sandwich"},
		{Name: "Grilled Salmon", CaloriesPerServing: 208, ServingLabel: "100g"},
		{Name: "Pasta with Marinara", CaloriesPerServing: 380, ServingLabel: "plate"},
		{Name: "Steamed Broccoli", CaloriesPerServing: 55, ServingLabel: "cup"},
		{Name: "Baked Sweet Potato", CaloriesPerServing: 103, ServingLabel: "medium"},
		{Name: "Apple", CaloriesPerServing: 95, ServingLabel: "medium"},
		{Name: "Almonds", CaloriesPerServing: 164, ServingLabel: "1/4 cup"},
		{Name: "Protein Bar", CaloriesPerServing: 200, ServingLabel: "bar"},
		{Name: "Cottage Cheese", CaloriesPerServing: 110, ServingLabel: "1/2 cup"},
		{Name: "Coffee (Black)", CaloriesPerServing: 2, ServingLabel: "cup"},
		{Name: "Milk (Whole)", CaloriesPerServing: 149, ServingLabel: "cup"},
		{Name: "Protein Shake", CaloriesPerServing: 160, ServingLabel: "shake"},
		{Name: "Popcorn (Air-popped)", CaloriesPerServing: 93, ServingLabel: "3 cups"},
	}
	return db.Create(&builtin).Error
}
