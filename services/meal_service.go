package services

import (
	"errors"
	"math"
	"time"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

type MealItemRequest struct {
	FoodItemID uint    `json:"food_item_id" binding:"required"`
	Servings   float64 `json:"servings" binding:"required,gt=0"`
}

type MealService struct{}

func NewMealService() *MealService {
	return &MealService{}
}

// CreateMeal logs a meal against a calendar date. Calories are computed per
// item at log time (round(caloriesPerServing * servings)) and snapshotted —
// later edits to the food item don't rewrite history.
func (s *MealService) CreateMeal(userID uint, dateStr, mealType string, items []MealItemRequest) (*models.MealEntry, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
	}
	if len(items) == 0 {
		return nil, utils.NewAppError(400, "NO_ITEMS", "At least one food item is required")
	}

	meal := models.MealEntry{UserID: userID, Date: date, MealType: mealType}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&meal).Error; err != nil {
			return err
		}
		for _, it := range items {
			var food models.FoodItem
			if err := tx.First(&food, it.FoodItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrNotFound("Food item not found")
				}
				return err
			}
			mi := models.MealEntryItem{
				MealEntryID:      meal.ID,
				FoodItemID:       food.ID,
				Servings:         it.Servings,
				ComputedCalories: int(math.Round(food.CaloriesPerServing * it.Servings)),
			}
			if err := tx.Create(&mi).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var populated models.MealEntry
	if err := config.DB.Preload("Items.FoodItem").First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}

	EmitEvent(DomainEvent{Type: EventMealLogged, UserID: userID, Date: dateStr})
	return &populated, nil
}

func (s *MealService) ListMeals(userID uint, dateStr string) ([]models.MealEntry, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
	}

	var meals []models.MealEntry
	err = config.DB.
		Preload("Items.FoodItem").
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at asc").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) DeleteMeal(userID, mealID uint) error {
	var meal models.MealEntry
	if err := config.DB.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("Meal not found")
		}
		return err
	}
	if meal.UserID != userID {
		return utils.ErrNotAuthorized()
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_entry_id = ?", meal.ID).Delete(&models.MealEntryItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meal).Error
	})
}

// GetDailyCalories sums the computed calories of every meal item the user
// logged for the date. This is the consumption lookup the bank ledger uses.
func (s *MealService) GetDailyCalories(userID uint, dateStr string) (int, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return 0, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
	}

	var total int64
	err = config.DB.
		Model(&models.MealEntryItem{}).
		Joins("JOIN meal_entries ON meal_entries.id = meal_entry_items.meal_entry_id").
		Where("meal_entries.user_id = ? AND meal_entries.date = ? AND meal_entries.deleted_at IS NULL", userID, date).
		Select("COALESCE(SUM(meal_entry_items.computed_calories), 0)").
		Scan(&total).Error
	return int(total), err
}
