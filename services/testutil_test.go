package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory sqlite database, named
// after the test so parallel packages can't collide. The shared cache keeps
// the database alive across the pool's connections for the test's duration.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

// seedUser creates a user with settings at the default conversion rate and a
// profile whose daily target is the given calorie count.
func seedUser(t *testing.T, email string, dailyTarget int) uint {
	t.Helper()

	user := models.User{Email: email, Password: "x", FullName: "Test User"}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	settings := models.UserSettings{
		UserID:             user.ID,
		PointsPerCalorie:   utils.DefaultPointsPerCalorie,
		MaxDailyEarnPoints: utils.DefaultMaxDailyEarnPoints,
	}
	if err := config.DB.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	profile := models.UserProfile{
		UserID:              user.ID,
		HeightCm:            175,
		CurrentWeightKg:     80,
		GoalWeightKg:        75,
		ActivityLevel:       "MODERATE",
		GoalPace:            "NORMAL",
		Gender:              utils.GenderMale,
		DateOfBirth:         time.Date(1995, 6, 1, 0, 0, 0, 0, time.Local),
		DailyTargetCalories: dailyTarget,
	}
	if err := config.DB.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return user.ID
}

// logMeal creates a single-item meal whose snapshot totals the given calories.
func logMeal(t *testing.T, userID uint, dateStr string, calories int) {
	t.Helper()

	food := models.FoodItem{Name: "test food", CaloriesPerServing: float64(calories), ServingLabel: "1 serving"}
	if err := config.DB.Create(&food).Error; err != nil {
		t.Fatalf("seed food: %v", err)
	}
	if _, err := NewMealService().CreateMeal(userID, dateStr, "LUNCH", []MealItemRequest{
		{FoodItemID: food.ID, Servings: 1},
	}); err != nil {
		t.Fatalf("log meal: %v", err)
	}
}

// setBalance forces an account balance directly, bypassing the earn pipeline.
func setBalance(t *testing.T, accountID uint, balance int) {
	t.Helper()
	if err := config.DB.Model(&models.BankAccount{}).
		Where("id = ?", accountID).
		UpdateColumn("points_balance", balance).Error; err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError with code %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("error code = %s, want %s", appErr.Code, code)
	}
}

func hasAchievement(t *testing.T, userID uint, key string) bool {
	t.Helper()
	statuses, err := GetAchievements(userID)
	if err != nil {
		t.Fatalf("get achievements: %v", err)
	}
	for _, s := range statuses {
		if s.Key == key {
			return s.Earned
		}
	}
	t.Fatalf("achievement %s not in catalog", key)
	return false
}
