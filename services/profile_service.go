package services

import (
	"errors"
	"time"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

type ProfileInput struct {
	HeightCm        float64 `json:"height_cm" binding:"required,gt=0"`
	CurrentWeightKg float64 `json:"current_weight_kg" binding:"required,gt=0"`
	GoalWeightKg    float64 `json:"goal_weight_kg" binding:"required,gt=0"`
	ActivityLevel   string  `json:"activity_level" binding:"required"`
	GoalPace        string  `json:"goal_pace" binding:"required"`
	Gender          string  `json:"gender" binding:"required"`
	DateOfBirth     string  `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
}

func GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := config.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("Profile not found. Complete onboarding first.")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the profile and recomputes the daily
// calorie target from the new biometrics. The stored target is never stale.
func UpsertProfile(userID uint, input ProfileInput) (*models.UserProfile, error) {
	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "date_of_birth must be YYYY-MM-DD")
	}

	age := utils.CalculateAge(dob)
	target := utils.CalculateTargetFromProfile(
		input.CurrentWeightKg, input.HeightCm, age,
		input.Gender, input.ActivityLevel, input.GoalPace,
	)

	var profile models.UserProfile
	err = config.DB.Where("user_id = ?", userID).First(&profile).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return nil, err
	}

	profile.UserID = userID
	profile.HeightCm = input.HeightCm
	profile.CurrentWeightKg = input.CurrentWeightKg
	profile.GoalWeightKg = input.GoalWeightKg
	profile.ActivityLevel = input.ActivityLevel
	profile.GoalPace = input.GoalPace
	profile.Gender = input.Gender
	profile.DateOfBirth = dob
	profile.DailyTargetCalories = target.DailyTarget

	if err := config.DB.Save(&profile).Error; err != nil {
		return nil, err
	}

	// First save seeds the weight history with the onboarding weight.
	if created {
		entry := models.WeightEntry{UserID: userID, Date: dayStart(time.Now()), WeightKg: input.CurrentWeightKg}
		if err := config.DB.Create(&entry).Error; err != nil {
			return nil, err
		}
	}

	return &profile, nil
}

// LogWeight appends to the weight history and recomputes the target with the
// new weight. History entries are never updated or removed.
func LogWeight(userID uint, weightKg float64, dateStr string) (*models.UserProfile, error) {
	profile, err := GetProfile(userID)
	if err != nil {
		return nil, err
	}

	date := dayStart(time.Now())
	if dateStr != "" {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
		}
		date = d
	}

	entry := models.WeightEntry{UserID: userID, Date: date, WeightKg: weightKg}
	if err := config.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	age := utils.CalculateAge(profile.DateOfBirth)
	target := utils.CalculateTargetFromProfile(
		weightKg, profile.HeightCm, age,
		profile.Gender, profile.ActivityLevel, profile.GoalPace,
	)

	profile.CurrentWeightKg = weightKg
	profile.DailyTargetCalories = target.DailyTarget
	if err := config.DB.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func GetWeightHistory(userID uint) ([]models.WeightEntry, error) {
	var entries []models.WeightEntry
	err := config.DB.
		Where("user_id = ?", userID).
		Order("date asc").
		Find(&entries).Error
	return entries, err
}

func dayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}
