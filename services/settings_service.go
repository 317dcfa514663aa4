package services

import (
	"errors"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

// GetOrCreateSettings returns the user's settings, creating a row with the
// process-wide defaults on first access.
func GetOrCreateSettings(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := config.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{
			UserID:             userID,
			PointsPerCalorie:   utils.DefaultPointsPerCalorie,
			MaxDailyEarnPoints: utils.DefaultMaxDailyEarnPoints,
		}
		if err := config.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpdateSettings(userID uint, pointsPerCalorie *float64, maxDailyEarnPoints *int) (*models.UserSettings, error) {
	settings, err := GetOrCreateSettings(userID)
	if err != nil {
		return nil, err
	}

	if pointsPerCalorie != nil {
		settings.PointsPerCalorie = *pointsPerCalorie
	}
	if maxDailyEarnPoints != nil {
		settings.MaxDailyEarnPoints = *maxDailyEarnPoints
	}

	if err := config.DB.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
