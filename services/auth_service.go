package services

import (
	"errors"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

// RegisterUser creates the user plus its settings, bank account and XP rows
// in one transaction, so every account starts fully provisioned.
func RegisterUser(email, password, fullName string) (*models.User, error) {
	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, utils.NewAppError(409, utils.CodeEmailExists, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Email: email, Password: hashed, FullName: fullName}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewAppError(409, utils.CodeEmailExists, "Email already registered")
			}
			return err
		}
		settings := models.UserSettings{
			UserID:             user.ID,
			PointsPerCalorie:   utils.DefaultPointsPerCalorie,
			MaxDailyEarnPoints: utils.DefaultMaxDailyEarnPoints,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.BankAccount{UserID: user.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserXP{UserID: user.ID, Level: 1}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies credentials and issues a JWT.
func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(password, user.Password) {
		return "", utils.NewAppError(401, utils.CodeInvalidCredentials, "Invalid email or password")
	}

	return utils.GenerateJWT(user.ID, user.Email)
}
