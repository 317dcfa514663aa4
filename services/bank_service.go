package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankService owns the earn/withdraw state transitions. The balance never
// goes negative, and at most one EARN succeeds per user per calendar date.
type BankService struct {
	meals *MealService
}

func NewBankService() *BankService {
	return &BankService{meals: NewMealService()}
}

// GetAccount returns the user's account, creating one with zero balance on
// first access.
func (s *BankService) GetAccount(userID uint) (*models.BankAccount, error) {
	var account models.BankAccount
	err := config.DB.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.BankAccount{UserID: userID}
		if err := config.DB.Create(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *BankService) GetTransactions(userID uint, limit int) ([]models.BankTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	var txns []models.BankTransaction
	err = config.DB.
		Preload("Pot").
		Where("bank_account_id = ?", account.ID).
		Order("created_at desc").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

type EarnResult struct {
	Transaction      models.BankTransaction `json:"transaction"`
	LeftoverCalories int                    `json:"leftover_calories"`
	EarnedPoints     int                    `json:"earned_points"`
	NewBalance       int                    `json:"new_balance"`
}

// EarnPoints converts the date's leftover calorie allowance into points and
// credits them. The EARN row and the balance increment commit atomically; the
// unique (account, earn_date) index rejects a duplicate even when two
// requests race past the pre-check.
func (s *BankService) EarnPoints(userID uint, dateStr string) (*EarnResult, error) {
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
	}

	settings, err := getSettingsStrict(userID)
	if err != nil {
		return nil, err
	}
	profile, err := getProfileStrict(userID)
	if err != nil {
		return nil, err
	}

	consumed, err := s.meals.GetDailyCalories(userID, dateStr)
	if err != nil {
		return nil, err
	}

	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index is the actual guarantee.
	var existing models.BankTransaction
	err = config.DB.
		Where("bank_account_id = ? AND earn_date = ?", account.ID, dateStr).
		First(&existing).Error
	if err == nil {
		return nil, utils.NewAppError(400, utils.CodeAlreadyEarned, "Already earned points for this date")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	earned := utils.CalculateEarnedPoints(consumed, profile.DailyTargetCalories,
		settings.PointsPerCalorie, settings.MaxDailyEarnPoints)
	if earned.EarnedPoints <= 0 {
		return nil, utils.NewAppError(400, utils.CodeNoLeftover, "No leftover calories to earn points from")
	}

	txn := models.BankTransaction{
		BankAccountID:      account.ID,
		Reference:          uuid.NewString(),
		Type:               models.TxEarn,
		Points:             earned.EarnedPoints,
		CaloriesEquivalent: utils.PointsToCalories(earned.EarnedPoints, settings.PointsPerCalorie),
		Note:               fmt.Sprintf("Earned from %s (%d cal leftover)", dateStr, earned.LeftoverCalories),
		EarnDate:           &dateStr,
	}

	var newBalance int
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewAppError(400, utils.CodeAlreadyEarned, "Already earned points for this date")
			}
			return err
		}
		if err := tx.Model(&models.BankAccount{}).
			Where("id = ?", account.ID).
			UpdateColumn("points_balance", gorm.Expr("points_balance + ?", earned.EarnedPoints)).Error; err != nil {
			return err
		}
		return tx.Select("points_balance").First(account, account.ID).Error
	})
	if err != nil {
		return nil, err
	}
	newBalance = account.PointsBalance

	EmitEvent(DomainEvent{
		Type:     EventPointsEarned,
		UserID:   userID,
		Date:     dateStr,
		Points:   earned.EarnedPoints,
		Calories: txn.CaloriesEquivalent,
	})

	return &EarnResult{
		Transaction:      txn,
		LeftoverCalories: earned.LeftoverCalories,
		EarnedPoints:     earned.EarnedPoints,
		NewBalance:       newBalance,
	}, nil
}

type WithdrawResult struct {
	Transaction        models.BankTransaction `json:"transaction"`
	CaloriesEquivalent int                    `json:"calories_equivalent"`
	NewBalance         int                    `json:"new_balance"`
}

// WithdrawPoints spends points for an extra calorie allowance. The decrement
// is conditioned on sufficiency at commit time, so concurrent withdrawals
// cannot drive the balance negative.
func (s *BankService) WithdrawPoints(userID uint, points int, note string) (*WithdrawResult, error) {
	settings, err := getSettingsStrict(userID)
	if err != nil {
		return nil, err
	}
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	caloriesEquivalent, err := utils.ValidateWithdrawal(points, account.PointsBalance, settings.PointsPerCalorie)
	if err != nil {
		return nil, err
	}

	if note == "" {
		note = "Withdrawal for extra allowance"
	}
	txn := models.BankTransaction{
		BankAccountID:      account.ID,
		Reference:          uuid.NewString(),
		Type:               models.TxWithdraw,
		Points:             points,
		CaloriesEquivalent: caloriesEquivalent,
		Note:               note,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BankAccount{}).
			Where("id = ? AND points_balance >= ?", account.ID, points).
			UpdateColumn("points_balance", gorm.Expr("points_balance - ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The guard only fires when the pre-read balance is stale, so
			// re-read before reporting what is actually available.
			var current models.BankAccount
			if err := tx.Select("points_balance").First(&current, account.ID).Error; err != nil {
				return err
			}
			return utils.NewAppError(400, utils.CodeInsufficientBalance,
				fmt.Sprintf("Insufficient balance. Available: %d points", current.PointsBalance))
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.Select("points_balance").First(account, account.ID).Error
	})
	if err != nil {
		return nil, err
	}

	EmitEvent(DomainEvent{
		Type:     EventPointsWithdrawn,
		UserID:   userID,
		Points:   points,
		Calories: caloriesEquivalent,
	})

	return &WithdrawResult{
		Transaction:        txn,
		CaloriesEquivalent: caloriesEquivalent,
		NewBalance:         account.PointsBalance,
	}, nil
}

func getSettingsStrict(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := config.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewAppError(400, utils.CodeSettingsNotConfigured, "Settings not configured")
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func getProfileStrict(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := config.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewAppError(400, utils.CodeProfileNotConfigured, "Profile not configured")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
