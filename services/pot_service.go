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

// PotService moves points between the bank account and savings pots.
// Allocation and deletion-refund are conserving transfers; only EARN adds
// points to the system and only WITHDRAW/REDEEM remove them.
type PotService struct {
	bank *BankService
}

func NewPotService() *PotService {
	return &PotService{bank: NewBankService()}
}

type PotWithProgress struct {
	models.Pot
	utils.PotProgress
	utils.SavingRate
}

// ListPots returns the user's pots newest-first with progress and suggested
// saving rate merged in at the current conversion rate.
func (s *PotService) ListPots(userID uint) ([]PotWithProgress, error) {
	settings, err := GetOrCreateSettings(userID)
	if err != nil {
		return nil, err
	}

	var pots []models.Pot
	err = config.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&pots).Error
	if err != nil {
		return nil, err
	}

	out := make([]PotWithProgress, 0, len(pots))
	for _, pot := range pots {
		progress := utils.CalculatePotProgress(pot.SavedPoints, pot.TargetCalories, settings.PointsPerCalorie)
		rate := utils.CalculateDailySavingRate(progress.Remaining, pot.DueDate, settings.PointsPerCalorie)
		out = append(out, PotWithProgress{Pot: pot, PotProgress: progress, SavingRate: rate})
	}
	return out, nil
}

func (s *PotService) CreatePot(userID uint, title string, targetCalories int, dueDateStr string) (*models.Pot, error) {
	if targetCalories < 100 {
		return nil, utils.NewAppError(400, "INVALID_TARGET", "Minimum 100 calories")
	}
	dueDate, err := time.ParseInLocation("2006-01-02", dueDateStr, time.Local)
	if err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "due_date must be YYYY-MM-DD")
	}

	pot := models.Pot{
		UserID:         userID,
		Title:          title,
		TargetCalories: targetCalories,
		DueDate:        dueDate,
	}
	if err := config.DB.Create(&pot).Error; err != nil {
		return nil, err
	}

	EmitEvent(DomainEvent{Type: EventPotCreated, UserID: userID, Detail: pot.Title})
	return &pot, nil
}

type AllocateResult struct {
	Transaction    models.BankTransaction `json:"transaction"`
	NewBankBalance int                    `json:"new_bank_balance"`
}

// AllocateToPot transfers points bank → pot. Transaction row, balance
// decrement and pot increment commit as one unit; total points across
// bank + pots are conserved.
func (s *PotService) AllocateToPot(userID, potID uint, points int) (*AllocateResult, error) {
	pot, err := getOwnedPot(userID, potID)
	if err != nil {
		return nil, err
	}
	if pot.IsRedeemed {
		return nil, utils.NewAppError(400, utils.CodePotRedeemed, "Pot already redeemed")
	}
	if points <= 0 {
		return nil, utils.NewAppError(400, utils.CodeInvalidPoints, "Points must be positive")
	}

	account, err := s.bank.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if points > account.PointsBalance {
		return nil, utils.NewAppError(400, utils.CodeInsufficientBalance, "Insufficient bank balance")
	}

	settings, err := GetOrCreateSettings(userID)
	if err != nil {
		return nil, err
	}

	txn := models.BankTransaction{
		BankAccountID:      account.ID,
		Reference:          uuid.NewString(),
		Type:               models.TxAllocate,
		Points:             points,
		CaloriesEquivalent: utils.PointsToCalories(points, settings.PointsPerCalorie),
		Note:               fmt.Sprintf("Allocated to pot: %s", pot.Title),
		PotID:              &pot.ID,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BankAccount{}).
			Where("id = ? AND points_balance >= ?", account.ID, points).
			UpdateColumn("points_balance", gorm.Expr("points_balance - ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NewAppError(400, utils.CodeInsufficientBalance, "Insufficient bank balance")
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		// Guard on is_redeemed at commit time: the ownership read above
		// happens outside this transaction, so the pot may have been
		// redeemed (or deleted) in between.
		res = tx.Model(&models.Pot{}).
			Where("id = ? AND is_redeemed = ?", pot.ID, false).
			UpdateColumn("saved_points", gorm.Expr("saved_points + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NewAppError(400, utils.CodePotRedeemed, "Pot already redeemed")
		}
		return tx.Select("points_balance").First(account, account.ID).Error
	})
	if err != nil {
		return nil, err
	}

	EmitEvent(DomainEvent{Type: EventPotAllocated, UserID: userID, Points: points, Detail: pot.Title})
	return &AllocateResult{Transaction: txn, NewBankBalance: account.PointsBalance}, nil
}

type RedeemResult struct {
	Transaction        models.BankTransaction `json:"transaction"`
	CaloriesEquivalent int                    `json:"calories_equivalent"`
	Pot                models.Pot             `json:"pot"`
}

// RedeemPot marks the pot redeemed and records a REDEEM transaction. The
// bank balance is untouched — those points left the bank at allocation time.
// The returned calorie equivalent is a one-time informational grant; applying
// it to any daily allowance is the caller's concern.
func (s *PotService) RedeemPot(userID, potID uint) (*RedeemResult, error) {
	pot, err := getOwnedPot(userID, potID)
	if err != nil {
		return nil, err
	}
	if pot.IsRedeemed {
		return nil, utils.NewAppError(400, utils.CodePotRedeemed, "Pot already redeemed")
	}

	account, err := s.bank.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	settings, err := GetOrCreateSettings(userID)
	if err != nil {
		return nil, err
	}

	caloriesEquivalent := utils.PointsToCalories(pot.SavedPoints, settings.PointsPerCalorie)
	txn := models.BankTransaction{
		BankAccountID:      account.ID,
		Reference:          uuid.NewString(),
		Type:               models.TxRedeem,
		Points:             pot.SavedPoints,
		CaloriesEquivalent: caloriesEquivalent,
		Note:               fmt.Sprintf("Redeemed pot: %s", pot.Title),
		PotID:              &pot.ID,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		// Guard on is_redeemed so a concurrent redeem can't double-record.
		res := tx.Model(&models.Pot{}).
			Where("id = ? AND is_redeemed = ?", pot.ID, false).
			UpdateColumn("is_redeemed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NewAppError(400, utils.CodePotRedeemed, "Pot already redeemed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	pot.IsRedeemed = true

	EmitEvent(DomainEvent{
		Type:     EventPotRedeemed,
		UserID:   userID,
		Points:   pot.SavedPoints,
		Calories: caloriesEquivalent,
		Detail:   pot.Title,
	})
	return &RedeemResult{Transaction: txn, CaloriesEquivalent: caloriesEquivalent, Pot: *pot}, nil
}

// DeletePot removes a pot. A non-redeemed pot's saved points go back to the
// bank first — the one case where points move pot → bank — so deletion never
// destroys points.
func (s *PotService) DeletePot(userID, potID uint) error {
	pot, err := getOwnedPot(userID, potID)
	if err != nil {
		return err
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction: saved_points may have grown via
		// a concurrent allocation since the ownership read, and refunding
		// the stale figure would destroy the difference.
		var current models.Pot
		if err := tx.First(&current, pot.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound("Pot not found")
			}
			return err
		}

		if !current.IsRedeemed && current.SavedPoints > 0 {
			account, err := s.bank.GetAccount(userID)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.BankAccount{}).
				Where("id = ?", account.ID).
				UpdateColumn("points_balance", gorm.Expr("points_balance + ?", current.SavedPoints)).Error; err != nil {
				return err
			}
		}

		// Delete only while saved_points still matches the refunded figure;
		// otherwise roll the refund back and let the caller retry.
		res := tx.Where("saved_points = ?", current.SavedPoints).Delete(&models.Pot{}, current.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NewAppError(409, "CONFLICT", "Pot changed during delete, retry")
		}
		return nil
	})
}

func getOwnedPot(userID, potID uint) (*models.Pot, error) {
	var pot models.Pot
	err := config.DB.First(&pot, potID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("Pot not found")
	}
	if err != nil {
		return nil, err
	}
	if pot.UserID != userID {
		return nil, utils.ErrNotAuthorized()
	}
	return &pot, nil
}
