package services

import (
	"errors"
	"testing"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"

	"gorm.io/gorm"
)

func TestGetAccountLazyCreate(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "lazy@test.com", 2000)
	bank := NewBankService()

	account, err := bank.GetAccount(userID)
	if err != nil {
		t.Fatalf("first GetAccount: %v", err)
	}
	if account.PointsBalance != 0 {
		t.Errorf("fresh account balance = %d, want 0", account.PointsBalance)
	}

	again, err := bank.GetAccount(userID)
	if err != nil {
		t.Fatalf("second GetAccount: %v", err)
	}
	if again.ID != account.ID {
		t.Errorf("second GetAccount returned a different account: %d != %d", again.ID, account.ID)
	}
}

func TestEarnPoints(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "earn@test.com", 2000)
	logMeal(t, userID, "2025-01-15", 1500)
	bank := NewBankService()

	res, err := bank.EarnPoints(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("EarnPoints: %v", err)
	}
	if res.LeftoverCalories != 500 {
		t.Errorf("leftover = %d, want 500", res.LeftoverCalories)
	}
	if res.EarnedPoints != 50 {
		t.Errorf("earned = %d, want 50", res.EarnedPoints)
	}
	if res.NewBalance != 50 {
		t.Errorf("new balance = %d, want 50", res.NewBalance)
	}
	if res.Transaction.Type != models.TxEarn {
		t.Errorf("transaction type = %s, want %s", res.Transaction.Type, models.TxEarn)
	}
	if res.Transaction.EarnDate == nil || *res.Transaction.EarnDate != "2025-01-15" {
		t.Errorf("transaction earn_date = %v, want 2025-01-15", res.Transaction.EarnDate)
	}
	if res.Transaction.CaloriesEquivalent != 500 {
		t.Errorf("calories equivalent = %d, want 500", res.Transaction.CaloriesEquivalent)
	}
}

func TestEarnPointsTwiceSameDate(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "dup@test.com", 2000)
	logMeal(t, userID, "2025-01-15", 1500)
	bank := NewBankService()

	if _, err := bank.EarnPoints(userID, "2025-01-15"); err != nil {
		t.Fatalf("first earn: %v", err)
	}
	_, err := bank.EarnPoints(userID, "2025-01-15")
	assertAppCode(t, err, utils.CodeAlreadyEarned)

	account, _ := bank.GetAccount(userID)
	if account.PointsBalance != 50 {
		t.Errorf("balance after rejected duplicate = %d, want 50", account.PointsBalance)
	}

	// A different date earns independently.
	logMeal(t, userID, "2025-01-16", 1800)
	res, err := bank.EarnPoints(userID, "2025-01-16")
	if err != nil {
		t.Fatalf("earn on second date: %v", err)
	}
	if res.NewBalance != 70 {
		t.Errorf("balance after second date = %d, want 70", res.NewBalance)
	}
}

func TestEarnPointsNoLeftover(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "over@test.com", 2000)
	bank := NewBankService()

	t.Run("over target", func(t *testing.T) {
		logMeal(t, userID, "2025-01-15", 2500)
		_, err := bank.EarnPoints(userID, "2025-01-15")
		assertAppCode(t, err, utils.CodeNoLeftover)
	})

	t.Run("leftover under one point", func(t *testing.T) {
		logMeal(t, userID, "2025-01-16", 1995)
		_, err := bank.EarnPoints(userID, "2025-01-16")
		assertAppCode(t, err, utils.CodeNoLeftover)
	})
}

func TestEarnPointsRequiresConfiguration(t *testing.T) {
	setupTestDB(t)
	bank := NewBankService()

	user := models.User{Email: "bare@test.com", Password: "x"}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := bank.EarnPoints(user.ID, "2025-01-15")
	assertAppCode(t, err, utils.CodeSettingsNotConfigured)

	settings := models.UserSettings{
		UserID:             user.ID,
		PointsPerCalorie:   utils.DefaultPointsPerCalorie,
		MaxDailyEarnPoints: utils.DefaultMaxDailyEarnPoints,
	}
	if err := config.DB.Create(&settings).Error; err != nil {
		t.Fatalf("create settings: %v", err)
	}

	_, err = bank.EarnPoints(user.ID, "2025-01-15")
	assertAppCode(t, err, utils.CodeProfileNotConfigured)
}

func TestEarnPointsCappedAtDailyMax(t *testing.T) {
	setupTestDB(t)
	// Target 5000 with nothing logged: raw 500 points, capped at 300.
	userID := seedUser(t, "cap@test.com", 5000)
	bank := NewBankService()

	res, err := bank.EarnPoints(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("EarnPoints: %v", err)
	}
	if res.EarnedPoints != utils.DefaultMaxDailyEarnPoints {
		t.Errorf("earned = %d, want cap %d", res.EarnedPoints, utils.DefaultMaxDailyEarnPoints)
	}
	if res.LeftoverCalories != 5000 {
		t.Errorf("leftover = %d, want 5000", res.LeftoverCalories)
	}
}

func TestEarnPointsInvalidDate(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "baddate@test.com", 2000)

	_, err := NewBankService().EarnPoints(userID, "15-01-2025")
	assertAppCode(t, err, "INVALID_DATE")
}

func TestWithdrawPoints(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "withdraw@test.com", 2000)
	bank := NewBankService()

	account, err := bank.GetAccount(userID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	setBalance(t, account.ID, 50)

	res, err := bank.WithdrawPoints(userID, 20, "cheat meal")
	if err != nil {
		t.Fatalf("WithdrawPoints: %v", err)
	}
	if res.NewBalance != 30 {
		t.Errorf("new balance = %d, want 30", res.NewBalance)
	}
	if res.CaloriesEquivalent != 200 {
		t.Errorf("calories equivalent = %d, want 200", res.CaloriesEquivalent)
	}
	if res.Transaction.Type != models.TxWithdraw {
		t.Errorf("transaction type = %s, want %s", res.Transaction.Type, models.TxWithdraw)
	}
	if res.Transaction.Note != "cheat meal" {
		t.Errorf("note = %q, want the caller's note", res.Transaction.Note)
	}
}

func TestWithdrawPointsInsufficient(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "broke@test.com", 2000)
	bank := NewBankService()

	account, _ := bank.GetAccount(userID)
	setBalance(t, account.ID, 10)

	_, err := bank.WithdrawPoints(userID, 20, "")
	assertAppCode(t, err, utils.CodeInsufficientBalance)

	_, err = bank.WithdrawPoints(userID, 0, "")
	assertAppCode(t, err, utils.CodeInvalidPoints)

	refreshed, _ := bank.GetAccount(userID)
	if refreshed.PointsBalance != 10 {
		t.Errorf("balance after rejected withdrawals = %d, want 10", refreshed.PointsBalance)
	}
}

// TestWithdrawReportsCommittedBalance drains the account between
// WithdrawPoints' balance read and its transaction. The rejection message
// must carry the balance the guard actually saw, not the stale pre-read.
func TestWithdrawReportsCommittedBalance(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "stale@test.com", 2000)
	bank := NewBankService()

	account, _ := bank.GetAccount(userID)
	setBalance(t, account.ID, 50)

	// One-shot: drops the balance to 10 right after the next account read.
	drained := false
	err := config.DB.Callback().Query().After("gorm:query").Register("drain_mid_withdraw", func(d *gorm.DB) {
		if drained || d.Statement.Table != "bank_accounts" {
			return
		}
		drained = true
		if err := config.DB.Model(&models.BankAccount{}).
			Where("id = ?", account.ID).
			UpdateColumn("points_balance", 10).Error; err != nil {
			t.Errorf("drain balance: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = bank.WithdrawPoints(userID, 20, "")
	if !drained {
		t.Fatal("drain was never injected")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != utils.CodeInsufficientBalance {
		t.Errorf("error code = %s, want %s", appErr.Code, utils.CodeInsufficientBalance)
	}
	if appErr.Message != "Insufficient balance. Available: 10 points" {
		t.Errorf("message = %q, want the committed 10-point balance", appErr.Message)
	}

	refreshed, _ := bank.GetAccount(userID)
	if refreshed.PointsBalance != 10 {
		t.Errorf("balance = %d, want 10 (no partial withdrawal)", refreshed.PointsBalance)
	}
}

func TestGetTransactions(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "history@test.com", 2000)
	bank := NewBankService()

	logMeal(t, userID, "2025-01-15", 1500)
	if _, err := bank.EarnPoints(userID, "2025-01-15"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := bank.WithdrawPoints(userID, 10, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	txns, err := bank.GetTransactions(userID, 0)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("len(txns) = %d, want 2", len(txns))
	}

	limited, err := bank.GetTransactions(userID, 1)
	if err != nil {
		t.Fatalf("GetTransactions limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}
}
