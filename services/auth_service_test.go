package services

import (
	"testing"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"
)

func TestRegisterUserProvisionsAccount(t *testing.T) {
	setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	user, err := RegisterUser("new@test.com", "hunter22", "New User")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}

	// Registration provisions settings, bank account and XP in one go.
	var settings models.UserSettings
	if err := config.DB.Where("user_id = ?", user.ID).First(&settings).Error; err != nil {
		t.Errorf("settings not provisioned: %v", err)
	}
	var account models.BankAccount
	if err := config.DB.Where("user_id = ?", user.ID).First(&account).Error; err != nil {
		t.Errorf("bank account not provisioned: %v", err)
	}
	var xp models.UserXP
	if err := config.DB.Where("user_id = ?", user.ID).First(&xp).Error; err != nil {
		t.Errorf("xp row not provisioned: %v", err)
	}
	if xp.Level != 1 {
		t.Errorf("starting level = %d, want 1", xp.Level)
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	if _, err := RegisterUser("dup@test.com", "hunter22", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := RegisterUser("dup@test.com", "other", "")
	assertAppCode(t, err, utils.CodeEmailExists)
}

func TestAuthenticateUser(t *testing.T) {
	setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := RegisterUser("login@test.com", "hunter22", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := AuthenticateUser("login@test.com", "hunter22")
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}
	if token == "" {
		t.Error("empty token for valid credentials")
	}

	_, err = AuthenticateUser("login@test.com", "wrong")
	assertAppCode(t, err, utils.CodeInvalidCredentials)

	_, err = AuthenticateUser("nobody@test.com", "hunter22")
	assertAppCode(t, err, utils.CodeInvalidCredentials)
}
