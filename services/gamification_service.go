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

// Gamification is driven off the event bus, never called inline from ledger
// code — a failure here can't block or corrupt a financial operation.

// AddXP credits experience and keeps level = floor(sqrt(totalXp/100)) + 1
// consistent, granting level-threshold achievements on level-up.
func AddXP(userID uint, amount int) (*models.UserXP, error) {
	xp, err := getOrCreateXP(userID)
	if err != nil {
		return nil, err
	}

	oldLevel := xp.Level
	xp.TotalXP += amount
	xp.Level = utils.CalculateLevel(xp.TotalXP)
	if err := config.DB.Save(xp).Error; err != nil {
		return nil, err
	}

	if xp.Level > oldLevel {
		EmitEvent(DomainEvent{Type: EventLevelUp, UserID: userID, Points: xp.Level})
		if err := checkLevelAchievements(userID, xp.Level); err != nil {
			return nil, err
		}
	}
	return xp, nil
}

// UpdateStreak advances the logging streak for a meal logged on date:
// +1 if the previous log was exactly the day before, hold if same day,
// reset to 1 otherwise. Bonus XP scales with streak length past day one.
func UpdateStreak(userID uint, dateStr string) (*models.UserXP, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, utils.NewAppError(400, "INVALID_DATE", "date must be YYYY-MM-DD")
	}

	xp, err := getOrCreateXP(userID)
	if err != nil {
		return nil, err
	}

	newStreak := 1
	if xp.LastLogDate != nil {
		// Round, not truncate: a DST day is 23 or 25 hours.
		diffDays := int(math.Round(date.Sub(*xp.LastLogDate).Hours() / 24))
		switch diffDays {
		case 1:
			newStreak = xp.CurrentStreak + 1
		case 0:
			newStreak = xp.CurrentStreak
		}
	}
	if newStreak == 0 {
		newStreak = 1
	}

	xp.CurrentStreak = newStreak
	if newStreak > xp.LongestStreak {
		xp.LongestStreak = newStreak
	}
	xp.LastLogDate = &date
	if err := config.DB.Save(xp).Error; err != nil {
		return nil, err
	}

	if newStreak > 1 {
		if _, err := AddXP(userID, utils.XPStreakBonusPerDay*newStreak); err != nil {
			return nil, err
		}
	}

	if newStreak >= 7 {
		if err := GrantAchievement(userID, "WEEK_WARRIOR"); err != nil {
			return nil, err
		}
	}
	if newStreak >= 30 {
		if err := GrantAchievement(userID, "MONTH_MASTER"); err != nil {
			return nil, err
		}
	}
	return xp, nil
}

// GrantAchievement is idempotent: granting twice is a no-op. A fresh grant
// awards the achievement's XP, which may itself cascade a level-up check.
func GrantAchievement(userID uint, key string) error {
	var achievement models.Achievement
	err := config.DB.Where("key = ?", key).First(&achievement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var existing models.UserAchievement
	err = config.DB.
		Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	ua := models.UserAchievement{UserID: userID, AchievementID: achievement.ID}
	if err := config.DB.Create(&ua).Error; err != nil {
		// Concurrent grant lost the race on the unique index: already granted.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	EmitEvent(DomainEvent{Type: EventAchievement, UserID: userID, Detail: achievement.Key})
	_, err = AddXP(userID, achievement.XPReward)
	return err
}

func checkLevelAchievements(userID uint, level int) error {
	if level >= 5 {
		if err := GrantAchievement(userID, "LEVEL_5"); err != nil {
			return err
		}
	}
	if level >= 10 {
		return GrantAchievement(userID, "LEVEL_10")
	}
	return nil
}

func GetXP(userID uint) (*models.UserXP, error) {
	return getOrCreateXP(userID)
}

type AchievementStatus struct {
	models.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// GetAchievements lists the full catalog with the user's earned flags.
func GetAchievements(userID uint) ([]AchievementStatus, error) {
	var all []models.Achievement
	if err := config.DB.Order("id asc").Find(&all).Error; err != nil {
		return nil, err
	}

	var earned []models.UserAchievement
	if err := config.DB.Where("user_id = ?", userID).Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedAt := make(map[uint]time.Time, len(earned))
	for _, ua := range earned {
		earnedAt[ua.AchievementID] = ua.CreatedAt
	}

	out := make([]AchievementStatus, 0, len(all))
	for _, a := range all {
		status := AchievementStatus{Achievement: a}
		if at, ok := earnedAt[a.ID]; ok {
			status.Earned = true
			t := at
			status.EarnedAt = &t
		}
		out = append(out, status)
	}
	return out, nil
}

// SeedAchievements loads the static catalog, inserting only missing keys.
func SeedAchievements(db *gorm.DB) error {
	for _, def := range utils.AchievementCatalog {
		var existing models.Achievement
		err := db.Where("key = ?", def.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		a := models.Achievement{
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
		}
		if err := db.Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}

func getOrCreateXP(userID uint) (*models.UserXP, error) {
	var xp models.UserXP
	err := config.DB.Where("user_id = ?", userID).First(&xp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		xp = models.UserXP{UserID: userID, Level: 1}
		if err := config.DB.Create(&xp).Error; err != nil {
			return nil, err
		}
		return &xp, nil
	}
	if err != nil {
		return nil, err
	}
	return &xp, nil
}

// HandleGamificationEvent is the event-bus subscriber that maps domain
// events to XP and achievements.
func HandleGamificationEvent(e DomainEvent) error {
	switch e.Type {
	case EventMealLogged:
		if _, err := AddXP(e.UserID, utils.XPLogMeal); err != nil {
			return err
		}
		if _, err := UpdateStreak(e.UserID, e.Date); err != nil {
			return err
		}
		return GrantAchievement(e.UserID, "FIRST_BITE")
	case EventPointsEarned:
		if _, err := AddXP(e.UserID, utils.XPUnderTarget); err != nil {
			return err
		}
		return checkSaverAchievements(e.UserID)
	case EventPotCreated:
		if _, err := AddXP(e.UserID, utils.XPCreatePot); err != nil {
			return err
		}
		return GrantAchievement(e.UserID, "POT_CREATOR")
	case EventPotAllocated:
		_, err := AddXP(e.UserID, utils.XPAllocateToPot)
		return err
	case EventPotRedeemed:
		if _, err := AddXP(e.UserID, utils.XPRedeemPot); err != nil {
			return err
		}
		return GrantAchievement(e.UserID, "POT_MASTER")
	}
	return nil
}

// checkSaverAchievements grants SAVER / SUPER_SAVER off lifetime earned
// calories (sum of EARN calorie equivalents across the user's account).
func checkSaverAchievements(userID uint) error {
	var total int64
	err := config.DB.
		Model(&models.BankTransaction{}).
		Joins("JOIN bank_accounts ON bank_accounts.id = bank_transactions.bank_account_id").
		Where("bank_accounts.user_id = ? AND bank_transactions.type = ?", userID, models.TxEarn).
		Select("COALESCE(SUM(bank_transactions.calories_equivalent), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	if total >= 1000 {
		if err := GrantAchievement(userID, "SAVER"); err != nil {
			return err
		}
	}
	if total >= 5000 {
		return GrantAchievement(userID, "SUPER_SAVER")
	}
	return nil
}
