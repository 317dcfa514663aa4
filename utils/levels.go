package utils

import "math"

// XP rewards per event.
const (
	XPLogMeal           = 10
	XPUnderTarget       = 25
	XPAllocateToPot     = 15
	XPStreakBonusPerDay = 5
	XPRedeemPot         = 20
	XPCreatePot         = 10
)

// CalculateLevel derives level from total XP: floor(sqrt(totalXP/100)) + 1.
func CalculateLevel(totalXp int) int {
	return int(math.Floor(math.Sqrt(float64(totalXp)/100))) + 1
}

// XPForLevel is the total XP at which the given level starts.
func XPForLevel(level int) int {
	return (level - 1) * (level - 1) * 100
}

// XPForNextLevel is the total XP needed to leave the given level.
func XPForNextLevel(currentLevel int) int {
	return currentLevel * currentLevel * 100
}

type AchievementDef struct {
	Key         string
	Title       string
	Description string
	Icon        string
	XPReward    int
}

// AchievementCatalog is the static set of achievement definitions, seeded
// into the database at startup.
var AchievementCatalog = []AchievementDef{
	{Key: "FIRST_BITE", Title: "First Bite", Description: "Log your first meal", Icon: "🍽️", XPReward: 50},
	{Key: "WEEK_WARRIOR", Title: "Week Warrior", Description: "7-day logging streak", Icon: "🔥", XPReward: 100},
	{Key: "MONTH_MASTER", Title: "Month Master", Description: "30-day logging streak", Icon: "👑", XPReward: 500},
	{Key: "SAVER", Title: "Saver", Description: "Save 1,000 calories in the bank", Icon: "💰", XPReward: 100},
	{Key: "SUPER_SAVER", Title: "Super Saver", Description: "Save 5,000 calories in the bank", Icon: "🏦", XPReward: 250},
	{Key: "POT_CREATOR", Title: "Pot Creator", Description: "Create your first pot", Icon: "🎯", XPReward: 50},
	{Key: "POT_MASTER", Title: "Pot Master", Description: "Redeem a pot", Icon: "🎉", XPReward: 200},
	{Key: "UNDER_CONTROL", Title: "Under Control", Description: "7 consecutive days under target", Icon: "✅", XPReward: 150},
	{Key: "LEVEL_5", Title: "Rising Star", Description: "Reach level 5", Icon: "⭐", XPReward: 100},
	{Key: "LEVEL_10", Title: "Fitness Legend", Description: "Reach level 10", Icon: "🌟", XPReward: 300},
}
