package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Process-wide conversion defaults. Per-user settings override these; no
// other file should repeat the literals.
const (
	DefaultPointsPerCalorie   = 0.1 // 1 point = 10 calories
	DefaultMaxDailyEarnPoints = 300
)

// CaloriesToPoints converts calories to points at the given rate, truncating
// toward zero. Earning always under-credits fractional calories, never
// over-credits.
func CaloriesToPoints(calories int, pointsPerCalorie float64) int {
	return int(decimal.NewFromInt(int64(calories)).
		Mul(decimal.NewFromFloat(pointsPerCalorie)).
		Floor().IntPart())
}

// PointsToCalories converts points back to calories, rounding half away from
// zero. Deliberately not the inverse of CaloriesToPoints: floor-then-round is
// lossy, biased against the user on earn and neutral on spend.
func PointsToCalories(points int, pointsPerCalorie float64) int {
	return int(decimal.NewFromInt(int64(points)).
		Div(decimal.NewFromFloat(pointsPerCalorie)).
		Round(0).IntPart())
}

type EarnedPoints struct {
	LeftoverCalories int `json:"leftover_calories"`
	EarnedPoints     int `json:"earned_points"`
}

// CalculateEarnedPoints converts a day's leftover calorie allowance into
// points, capped at maxDailyEarnPoints.
func CalculateEarnedPoints(consumedCalories, dailyTarget int, pointsPerCalorie float64, maxDailyEarnPoints int) EarnedPoints {
	leftover := dailyTarget - consumedCalories
	if leftover < 0 {
		leftover = 0
	}
	earned := CaloriesToPoints(leftover, pointsPerCalorie)
	if earned > maxDailyEarnPoints {
		earned = maxDailyEarnPoints
	}
	return EarnedPoints{LeftoverCalories: leftover, EarnedPoints: earned}
}

// ValidateWithdrawal checks a requested withdrawal against the current
// balance and returns its calorie equivalent.
func ValidateWithdrawal(requestedPoints, currentBalance int, pointsPerCalorie float64) (int, error) {
	if requestedPoints <= 0 {
		return 0, NewAppError(400, CodeInvalidPoints, "Points must be positive")
	}
	if requestedPoints > currentBalance {
		return 0, NewAppError(400, CodeInsufficientBalance,
			fmt.Sprintf("Insufficient balance. Available: %d points", currentBalance))
	}
	return PointsToCalories(requestedPoints, pointsPerCalorie), nil
}

type PotProgress struct {
	Percentage    float64 `json:"percentage"`
	SavedCalories int     `json:"saved_calories"`
	Remaining     int     `json:"remaining"`
}

// CalculatePotProgress reports how far a pot is toward its calorie target.
// Percentage is capped at 100 and rounded to one decimal.
func CalculatePotProgress(savedPoints, targetCalories int, pointsPerCalorie float64) PotProgress {
	targetPoints := CaloriesToPoints(targetCalories, pointsPerCalorie)
	percentage := 0.0
	if targetPoints > 0 {
		percentage = float64(savedPoints) / float64(targetPoints) * 100
		if percentage > 100 {
			percentage = 100
		}
	}
	savedCalories := PointsToCalories(savedPoints, pointsPerCalorie)
	remaining := targetCalories - savedCalories
	if remaining < 0 {
		remaining = 0
	}
	return PotProgress{
		Percentage:    math.Round(percentage*10) / 10,
		SavedCalories: savedCalories,
		Remaining:     remaining,
	}
}

type SavingRate struct {
	DailyCalories int `json:"daily_calories"`
	DailyPoints   int `json:"daily_points"`
	DaysRemaining int `json:"days_remaining"`
}

// CalculateDailySavingRate suggests how much to save per day to fund the
// remaining calories by the due date. Due dates in the past or today still
// count as one day so a suggested rate always exists.
func CalculateDailySavingRate(remainingCalories int, dueDate time.Time, pointsPerCalorie float64) SavingRate {
	daysRemaining := int(math.Ceil(time.Until(dueDate).Hours() / 24))
	if daysRemaining < 1 {
		daysRemaining = 1
	}
	dailyCalories := int(math.Ceil(float64(remainingCalories) / float64(daysRemaining)))
	return SavingRate{
		DailyCalories: dailyCalories,
		DailyPoints:   CaloriesToPoints(dailyCalories, pointsPerCalorie),
		DaysRemaining: daysRemaining,
	}
}
