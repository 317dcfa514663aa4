package utils

import (
	"math"
	"time"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// ActivityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used
// for input validation in the profile controller.
var ActivityMultipliers = map[string]float64{
	"SEDENTARY":   1.2,
	"LIGHT":       1.375,
	"MODERATE":    1.55,
	"ACTIVE":      1.725,
	"VERY_ACTIVE": 1.9,
}

// DeficitByPace maps goal pace to the daily calorie deficit it implies.
var DeficitByPace = map[string]int{
	"SLOW":   250, // ~0.25 kg/week
	"NORMAL": 500, // ~0.5 kg/week
	"FAST":   750, // ~0.75 kg/week
}

// MinDailyTarget is the minimum safe daily calorie target. The target
// calculation never goes below this regardless of inputs.
const MinDailyTarget = 1200

type TargetBreakdown struct {
	BMR         float64 `json:"bmr"`
	TDEE        int     `json:"tdee"`
	DailyTarget int     `json:"daily_target"`
	Deficit     int     `json:"deficit"`
}

// CalculateBMR computes Basal Metabolic Rate via Mifflin-St Jeor.
// Male:   10*weight(kg) + 6.25*height(cm) - 5*age + 5
// Female: 10*weight(kg) + 6.25*height(cm) - 5*age - 161
func CalculateBMR(weightKg, heightCm float64, ageYears int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// CalculateTDEE computes Total Daily Energy Expenditure from BMR and
// activity level. Unknown levels fall back to SEDENTARY.
func CalculateTDEE(bmr float64, activityLevel string) int {
	mult, ok := ActivityMultipliers[activityLevel]
	if !ok {
		mult = ActivityMultipliers["SEDENTARY"]
	}
	return int(math.Round(bmr * mult))
}

// CalculateDailyTarget subtracts the pace deficit from TDEE, clamped to
// MinDailyTarget.
func CalculateDailyTarget(tdee int, goalPace string) int {
	deficit := DeficitByPace[goalPace]
	target := tdee - deficit
	if target < MinDailyTarget {
		return MinDailyTarget
	}
	return target
}

// CalculateTargetFromProfile runs the full pipeline: profile data → daily target.
// Deficit is the raw table value for the pace, independent of clamping.
func CalculateTargetFromProfile(weightKg, heightCm float64, ageYears int, gender, activityLevel, goalPace string) TargetBreakdown {
	bmr := CalculateBMR(weightKg, heightCm, ageYears, gender)
	tdee := CalculateTDEE(bmr, activityLevel)
	return TargetBreakdown{
		BMR:         bmr,
		TDEE:        tdee,
		DailyTarget: CalculateDailyTarget(tdee, goalPace),
		Deficit:     DeficitByPace[goalPace],
	}
}

// CalculateAge returns full calendar years since dateOfBirth, adjusted for
// whether the birthday has occurred yet this year.
func CalculateAge(dateOfBirth time.Time) int {
	today := time.Now()
	age := today.Year() - dateOfBirth.Year()
	if today.Before(dateOfBirth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}
