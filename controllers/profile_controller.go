package controllers

import (
	"net/http"
	"time"

	"github.com/IbrahimFattah/hisabcal/services"
	"github.com/IbrahimFattah/hisabcal/utils"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	profile, err := services.GetProfile(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func UpsertProfile(c *gin.Context) {
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := utils.ActivityMultipliers[input.ActivityLevel]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity_level"})
		return
	}
	if _, ok := utils.DeficitByPace[input.GoalPace]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_pace"})
		return
	}

	profile, err := services.UpsertProfile(c.GetUint("userID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type TargetInput struct {
	WeightKg      float64 `json:"weight_kg" binding:"required,gt=0"`
	HeightCm      float64 `json:"height_cm" binding:"required,gt=0"`
	DateOfBirth   string  `json:"date_of_birth" binding:"required"`
	Gender        string  `json:"gender" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	GoalPace      string  `json:"goal_pace" binding:"required"`
}

// ComputeTarget previews the BMR/TDEE/daily-target pipeline for arbitrary
// inputs without touching the stored profile.
func ComputeTarget(c *gin.Context) {
	var input TargetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
		return
	}

	target := utils.CalculateTargetFromProfile(
		input.WeightKg, input.HeightCm, utils.CalculateAge(dob),
		input.Gender, input.ActivityLevel, input.GoalPace,
	)
	c.JSON(http.StatusOK, gin.H{"target": target})
}

type WeightLogInput struct {
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	Date     string  `json:"date"`
}

func LogWeight(c *gin.Context) {
	var input WeightLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := services.LogWeight(c.GetUint("userID"), input.WeightKg, input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func GetWeightHistory(c *gin.Context) {
	entries, err := services.GetWeightHistory(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weight_history": entries})
}
