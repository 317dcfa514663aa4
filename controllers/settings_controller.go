package controllers

import (
	"net/http"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func GetSettings(c *gin.Context) {
	settings, err := services.GetOrCreateSettings(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type UpdateSettingsInput struct {
	PointsPerCalorie   *float64 `json:"points_per_calorie" binding:"omitempty,gte=0.01,lte=10"`
	MaxDailyEarnPoints *int     `json:"max_daily_earn_points" binding:"omitempty,gte=10,lte=10000"`
}

func UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := services.UpdateSettings(c.GetUint("userID"), input.PointsPerCalorie, input.MaxDailyEarnPoints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
