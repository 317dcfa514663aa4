package controllers

import (
	"net/http"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func GetXP(c *gin.Context) {
	xp, err := services.GetXP(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"xp": xp})
}

func GetAchievements(c *gin.Context) {
	achievements, err := services.GetAchievements(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}
