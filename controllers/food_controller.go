package controllers

import (
	"net/http"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func ListFoods(c *gin.Context) {
	foods, err := services.ListFoods(c.GetUint("userID"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func CreateFood(c *gin.Context) {
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := services.CreateFood(c.GetUint("userID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"food": food})
}

func UpdateFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := services.UpdateFood(c.GetUint("userID"), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food": food})
}

func DeleteFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteFood(c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
