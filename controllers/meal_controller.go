package controllers

import (
	"net/http"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

type LogMealInput struct {
	Date     string                     `json:"date" binding:"required"`
	MealType string                     `json:"meal_type" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK"`
	Items    []services.MealItemRequest `json:"items" binding:"required,min=1"`
}

func LogMeal(c *gin.Context) {
	var input LogMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mealSvc := services.NewMealService()
	meal, err := mealSvc.CreateMeal(c.GetUint("userID"), input.Date, input.MealType, input.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal": meal})
}

func ListMeals(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusOK, gin.H{"meals": []any{}})
		return
	}

	mealSvc := services.NewMealService()
	meals, err := mealSvc.ListMeals(c.GetUint("userID"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func DeleteMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	mealSvc := services.NewMealService()
	if err := mealSvc.DeleteMeal(c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
