package controllers

import (
	"net/http"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func ListPots(c *gin.Context) {
	potSvc := services.NewPotService()
	pots, err := potSvc.ListPots(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pots": pots})
}

type CreatePotInput struct {
	Title          string `json:"title" binding:"required,max=200"`
	TargetCalories int    `json:"target_calories" binding:"required,min=100,max=100000"`
	DueDate        string `json:"due_date" binding:"required"` // YYYY-MM-DD
}

func CreatePot(c *gin.Context) {
	var input CreatePotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	potSvc := services.NewPotService()
	pot, err := potSvc.CreatePot(c.GetUint("userID"), input.Title, input.TargetCalories, input.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pot": pot})
}

type AllocateInput struct {
	Points int `json:"points" binding:"required,min=1"`
}

func AllocateToPot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input AllocateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	potSvc := services.NewPotService()
	result, err := potSvc.AllocateToPot(c.GetUint("userID"), id, input.Points)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func RedeemPot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	potSvc := services.NewPotService()
	result, err := potSvc.RedeemPot(c.GetUint("userID"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeletePot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	potSvc := services.NewPotService()
	if err := potSvc.DeletePot(c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
