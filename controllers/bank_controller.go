package controllers

import (
	"net/http"
	"strconv"

	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func GetBankAccount(c *gin.Context) {
	bankSvc := services.NewBankService()
	account, err := bankSvc.GetAccount(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

func ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	bankSvc := services.NewBankService()
	txns, err := bankSvc.GetTransactions(c.GetUint("userID"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

type EarnPointsInput struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

func EarnPoints(c *gin.Context) {
	var input EarnPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bankSvc := services.NewBankService()
	result, err := bankSvc.EarnPoints(c.GetUint("userID"), input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type WithdrawPointsInput struct {
	Points int    `json:"points" binding:"required,min=1"`
	Note   string `json:"note" binding:"omitempty,max=200"`
}

func WithdrawPoints(c *gin.Context) {
	var input WithdrawPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bankSvc := services.NewBankService()
	result, err := bankSvc.WithdrawPoints(c.GetUint("userID"), input.Points, input.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
