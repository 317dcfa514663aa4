package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/IbrahimFattah/hisabcal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps intentional AppErrors to their status/code and hides
// everything else behind a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Code, "message": appErr.Message})
		return
	}
	zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": "An unexpected error occurred"})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ID", "message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
