package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/services"
)

// UnreserveRequest represents the request body for clearing reservations
type UnreserveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// Unreserve handles POST /api/v1/admin/unreserve - puts the listed garments
// back to Available after a reservation is resolved out-of-band
func Unreserve(c *gin.Context) {
	var req UnreserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	cleared, err := services.UnreserveGarments(config.GetDB(), req.IDs)
	if err != nil {
		log.Printf("Failed to unreserve garments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to unreserve garments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"cleared": cleared},
	})
}
