package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"github.com/wardrobe-manager/wardrobe-manager-api/utils"
	"gorm.io/gorm"
)

// UpsertGarmentRequest represents the request body for creating a garment.
// Creates are upserts keyed by the client-supplied id so the intake flow can
// retry safely.
type UpsertGarmentRequest struct {
	ID              string            `json:"id" binding:"required"`
	Name            string            `json:"name"`
	Photos          models.PhotoList  `json:"photos"`
	Attributes      models.Attributes `json:"attributes"`
	IntakeSessionID *string           `json:"intakeSessionId"`
	IntakeOrder     *int              `json:"intakeOrder"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

// PatchGarmentRequest represents the request body for updating a garment.
// The client sends the fields it wants replaced; attributes replace the
// whole bag (the client computes the merged bag locally).
type PatchGarmentRequest struct {
	Name            *string            `json:"name"`
	Photos          *models.PhotoList  `json:"photos"`
	Attributes      *models.Attributes `json:"attributes"`
	IntakeSessionID *string            `json:"intakeSessionId"`
	IntakeOrder     *int               `json:"intakeOrder"`
}

// ListGarments handles GET /api/v1/garments - all garments, latest first
func ListGarments(c *gin.Context) {
	db := config.GetDB()

	var garments []models.Garment
	if err := db.Order("updated_at desc").Find(&garments).Error; err != nil {
		log.Printf("Failed to list garments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list garments",
			},
		})
		return
	}

	for i := range garments {
		garments[i] = models.NormalizeLegacyGarment(garments[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    garments,
	})
}

// CreateGarment handles POST /api/v1/garments - upserts a garment by id
func CreateGarment(c *gin.Context) {
	var req UpsertGarmentRequest
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

	if len(req.Photos) > models.MaxPhotos {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Too many photos",
			},
		})
		return
	}

	db := config.GetDB()

	now := models.NowISO()
	garment := models.Garment{
		ID:              req.ID,
		Name:            req.Name,
		Photos:          req.Photos,
		Attributes:      req.Attributes,
		IntakeSessionID: req.IntakeSessionID,
		IntakeOrder:     req.IntakeOrder,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
	if garment.CreatedAt == "" {
		garment.CreatedAt = now
	}
	if garment.UpdatedAt == "" {
		garment.UpdatedAt = now
	}
	if garment.Attributes.SKU == "" {
		garment.Attributes.SKU = utils.GenerateSKU()
	}
	garment = models.NormalizeLegacyGarment(garment)

	// Created-at is immutable: when the id already exists this is a
	// replay, so the stored value wins.
	var existing models.Garment
	if err := db.Where("id = ?", req.ID).First(&existing).Error; err == nil {
		garment.CreatedAt = existing.CreatedAt
		if err := db.Model(&models.Garment{}).Where("id = ?", req.ID).
			Select("*").Omit("id", "created_at").Updates(&garment).Error; err != nil {
			log.Printf("Failed to update garment %s: %v", req.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to save garment",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    garment,
		})
		return
	}

	if err := db.Create(&garment).Error; err != nil {
		log.Printf("Failed to create garment %s: %v", req.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save garment",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    garment,
	})
}

// GetGarment handles GET /api/v1/garments/:id
func GetGarment(c *gin.Context) {
	db := config.GetDB()

	garment, ok := findGarment(c, db, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    garment,
	})
}

// UpdateGarment handles PATCH /api/v1/garments/:id - merges the patch,
// recomputes completionStatus, and bumps updatedAt
func UpdateGarment(c *gin.Context) {
	var req PatchGarmentRequest
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

	if req.Photos != nil && len(*req.Photos) > models.MaxPhotos {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Too many photos",
			},
		})
		return
	}

	db := config.GetDB()

	garment, ok := findGarment(c, db, c.Param("id"))
	if !ok {
		return
	}

	if req.Name != nil {
		garment.Name = *req.Name
	}
	if req.Photos != nil {
		garment.Photos = *req.Photos
	}
	if req.Attributes != nil {
		garment.Attributes = *req.Attributes
	}
	if req.IntakeSessionID != nil {
		garment.IntakeSessionID = req.IntakeSessionID
	}
	if req.IntakeOrder != nil {
		garment.IntakeOrder = req.IntakeOrder
	}

	garment = models.NormalizeLegacyGarment(garment)
	garment.UpdatedAt = models.NowISO()

	if err := db.Model(&models.Garment{}).Where("id = ?", garment.ID).
		Select("*").Omit("id", "created_at").Updates(&garment).Error; err != nil {
		log.Printf("Failed to update garment %s: %v", garment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update garment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    garment,
	})
}

// DeleteGarment handles DELETE /api/v1/garments/:id - immediate hard delete
func DeleteGarment(c *gin.Context) {
	db := config.GetDB()

	garment, ok := findGarment(c, db, c.Param("id"))
	if !ok {
		return
	}

	if err := db.Delete(&models.Garment{}, "id = ?", garment.ID).Error; err != nil {
		log.Printf("Failed to delete garment %s: %v", garment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete garment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": garment.ID},
	})
}

// findGarment loads and normalizes one garment, writing the error response
// itself when the read fails
func findGarment(c *gin.Context, db *gorm.DB, id string) (models.Garment, bool) {
	var garment models.Garment
	if err := db.Where("id = ?", id).First(&garment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Garment not found",
				},
			})
			return models.Garment{}, false
		}
		log.Printf("Failed to read garment %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to read garment",
			},
		})
		return models.Garment{}, false
	}
	return models.NormalizeLegacyGarment(garment), true
}
