package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"github.com/wardrobe-manager/wardrobe-manager-api/services"
	"gorm.io/gorm"
)

// ReserveRequest represents the request body for reserving a garment. The
// token is an opaque string used later to resolve the reservation
// out-of-band.
type ReserveRequest struct {
	ReservationToken string `json:"reservationToken"`
}

// Public responses use the catalog wire format ({data} / {error, message?,
// data?}) rather than the admin envelope, and are never cached.

// noStore marks the response as uncacheable
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

// clampLimit parses a limit query parameter into [min, max], using def when
// absent or unparseable
func clampLimit(raw string, def, min, max int) int {
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		n = def
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}

// ListPublicGarments handles GET /api/v1/public/garments - Available
// garments as catalog cards
func ListPublicGarments(c *gin.Context) {
	noStore(c)
	limit := clampLimit(c.Query("limit"), 30, 1, 60)

	db := config.GetDB()
	var garments []models.Garment
	if err := db.Where("state = ?", models.StateAvailable).Limit(limit).Find(&garments).Error; err != nil {
		log.Printf("Failed to list public garments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "FAILED_TO_LIST"})
		return
	}

	cards := make([]models.Card, 0, len(garments))
	for i := range garments {
		g := models.NormalizeLegacyGarment(garments[i])
		cards = append(cards, g.ToCard())
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       cards,
		"nextCursor": nil,
	})
}

// GetPublicGarment handles GET /api/v1/public/garments/:id
func GetPublicGarment(c *gin.Context) {
	noStore(c)
	id := c.Param("id")

	db := config.GetDB()
	var garment models.Garment
	if err := db.Where("id = ?", id).First(&garment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		log.Printf("Failed to read public garment %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "FAILED_TO_READ"})
		return
	}

	garment = models.NormalizeLegacyGarment(garment)
	c.JSON(http.StatusOK, gin.H{"data": garment.ToPublic()})
}

// GetAlternatives handles GET /api/v1/public/garments/:id/alternatives -
// ranked similar Available garments for the seed
func GetAlternatives(c *gin.Context) {
	noStore(c)
	id := c.Param("id")
	limit := clampLimit(c.Query("limit"), 3, 1, 12)

	cards, err := services.Alternatives(config.GetDB(), id, limit)
	if err != nil {
		if errors.Is(err, services.ErrGarmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		log.Printf("Failed to rank alternatives for %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "FAILED_TO_RANK"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cards})
}

// ReserveGarment handles POST /api/v1/public/garments/:id/reserve - the
// atomic Available -> Reserved transition
func ReserveGarment(c *gin.Context) {
	noStore(c)
	id := c.Param("id")

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "BAD_REQUEST",
			"message": "reservationToken required",
		})
		return
	}

	token := strings.TrimSpace(req.ReservationToken)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "BAD_REQUEST",
			"message": "reservationToken required",
		})
		return
	}

	garment, err := services.ReserveGarment(config.GetDB(), id, token)
	if err != nil {
		if errors.Is(err, services.ErrGarmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		var notAvailable *services.NotAvailableError
		if errors.As(err, &notAvailable) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "NOT_AVAILABLE",
				"data":  gin.H{"state": notAvailable.State},
			})
			return
		}
		log.Printf("Failed to reserve garment %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "FAILED_TO_RESERVE",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": garment.ToPublic()})
}
