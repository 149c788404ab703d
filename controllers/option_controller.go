package controllers

import (
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"gorm.io/gorm/clause"
)

// CreateOptionRequest represents the request body for adding a custom
// enumeration value
type CreateOptionRequest struct {
	Category string `json:"category" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// ListOptions handles GET /api/v1/options - custom values for one category,
// or all of them grouped by category
func ListOptions(c *gin.Context) {
	db := config.GetDB()
	category := strings.TrimSpace(c.Query("category"))

	if category != "" {
		var rows []models.CustomOption
		if err := db.Where("category_lower = ?", strings.ToLower(category)).Find(&rows).Error; err != nil {
			log.Printf("Failed to list options for %s: %v", category, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to read options",
				},
			})
			return
		}

		values := make([]string, 0, len(rows))
		for _, r := range rows {
			values = append(values, r.Value)
		}
		sort.Slice(values, func(i, j int) bool {
			return strings.ToLower(values[i]) < strings.ToLower(values[j])
		})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"category": category,
				"options":  values,
			},
		})
		return
	}

	var rows []models.CustomOption
	if err := db.Find(&rows).Error; err != nil {
		log.Printf("Failed to list options: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to read options",
			},
		})
		return
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CategoryLower != rows[j].CategoryLower {
			return rows[i].CategoryLower < rows[j].CategoryLower
		}
		return rows[i].ValueLower < rows[j].ValueLower
	})

	byCategory := make(map[string][]string)
	for _, r := range rows {
		byCategory[r.Category] = append(byCategory[r.Category], r.Value)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"options": byCategory},
	})
}

// CreateOption handles POST /api/v1/options - records a user-typed "Other"
// value. Creation is idempotent: re-adding an existing value (in any casing)
// succeeds without duplicating it.
func CreateOption(c *gin.Context) {
	var req CreateOptionRequest
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

	option := models.NewCustomOption(req.Category, req.Value)
	if option.Category == "" || option.Value == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Category and value must be non-blank",
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_lower"}, {Name: "value_lower"}},
		DoNothing: true,
	}).Create(&option).Error; err != nil {
		log.Printf("Failed to create option %s/%s: %v", option.Category, option.Value, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save option",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"category":  option.Category,
			"value":     option.Value,
			"createdAt": option.CreatedAt,
		},
	})
}
