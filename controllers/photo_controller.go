package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/services"
	"github.com/wardrobe-manager/wardrobe-manager-api/utils"
)

// RenamePhotoRequest represents the request body for renaming an uploaded
// photo to match its garment
type RenamePhotoRequest struct {
	Src   string `json:"src" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Index int    `json:"index"`
}

// UploadPhotos handles POST /api/v1/photos/upload - accepts multipart form
// data under "files" and stores each file via the image service
func UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FORM",
				"message": "Invalid form data",
			},
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILES",
				"message": "Missing files",
			},
		})
		return
	}

	imageService := services.GetImageService()
	saved := make([]services.SavedImage, 0, len(files))
	for _, fileHeader := range files {
		img, err := imageService.SaveImage(fileHeader)
		if err != nil {
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    uploadErr.Code,
						"message": uploadErr.Message,
					},
				})
				return
			}
			log.Printf("Failed to store photo %s: %v", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_FAILED",
					"message": "Failed to store photo",
				},
			})
			return
		}
		saved = append(saved, img)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"files": saved},
	})
}

// RenamePhoto handles POST /api/v1/photos/rename - renames a locally stored
// photo to a slug of its garment name
func RenamePhoto(c *gin.Context) {
	var req RenamePhotoRequest
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

	src, err := services.GetImageService().RenameImage(req.Src, req.Name, req.Index)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			status := http.StatusBadRequest
			if uploadErr.Code == "FILE_NOT_FOUND" {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		log.Printf("Failed to rename photo %s: %v", req.Src, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RENAME_FAILED",
				"message": "Failed to rename photo",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"src": src},
	})
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves locally
// stored images
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Prevent directory traversal
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := utils.AllowedImageFormats[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Unsupported image type",
			},
		})
		return
	}

	filePath := filepath.Join(config.GetConfig().UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
