package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/controllers"
	"github.com/wardrobe-manager/wardrobe-manager-api/middleware"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"github.com/wardrobe-manager/wardrobe-manager-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Wardrobe Manager API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Garment{}, &models.CustomOption{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Photo storage: S3 when a bucket is configured, local disk otherwise
	var s3Service services.S3Interface
	if cfg.UseS3() {
		s3Service, err = services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
	}
	services.InitImageService(cfg.UploadDir, s3Service)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes and middleware attached
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	requireAdmin := []gin.HandlerFunc{
		middleware.EnsureValidToken(cfg),
		middleware.RequireAllowedIdentity(cfg, services.NewAuth0Service(cfg)),
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Locally stored photos
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		// Public, read-only catalog plus the reservation flow
		public := v1.Group("/public")
		{
			public.GET("/garments", controllers.ListPublicGarments)
			public.GET("/garments/:id", controllers.GetPublicGarment)
			public.GET("/garments/:id/alternatives", controllers.GetAlternatives)
			public.POST("/garments/:id/reserve", controllers.ReserveGarment)
		}

		// Admin routes require a valid token from an allow-listed identity
		admin := v1.Group("", requireAdmin...)
		{
			admin.GET("/garments", controllers.ListGarments)
			admin.POST("/garments", controllers.CreateGarment)
			admin.GET("/garments/:id", controllers.GetGarment)
			admin.PATCH("/garments/:id", controllers.UpdateGarment)
			admin.DELETE("/garments/:id", controllers.DeleteGarment)

			admin.GET("/options", controllers.ListOptions)
			admin.POST("/options", controllers.CreateOption)

			admin.POST("/photos/upload", controllers.UploadPhotos)
			admin.POST("/photos/rename", controllers.RenamePhoto)

			admin.POST("/admin/unreserve", controllers.Unreserve)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wardrobe Manager API is running",
	})
}
