// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contmarket/catalog-backend/internal/config"
	"github.com/contmarket/catalog-backend/internal/handlers"
	"github.com/contmarket/catalog-backend/internal/middleware"
	"github.com/contmarket/catalog-backend/internal/services"
	"github.com/contmarket/catalog-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	catalogService := services.NewCatalogService(db, storageService)
	importService := services.NewImportService(db, storageService)
	adminService := services.NewAdminService(db, cfg)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	adminHandler := handlers.NewAdminHandler(catalogService, importService)
	authHandler := handlers.NewAuthHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())

	// Locally stored photos are served straight from the uploads directory
	if cfg.AWS.AccessKeyID == "" {
		r.Static(cfg.Storage.PublicBaseURL, cfg.Storage.UploadsDir)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public catalog
		containers := v1.Group("/containers")
		{
			containers.GET("", catalogHandler.GetContainers)
			containers.GET("/sizes", catalogHandler.GetSizes)
			containers.GET("/:id", catalogHandler.GetContainer)
		}

		// First-run setup
		setup := v1.Group("/setup")
		setup.Use(middleware.AuthRateLimit())
		{
			setup.GET("/status", authHandler.SetupStatus)
			setup.POST("/admin", authHandler.SetupAdmin)
		}

		// Admin surface
		admin := v1.Group("/admin")
		{
			auth := admin.Group("/auth")
			auth.Use(middleware.AuthRateLimit())
			{
				auth.POST("/login", authHandler.Login)
				auth.POST("/logout", middleware.AdminAuthRequired(), authHandler.Logout)
				auth.GET("/me", middleware.AdminAuthRequired(), authHandler.Me)
				auth.POST("/users", middleware.AdminAuthRequired(), authHandler.CreateAdmin)
				auth.PUT("/password", middleware.AdminAuthRequired(), authHandler.ChangePassword)
			}

			protected := admin.Group("")
			protected.Use(middleware.AdminAuthRequired())
			{
				protected.GET("/containers", adminHandler.GetContainers)
				protected.PUT("/containers/:id", adminHandler.UpdateContainer)
				protected.DELETE("/containers/:id", adminHandler.DeleteContainer)
				protected.DELETE("/containers", adminHandler.DeleteAllContainers)

				protected.PUT("/containers/:id/photos/main", adminHandler.SetMainPhoto)
				protected.PUT("/containers/:id/photos/reorder", adminHandler.ReorderPhotos)
				protected.PUT("/photos/:id/order", adminHandler.UpdatePhotoOrder)
				protected.DELETE("/photos/:id", adminHandler.DeletePhoto)

				protected.POST("/import", middleware.ImportRateLimit(), adminHandler.Import)
				protected.GET("/import/history", adminHandler.ImportHistory)
			}
		}
	}

	return r, nil
}
