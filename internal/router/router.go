// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaukho/zaukho-backend/internal/authz"
	"github.com/zaukho/zaukho-backend/internal/config"
	"github.com/zaukho/zaukho-backend/internal/handlers"
	"github.com/zaukho/zaukho-backend/internal/middleware"
	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// Initialize wires services, handlers and middleware into the HTTP engine.
// The token store is an interface so tests can swap Redis for an in-memory
// fake.
func Initialize(db *gorm.DB, tokens services.TokenStore, cfg *config.Config) *gin.Engine {
	// Services
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg, tokens)
	catalogService := services.NewCatalogService(db)
	seriesService := services.NewSeriesService(db)
	entitlementService := services.NewEntitlementService(db)
	libraryService := services.NewLibraryService(entitlementService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	movieHandler := handlers.NewMovieHandler(catalogService, storageService)
	tvHandler := handlers.NewTVHandler(seriesService, storageService)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Authenticate())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/token/refresh", authHandler.RefreshToken)
			auth.POST("/token/verify", authHandler.VerifyToken)
			auth.GET("/user", middleware.AuthRequired(), authHandler.CurrentUser)
		}

		// Catalog routes: world-readable, admin-writable per the policy table
		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.Authorize(authz.ResourceCategory, authz.OpList), categoryHandler.ListCategories)
			categories.GET("/:id", middleware.Authorize(authz.ResourceCategory, authz.OpRetrieve), categoryHandler.GetCategory)
			categories.POST("", middleware.Authorize(authz.ResourceCategory, authz.OpCreate), categoryHandler.CreateCategory)
			categories.PUT("/:id", middleware.Authorize(authz.ResourceCategory, authz.OpUpdate), categoryHandler.UpdateCategory)
			categories.PATCH("/:id", middleware.Authorize(authz.ResourceCategory, authz.OpUpdate), categoryHandler.UpdateCategory)
			categories.DELETE("/:id", middleware.Authorize(authz.ResourceCategory, authz.OpDelete), categoryHandler.DeleteCategory)
		}

		movies := v1.Group("/movies")
		{
			movies.GET("", middleware.Authorize(authz.ResourceMovie, authz.OpList), movieHandler.ListMovies)
			movies.GET("/:id", middleware.Authorize(authz.ResourceMovie, authz.OpRetrieve), movieHandler.GetMovie)
			movies.POST("", middleware.Authorize(authz.ResourceMovie, authz.OpCreate), movieHandler.CreateMovie)
			movies.PUT("/:id", middleware.Authorize(authz.ResourceMovie, authz.OpUpdate), movieHandler.UpdateMovie)
			movies.PATCH("/:id", middleware.Authorize(authz.ResourceMovie, authz.OpUpdate), movieHandler.UpdateMovie)
			movies.DELETE("/:id", middleware.Authorize(authz.ResourceMovie, authz.OpDelete), movieHandler.DeleteMovie)
			movies.POST("/:id/poster", middleware.Authorize(authz.ResourceMovie, authz.OpUpdate), middleware.UploadRateLimit(), movieHandler.UploadPoster)
		}

		tvSeries := v1.Group("/tv-series")
		{
			tvSeries.GET("", middleware.Authorize(authz.ResourceTVSeries, authz.OpList), tvHandler.ListTVSeries)
			tvSeries.GET("/:id", middleware.Authorize(authz.ResourceTVSeries, authz.OpRetrieve), tvHandler.GetTVSeries)
			tvSeries.POST("", middleware.Authorize(authz.ResourceTVSeries, authz.OpCreate), tvHandler.CreateTVSeries)
			tvSeries.PUT("/:id", middleware.Authorize(authz.ResourceTVSeries, authz.OpUpdate), tvHandler.UpdateTVSeries)
			tvSeries.PATCH("/:id", middleware.Authorize(authz.ResourceTVSeries, authz.OpUpdate), tvHandler.UpdateTVSeries)
			tvSeries.DELETE("/:id", middleware.Authorize(authz.ResourceTVSeries, authz.OpDelete), tvHandler.DeleteTVSeries)
			tvSeries.POST("/:id/poster", middleware.Authorize(authz.ResourceTVSeries, authz.OpUpdate), middleware.UploadRateLimit(), tvHandler.UploadTVSeriesPoster)
		}

		seasons := v1.Group("/seasons")
		{
			seasons.GET("", middleware.Authorize(authz.ResourceSeason, authz.OpList), tvHandler.ListSeasons)
			seasons.GET("/:id", middleware.Authorize(authz.ResourceSeason, authz.OpRetrieve), tvHandler.GetSeason)
			seasons.POST("", middleware.Authorize(authz.ResourceSeason, authz.OpCreate), tvHandler.CreateSeason)
			seasons.PUT("/:id", middleware.Authorize(authz.ResourceSeason, authz.OpUpdate), tvHandler.UpdateSeason)
			seasons.PATCH("/:id", middleware.Authorize(authz.ResourceSeason, authz.OpUpdate), tvHandler.UpdateSeason)
			seasons.DELETE("/:id", middleware.Authorize(authz.ResourceSeason, authz.OpDelete), tvHandler.DeleteSeason)
		}

		episodes := v1.Group("/episodes")
		{
			episodes.GET("", middleware.Authorize(authz.ResourceEpisode, authz.OpList), tvHandler.ListEpisodes)
			episodes.GET("/:id", middleware.Authorize(authz.ResourceEpisode, authz.OpRetrieve), tvHandler.GetEpisode)
			episodes.POST("", middleware.Authorize(authz.ResourceEpisode, authz.OpCreate), tvHandler.CreateEpisode)
			episodes.PUT("/:id", middleware.Authorize(authz.ResourceEpisode, authz.OpUpdate), tvHandler.UpdateEpisode)
			episodes.PATCH("/:id", middleware.Authorize(authz.ResourceEpisode, authz.OpUpdate), tvHandler.UpdateEpisode)
			episodes.DELETE("/:id", middleware.Authorize(authz.ResourceEpisode, authz.OpDelete), tvHandler.DeleteEpisode)
			episodes.POST("/:id/video", middleware.Authorize(authz.ResourceEpisode, authz.OpUpdate), middleware.UploadRateLimit(), tvHandler.UploadEpisodeVideo)
		}

		// Entitlement routes: always scoped to the authenticated owner
		purchases := v1.Group("/purchases")
		{
			purchases.GET("", middleware.Authorize(authz.ResourcePurchase, authz.OpList), entitlementHandler.ListPurchases)
			purchases.GET("/:id", middleware.Authorize(authz.ResourcePurchase, authz.OpRetrieve), entitlementHandler.GetPurchase)
			purchases.POST("", middleware.Authorize(authz.ResourcePurchase, authz.OpCreate), entitlementHandler.CreatePurchase)
		}

		rentals := v1.Group("/rentals")
		{
			rentals.GET("", middleware.Authorize(authz.ResourceRental, authz.OpList), entitlementHandler.ListRentals)
			rentals.GET("/:id", middleware.Authorize(authz.ResourceRental, authz.OpRetrieve), entitlementHandler.GetRental)
			rentals.POST("", middleware.Authorize(authz.ResourceRental, authz.OpCreate), entitlementHandler.CreateRental)
		}

		v1.GET("/library", middleware.Authorize(authz.ResourceLibrary, authz.OpList), libraryHandler.GetLibrary)
	}

	return r
}
