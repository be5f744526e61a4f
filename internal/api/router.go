package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	catalogHandler "cocktail-catalog/internal/api/handlers/catalog"
	"cocktail-catalog/internal/api/handlers/health"
	importerHandler "cocktail-catalog/internal/api/handlers/importer"
	"cocktail-catalog/internal/api/middleware"
	"cocktail-catalog/internal/core/ai/cache"
	"cocktail-catalog/internal/core/ai/service"
	catalogCore "cocktail-catalog/internal/core/catalog"
	importerCore "cocktail-catalog/internal/core/importer"
	"cocktail-catalog/internal/infrastructure/config"
	"cocktail-catalog/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// request timeout; extraction of a dense menu PDF can take a while
const timeoutDuration = 120 * time.Second

// SetupRouter wires middleware, services and routes.
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Upload.MaxSizeBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.Gemini.Model),
		zap.String("extraction_model", cfg.Gemini.ExtractionModel),
		zap.Duration("timeout", timeoutDuration),
	)

	aiService, err := service.NewService(cfg, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	store := catalogCore.NewStore()
	sessions := importerCore.NewManager()
	materializer := importerCore.NewMaterializer(store)
	enricher := importerCore.NewEnricher(store, aiService)

	catalogH := catalogHandler.NewHandler(store, enricher)
	importerH := importerHandler.NewHandler(cfg, sessions, store, aiService, materializer, enricher)

	// request timeout plus context handed to the health handlers
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("catalog_counter", store)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/products", catalogH.ListProducts)
			catalogGroup.GET("/products/:id", catalogH.GetProduct)
			catalogGroup.POST("/products/:id/enrich", catalogH.EnrichProduct)
			catalogGroup.GET("/cocktails", catalogH.ListCocktails)
			catalogGroup.GET("/cocktails/:id", catalogH.GetCocktail)
			catalogGroup.POST("/entities/:id/layers/:layerId/toggle", catalogH.ToggleLayer)
		}

		sessionGroup := api.Group("/import/sessions")
		{
			sessionGroup.POST("", importerH.CreateSession)
			sessionGroup.GET("/:id", importerH.GetSession)
			sessionGroup.DELETE("/:id", importerH.DeleteSession)

			sessionGroup.POST("/:id/upload", importerH.Upload)

			sessionGroup.PUT("/:id/cocktails/:cocktailId", importerH.RenameCocktail)
			sessionGroup.DELETE("/:id/cocktails/:cocktailId", importerH.RemoveCocktail)
			sessionGroup.POST("/:id/approve-names", importerH.ApproveNames)

			sessionGroup.PUT("/:id/cocktails/:cocktailId/specs", importerH.UpdateSpecs)
			sessionGroup.PUT("/:id/cocktails/:cocktailId/ingredients/:index", importerH.UpdateIngredient)
			sessionGroup.POST("/:id/cocktails/:cocktailId/ingredients/:index/sub", importerH.AddSubIngredient)
			sessionGroup.POST("/:id/approve-specs", importerH.ApproveSpecs)

			sessionGroup.PUT("/:id/matches/:cocktailId/:index", importerH.OverrideMatch)
			sessionGroup.POST("/:id/confirm", importerH.Confirm)

			sessionGroup.POST("/:id/enrich/:cocktailId", importerH.EnrichCocktail)
			sessionGroup.GET("/:id/progress", importerH.Progress)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Upload.MaxSizeBytes),
	)

	return router, nil
}
