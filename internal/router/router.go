// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/config"
	"github.com/abhi7515/shopdev/internal/handlers"
	"github.com/abhi7515/shopdev/internal/middleware"
	"github.com/abhi7515/shopdev/internal/services"
	"github.com/abhi7515/shopdev/internal/storefront"
	"github.com/abhi7515/shopdev/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	catalogService := services.NewCatalogService(db, cfg.Sync.MaxAgeHours)
	cartService := services.NewCartService(db, catalogService)
	analyticsService := services.NewAnalyticsService(db)
	promptBuilder := services.NewPromptBuilder(cfg.Chat.HistoryLimit)
	assistantService := services.NewAssistantService(
		db,
		catalogService,
		cartService,
		promptBuilder,
		analyticsService,
		services.NewProviderFromTenant(time.Duration(cfg.Chat.RequestTimeout)*time.Second),
	)

	storefrontFactory := handlers.StorefrontFactory(func(shop string) *storefront.Client {
		return storefront.NewClient(
			shop,
			cfg.Storefront.AccessToken,
			cfg.Storefront.APIVersion,
			time.Duration(cfg.Storefront.RequestTimeout)*time.Second,
		)
	})

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(assistantService)
	cartHandler := handlers.NewCartHandler(cartService, assistantService, analyticsService, storefrontFactory)
	productHandler := handlers.NewProductHandler(catalogService)
	adminHandler := handlers.NewAdminHandler(db, catalogService, analyticsService, storefrontFactory)

	// Set JWT secret for the admin surface
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware. The widget is embedded on arbitrary storefronts,
	// so CORS stays open and the shared-secret header is allowed through.
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", middleware.APIKeyHeader},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Widget-facing routes, authenticated by shared-secret API key
		sdk := v1.Group("/sdk")
		sdk.Use(middleware.WidgetRateLimit(), middleware.APIKeyAuth(db))
		{
			sdk.POST("/chat", chatHandler.HandleChat)
			sdk.POST("/cart", cartHandler.HandleCart)
			sdk.GET("/products", productHandler.GetProducts)
		}

		// Merchant dashboard routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(db))
		{
			admin.GET("/config", adminHandler.GetConfig)
			admin.PUT("/config", adminHandler.UpdateConfig)
			admin.POST("/config/regenerate-key", adminHandler.RegenerateKey)
			admin.POST("/sync", middleware.SyncRateLimit(), adminHandler.TriggerSync)
			admin.GET("/stats", adminHandler.GetStats)
		}
	}

	return r
}
