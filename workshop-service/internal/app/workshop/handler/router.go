package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"odilusta/pkg/logger"
	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/session"
)

// SetupRoutes настраивает все маршруты Workshop Service с использованием Gin
func SetupRoutes(workshopHandler *WorkshopHandler, sessions *session.Manager) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("workshop-service"))

	// CORS: фронтенд мастерской ходит с другого origin
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Session-ID"},
		ExposeHeaders:    []string{"X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "workshop-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Все рабочие маршруты привязаны к сессии
	api := router.Group("/", SessionMiddleware(sessions))
	{
		catalog := api.Group("/catalog")
		{
			catalog.GET("", workshopHandler.GetCatalog)             // Снимок каталога
			catalog.POST("/refresh", workshopHandler.RefreshCatalog) // Полное обновление из хранилища
		}

		api.DELETE("/products/:id", workshopHandler.RemoveProduct) // Удаление с чисткой корзин

		cart := api.Group("/cart")
		{
			cart.GET("", workshopHandler.GetCart)
			cart.POST("/items", workshopHandler.AddToCart)
			cart.PUT("/items/:id", workshopHandler.SetQuantity)
		}

		pages := api.Group("/pages")
		{
			pages.GET("/current", workshopHandler.GetCurrentPage)
			pages.POST("/goto", workshopHandler.GoToPage)
			pages.POST("/back", workshopHandler.GoBack)
		}

		drafts := api.Group("/drafts")
		{
			drafts.GET("", workshopHandler.GetDraft)
			drafts.POST("/new", workshopHandler.StartNewDraft)
			drafts.POST("/edit/:id", workshopHandler.StartEditDraft)
			drafts.PUT("", workshopHandler.UpdateDraft)
			drafts.POST("/image", workshopHandler.AttachImage)
			drafts.POST("/save", workshopHandler.SaveDraft)
			drafts.DELETE("", workshopHandler.CancelDraft)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", workshopHandler.PlaceOrder)
			orders.GET("", workshopHandler.ListOrders)
		}
	}

	return router
}
