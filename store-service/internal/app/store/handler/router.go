package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"odilusta/pkg/logger"
	"odilusta/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Store Service с использованием Gin
func SetupRoutes(productHandler *ProductHandler) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("store-service"))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "store-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Products endpoints - контракт хранилища: list, insert, update, delete
	products := router.Group("/products")
	{
		products.GET("", productHandler.ListProducts)          // Список товаров по id asc
		products.POST("", productHandler.CreateProduct)        // Вставка, возвращает строку с новым id
		products.PUT("/:id", productHandler.UpdateProduct)     // Обновление по id, возвращает строку
		products.DELETE("/:id", productHandler.DeleteProduct)  // Удаление по id
	}

	return router
}
