package routers

import (
	"github.com/gin-gonic/gin"

	providerhandler "shipcalc/internal/server/handlers/provider"
	quotehandler "shipcalc/internal/server/handlers/quote"
	"shipcalc/internal/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	quoteHandler *quotehandler.QuoteHandler,
	providerHandler *providerhandler.ProviderHandler,
) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger())
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "shipcalc",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		quotes := v1.Group("/quotes")
		{
			quotes.POST("", quoteHandler.Create)
			quotes.GET("/:id", quoteHandler.Get)
		}

		providers := v1.Group("/providers")
		{
			providers.GET("", providerHandler.List)
			providers.POST("/:slug/validate", providerHandler.Validate)
		}
	}

	return r
}
