package routes

import (
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/handlers"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupRoutes configures the routes for the gateway.
func SetupRoutes(
	router *gin.Engine,
	smsHandler *handlers.SMSHandler,
	channelsHandler *handlers.ChannelsHandler,
	redisClient *redis.Client,
	webhookToken string,
) {
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(webhookToken))
	v1.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		v1.POST("/sms/inbound", smsHandler.HandleInbound)
		v1.GET("/channels", channelsHandler.ListChannels)
	}

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)
}
