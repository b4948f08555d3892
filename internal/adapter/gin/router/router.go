package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	"rest-user-service/pkg/logger"
	redisclient "rest-user-service/pkg/redis"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// redisClient may be nil, in which case rate limiting is skipped.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimitCfg middleware.RateLimiterConfig,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(logger.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(logger.Middleware(log))
	if redisClient != nil {
		router.Use(middleware.RateLimiter(redisClient.Client, rateLimitCfg))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rest-user-service",
		})
	})

	user := router.Group("/user")
	{
		user.GET("", userHandler.ListUsers)
		user.POST("", userHandler.CreateUser)
		user.GET("/:id", userHandler.GetUser)
		user.PUT("/:id", userHandler.UpdateUser)
		user.DELETE("/:id", userHandler.DeleteUser)
	}

	// Catch-all for any unmatched path or method
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Path not found"})
	}
	router.NoRoute(notFound)
	router.NoMethod(notFound)

	return router
}
