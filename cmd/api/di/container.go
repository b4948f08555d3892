package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"rest-user-service/cmd/api/infrastructure"
	"rest-user-service/internal/adapter/cache"
	"rest-user-service/internal/adapter/db/mongodb"
	ginhandler "rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	ginrouter "rest-user-service/internal/adapter/gin/router"
	"rest-user-service/internal/adapter/repository/cached"
	"rest-user-service/internal/config"
	"rest-user-service/internal/usecase/user"
	redisclient "rest-user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	Handler     *ginhandler.UserHandler
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize MongoDB
	client, db, err := infrastructure.NewMongo(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repository and its email uniqueness index
	dbRepo := mongodb.NewUserRepoMongo(db, l)
	indexCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Mongo.TimeoutSeconds)*time.Second)
	defer cancel()
	if err := dbRepo.EnsureIndexes(indexCtx); err != nil {
		_ = infrastructure.CloseMongo(client)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	var repo user.Repository = dbRepo

	// Initialize Redis-backed cache layer when enabled
	var rdb *redisclient.Client
	if cfg.Redis.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			_ = infrastructure.CloseMongo(client)
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(dbRepo, userCache, l)
	}

	// Initialize use case and handler
	userUC := user.New(repo, l)
	handler := ginhandler.NewUserHandler(userUC, l)

	// Initialize router
	router := ginrouter.SetupRouter(handler, middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
		Enabled:           cfg.RateLimit.Enabled,
	}, rdb, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		MongoClient: client,
		RedisClient: rdb,
		UserUC:      userUC,
		Handler:     handler,
		Router:      router,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.MongoClient != nil {
		if err := infrastructure.CloseMongo(c.MongoClient); err != nil {
			errs = append(errs, fmt.Errorf("failed to close MongoDB: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
