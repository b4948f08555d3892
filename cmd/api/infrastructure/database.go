package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"rest-user-service/internal/config"
)

// NewMongo connects to MongoDB, verifies connectivity with a ping and returns
// the client plus the configured database handle. The connection is
// established once at startup: failure here aborts the process rather than
// starting degraded.
func NewMongo(cfg *config.Config, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	timeout := time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	l.Info("MongoDB connected successfully",
		zap.String("database", cfg.Mongo.Database),
	)

	return client, client.Database(cfg.Mongo.Database), nil
}

// CloseMongo disconnects the MongoDB client.
func CloseMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	return nil
}
