package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rogerio-castellano/warehouse-inventory/internal/config"
)

// Connect opens a client to the configured MongoDB deployment, verifies it is
// reachable and returns the product collection.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Collection, error) {
	if cfg.MongoURI == "" {
		return nil, nil, fmt.Errorf("mongo URI not configured")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return client, client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection), nil
}
