// Command indexes creates the MongoDB indexes the query paths rely on.
// Run it once per deploy target:
//
//	go run ./cmd/indexes
package main

import (
	"context"
	"time"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init("development")

	database.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Index creation failed")
	}

	logger.Info().Msg("All indexes created")

	if err := database.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("Disconnect failed")
	}
}
