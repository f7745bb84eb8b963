// Command fixdata repairs corrupted user documents: missing credit
// balances, malformed locations and absent lastActive timestamps.
package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init("development")

	database.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users := database.Users()

	// Students with a missing or negative credit balance get the default.
	res, err := users.UpdateMany(ctx,
		bson.M{
			"role": models.RoleUser,
			"$or": []bson.M{
				{"messageCredits": bson.M{"$exists": false}},
				{"messageCredits": bson.M{"$lt": 0}},
			},
		},
		bson.M{"$set": bson.M{"messageCredits": models.DefaultMessageCredits}},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Credit repair failed")
	}
	logger.Info().Int64("fixed", res.ModifiedCount).Msg("Credit balances repaired")

	// Locations that are not valid GeoJSON points break the 2dsphere index;
	// drop them.
	res, err = users.UpdateMany(ctx,
		bson.M{
			"location": bson.M{"$exists": true},
			"$or": []bson.M{
				{"location.type": bson.M{"$ne": "Point"}},
				{"location.coordinates": bson.M{"$not": bson.M{"$size": 2}}},
			},
		},
		bson.M{"$unset": bson.M{"location": ""}},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Location repair failed")
	}
	logger.Info().Int64("fixed", res.ModifiedCount).Msg("Invalid locations cleared")

	// Missing lastActive makes matching treat the mentor as inactive; seed
	// it from createdAt.
	cursor, err := users.Find(ctx, bson.M{"lastActive": bson.M{"$exists": false}})
	if err != nil {
		logger.Fatal().Err(err).Msg("lastActive scan failed")
	}
	var stale []models.User
	if err := cursor.All(ctx, &stale); err != nil {
		logger.Fatal().Err(err).Msg("lastActive decode failed")
	}
	for i := range stale {
		_, err := users.UpdateOne(ctx,
			bson.M{"_id": stale[i].ID},
			bson.M{"$set": bson.M{"lastActive": stale[i].CreatedAt}},
		)
		if err != nil {
			logger.Error().Err(err).Str("user_id", stale[i].ID).Msg("lastActive repair failed")
		}
	}
	logger.Info().Int("fixed", len(stale)).Msg("lastActive backfilled")

	// Negative activeQuestions counters clamp to zero.
	res, err = users.UpdateMany(ctx,
		bson.M{"activeQuestions": bson.M{"$lt": 0}},
		bson.M{"$set": bson.M{"activeQuestions": 0}},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("activeQuestions repair failed")
	}
	logger.Info().Int64("fixed", res.ModifiedCount).Msg("activeQuestions clamped")

	if err := database.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("Disconnect failed")
	}
}
