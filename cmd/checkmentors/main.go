// Command checkmentors reports mentor-profile completeness: how many
// mentors carry domains, education, location and a mentor profile, which
// the matcher depends on.
package main

import (
	"context"
	"fmt"
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	users := database.Users()

	count := func(filter bson.M) int64 {
		filter["role"] = models.RoleMentor
		n, err := users.CountDocuments(ctx, filter)
		if err != nil {
			logger.Fatal().Err(err).Msg("Count failed")
		}
		return n
	}

	total := count(bson.M{})
	withDomains := count(bson.M{"domains.0": bson.M{"$exists": true}})
	withEducation := count(bson.M{"education.institutionName": bson.M{"$ne": ""}})
	withLocation := count(bson.M{"location.type": "Point"})
	withProfile := count(bson.M{"mentorProfile": bson.M{"$exists": true}})
	verified := count(bson.M{"mentorProfile.verified": true})
	recentCutoff := time.Now().Add(-7 * 24 * time.Hour)
	recentlyActive := count(bson.M{"lastActive": bson.M{"$gte": recentCutoff}})

	fmt.Printf("mentors total:          %d\n", total)
	fmt.Printf("  with domains:         %d\n", withDomains)
	fmt.Printf("  with education:       %d\n", withEducation)
	fmt.Printf("  with location:        %d\n", withLocation)
	fmt.Printf("  with mentor profile:  %d\n", withProfile)
	fmt.Printf("  verified:             %d\n", verified)
	fmt.Printf("  active last 7 days:   %d\n", recentlyActive)

	if err := database.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("Disconnect failed")
	}
}
