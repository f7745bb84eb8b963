// Command seeder loads development fixtures: a student account and a
// handful of mentors across domains. Safe to re-run; existing emails are
// skipped.
package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

func main() {
	config.LoadConfig()
	logger.Init("development")

	database.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stores := store.NewMongoStores(database.Client)

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("Hash failed")
	}

	seedUsers := []models.User{
		{
			Email: "student@example.com",
			Name:  "Demo Student",
			Role:  models.RoleUser,
		},
		{
			Email:     "priya.mentor@example.com",
			Name:      "Priya Sharma",
			Role:      models.RoleMentor,
			Domains:   []string{"consulting", "case interviews"},
			City:      "Bangalore",
			Education: &models.Education{InstitutionName: "IIM Bangalore", Degree: "MBA", Year: 2021},
			MentorProfile: &models.MentorProfile{
				Headline:          "Consultant, ex-McKinsey",
				YearsOfExperience: 4,
				Verified:          true,
			},
		},
		{
			Email:     "arjun.mentor@example.com",
			Name:      "Arjun Verma",
			Role:      models.RoleMentor,
			Domains:   []string{"product management", "tech"},
			City:      "Mumbai",
			Education: &models.Education{InstitutionName: "IIM Ahmedabad", Degree: "MBA", Year: 2020},
			MentorProfile: &models.MentorProfile{
				Headline:          "PM at a fintech",
				YearsOfExperience: 5,
				Verified:          true,
				AwayAutoReply:     "Thanks for reaching out! I am away right now and will reply within a day.",
			},
		},
		{
			Email:   "neha.mentor@example.com",
			Name:    "Neha Gupta",
			Role:    models.RoleMentor,
			Domains: []string{"marketing", "brand strategy"},
			City:    "Delhi",
			MentorProfile: &models.MentorProfile{
				Headline:          "Brand manager, FMCG",
				YearsOfExperience: 3,
			},
		},
	}

	created := 0
	for i := range seedUsers {
		u := seedUsers[i]
		u.ID = utils.GenerateID()
		u.Password = string(password)
		u.LastActive = time.Now()

		err := stores.Users.Create(ctx, &u)
		if errors.Is(err, store.ErrDuplicate) {
			logger.Info().Str("email", u.Email).Msg("Already seeded, skipping")
			continue
		}
		if err != nil {
			logger.Fatal().Err(err).Str("email", u.Email).Msg("Seed failed")
		}
		created++
	}

	logger.Info().Int("created", created).Msg("Seeding complete")

	if err := database.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("Disconnect failed")
	}
}
