package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect establishes the MongoDB connection and pings the primary.
func Connect() {
	opts := options.Client().
		ApplyURI(config.AppConfig.MongoURI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}

	Client = client
	DB = client.Database(config.AppConfig.MongoDBName)
	logger.Info().Str("db", config.AppConfig.MongoDBName).Msg("Connected to MongoDB")
}

// Disconnect closes the MongoDB connection.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// Collection accessors. Collections are created lazily by MongoDB on first write.

func Users() *mongo.Collection             { return DB.Collection("users") }
func Messages() *mongo.Collection          { return DB.Collection("messages") }
func Conversations() *mongo.Collection     { return DB.Collection("conversations") }
func Questions() *mongo.Collection         { return DB.Collection("questions") }
func AnswerCards() *mongo.Collection       { return DB.Collection("answercards") }
func Ratings() *mongo.Collection           { return DB.Collection("ratings") }
func Payments() *mongo.Collection          { return DB.Collection("payments") }
func CommunityMessages() *mongo.Collection { return DB.Collection("community_messages") }
func Notifications() *mongo.Collection     { return DB.Collection("notifications") }

// EnsureIndexes creates the indexes the query paths rely on. Invoked from
// cmd/indexes rather than on every boot so deploys stay fast.
func EnsureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Mentor matching scans: active mentors ordered by recency and load.
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "lastActive", Value: -1}, {Key: "activeQuestions", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "education.institutionName", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
	}
	if _, err := Users().Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	questionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "selectedMentorId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := Questions().Indexes().CreateMany(ctx, questionIndexes); err != nil {
		return fmt.Errorf("questions indexes: %w", err)
	}

	if _, err := AnswerCards().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mentorId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("answercards indexes: %w", err)
	}

	messageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := Messages().Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return fmt.Errorf("messages indexes: %w", err)
	}

	if _, err := Conversations().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("conversations indexes: %w", err)
	}

	if _, err := Ratings().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "mentorId", Value: 1}, {Key: "questionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("ratings indexes: %w", err)
	}

	if _, err := CommunityMessages().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("community_messages indexes: %w", err)
	}

	if _, err := Notifications().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}

	return nil
}
