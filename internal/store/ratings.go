package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

type mongoRatingStore struct {
	coll *mongo.Collection
}

func NewMongoRatingStore(coll *mongo.Collection) RatingStore {
	return &mongoRatingStore{coll: coll}
}

func (s *mongoRatingStore) Create(ctx context.Context, r *models.Rating) error {
	if r.ID == "" {
		r.ID = utils.GenerateID()
	}
	r.CreatedAt = time.Now()

	_, err := s.coll.InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *mongoRatingStore) MentorSummary(ctx context.Context, mentorID string) (*models.MentorRatingSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "mentorId", Value: mentorID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$mentorId"},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$stars"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []models.MentorRatingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return &models.MentorRatingSummary{MentorID: mentorID}, nil
	}
	return &summaries[0], nil
}

func (s *mongoRatingStore) ListForMentor(ctx context.Context, mentorID string) ([]models.Rating, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, bson.M{"mentorId": mentorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
