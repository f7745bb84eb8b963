package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

type mongoQuestionStore struct {
	coll *mongo.Collection
}

func NewMongoQuestionStore(coll *mongo.Collection) QuestionStore {
	return &mongoQuestionStore{coll: coll}
}

func (s *mongoQuestionStore) Create(ctx context.Context, q *models.Question) error {
	now := time.Now()
	if q.ID == "" {
		q.ID = utils.GenerateID()
	}
	q.Status = models.QuestionOpen
	q.CreatedAt = now
	q.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, q)
	return err
}

func (s *mongoQuestionStore) Get(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *mongoQuestionStore) ListByUser(ctx context.Context, userID string) ([]models.Question, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

func (s *mongoQuestionStore) ListForMentor(ctx context.Context, mentorID string) ([]models.Question, error) {
	return s.list(ctx, bson.M{"selectedMentorId": mentorID, "status": bson.M{"$in": bson.A{models.QuestionRouted, models.QuestionAnswered}}})
}

func (s *mongoQuestionStore) list(ctx context.Context, filter bson.M) ([]models.Question, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *mongoQuestionStore) SaveSuggestions(ctx context.Context, id string, suggestions []models.MentorSuggestion) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"suggestedMentors": suggestions, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Route assigns the mentor; only an open question can be routed.
func (s *mongoQuestionStore) Route(ctx context.Context, id, mentorID string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.QuestionOpen},
		bson.M{"$set": bson.M{
			"selectedMentorId": mentorID,
			"status":           models.QuestionRouted,
			"updatedAt":        time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoQuestionStore) SetStatus(ctx context.Context, id string, status models.QuestionStatus) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
