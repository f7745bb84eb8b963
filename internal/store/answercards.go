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

type mongoAnswerCardStore struct {
	coll *mongo.Collection
}

func NewMongoAnswerCardStore(coll *mongo.Collection) AnswerCardStore {
	return &mongoAnswerCardStore{coll: coll}
}

func (s *mongoAnswerCardStore) Create(ctx context.Context, card *models.AnswerCard) error {
	if card.ID == "" {
		card.ID = utils.GenerateID()
	}
	card.CreatedAt = time.Now()
	_, err := s.coll.InsertOne(ctx, card)
	return err
}

func (s *mongoAnswerCardStore) Get(ctx context.Context, id string) (*models.AnswerCard, error) {
	var card models.AnswerCard
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *mongoAnswerCardStore) ListByQuestion(ctx context.Context, questionID string) ([]models.AnswerCard, error) {
	return s.list(ctx, bson.M{"questionId": questionID})
}

func (s *mongoAnswerCardStore) ListByMentor(ctx context.Context, mentorID string) ([]models.AnswerCard, error) {
	return s.list(ctx, bson.M{"mentorId": mentorID})
}

func (s *mongoAnswerCardStore) list(ctx context.Context, filter bson.M) ([]models.AnswerCard, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cards []models.AnswerCard
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
