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

type mongoCommunityStore struct {
	coll *mongo.Collection
}

func NewMongoCommunityStore(coll *mongo.Collection) CommunityStore {
	return &mongoCommunityStore{coll: coll}
}

func (s *mongoCommunityStore) Insert(ctx context.Context, m *models.CommunityMessage) error {
	if m.ID == "" {
		m.ID = utils.GenerateID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

// Recent returns the newest messages, oldest first for rendering.
func (s *mongoCommunityStore) Recent(ctx context.Context, limit int64) ([]models.CommunityMessage, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.CommunityMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
