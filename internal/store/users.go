package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

type mongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) UserStore {
	return &mongoUserStore{coll: coll}
}

func (s *mongoUserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.LastActive = now
	if u.Role == models.RoleUser && u.MessageCredits == 0 {
		u.MessageCredits = models.DefaultMessageCredits
	}

	_, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *mongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Mentors returns all mentor accounts, most recently active first. The
// matching service does its own scoring; this is just the candidate pool.
func (s *mongoUserStore) Mentors(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"role": models.RoleMentor})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mentors []models.User
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (s *mongoUserStore) AddCredits(ctx context.Context, userID string, n int) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"messageCredits": n}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) Touch(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"lastActive": time.Now()}},
	)
	return err
}

func (s *mongoUserStore) AdjustActiveQuestions(ctx context.Context, mentorID string, delta int) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": mentorID},
		bson.M{"$inc": bson.M{"activeQuestions": delta}},
	)
	return err
}
