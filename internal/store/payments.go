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

type mongoPaymentStore struct {
	coll *mongo.Collection
}

func NewMongoPaymentStore(coll *mongo.Collection) PaymentStore {
	return &mongoPaymentStore{coll: coll}
}

func (s *mongoPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	now := time.Now()
	if p.ID == "" {
		p.ID = utils.GenerateID()
	}
	p.Status = models.PaymentCreated
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *mongoPaymentStore) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	err := s.coll.FindOne(ctx, bson.M{"razorpayOrderId": orderID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid flips created -> paid exactly once; a webhook retry or a second
// verify call for the same order returns ErrNotFound instead of granting
// credits twice.
func (s *mongoPaymentStore) MarkPaid(ctx context.Context, orderID, paymentID string) (*models.Payment, error) {
	res := s.coll.FindOneAndUpdate(ctx,
		bson.M{"razorpayOrderId": orderID, "status": models.PaymentCreated},
		bson.M{"$set": bson.M{
			"status":            models.PaymentPaid,
			"razorpayPaymentId": paymentID,
			"updatedAt":         time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var p models.Payment
	err := res.Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *mongoPaymentStore) MarkFailed(ctx context.Context, orderID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"razorpayOrderId": orderID, "status": models.PaymentCreated},
		bson.M{"$set": bson.M{"status": models.PaymentFailed, "updatedAt": time.Now()}},
	)
	return err
}
