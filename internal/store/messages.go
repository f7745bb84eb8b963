package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

type mongoMessageStore struct {
	client        *mongo.Client
	messages      *mongo.Collection
	conversations *mongo.Collection
	users         *mongo.Collection
}

func NewMongoMessageStore(client *mongo.Client, messages, conversations, users *mongo.Collection) MessageStore {
	return &mongoMessageStore{
		client:        client,
		messages:      messages,
		conversations: conversations,
		users:         users,
	}
}

// Send writes the message, the conversation summary and (optionally) the
// credit decrement inside one transaction, so a crash can never leave
// credits spent without a stored message. On deployments without replica
// sets (no transaction support) it falls back to a compensating-action
// sequence: decrement conditionally first, refund if the insert fails.
func (s *mongoMessageStore) Send(ctx context.Context, msg *models.Message, spendCredit bool) error {
	s.prepare(msg)

	session, err := s.client.StartSession()
	if err != nil {
		return s.sendCompensating(ctx, msg, spendCredit)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		if spendCredit {
			if err := s.spendCredit(sc, msg.SenderID); err != nil {
				return nil, err
			}
		}
		if _, err := s.messages.InsertOne(sc, msg); err != nil {
			return nil, err
		}
		return nil, s.bumpConversation(sc, msg)
	})
	if err != nil && !errors.Is(err, ErrInsufficientCredits) && isTransactionUnsupported(err) {
		return s.sendCompensating(ctx, msg, spendCredit)
	}
	return err
}

func (s *mongoMessageStore) prepare(msg *models.Message) {
	if msg.ID == "" {
		msg.ID = utils.GenerateID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.Status = models.StatusSent
	msg.Seen = false
}

func (s *mongoMessageStore) spendCredit(ctx context.Context, senderID string) error {
	res := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": senderID, "messageCredits": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"messageCredits": -1}},
	)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return ErrInsufficientCredits
	}
	return res.Err()
}

func (s *mongoMessageStore) refundCredit(ctx context.Context, senderID string) {
	if _, err := s.users.UpdateOne(ctx,
		bson.M{"_id": senderID},
		bson.M{"$inc": bson.M{"messageCredits": 1}},
	); err != nil {
		logger.Error().Err(err).Str("user_id", senderID).Msg("Failed to refund message credit")
	}
}

func (s *mongoMessageStore) sendCompensating(ctx context.Context, msg *models.Message, spendCredit bool) error {
	if spendCredit {
		if err := s.spendCredit(ctx, msg.SenderID); err != nil {
			return err
		}
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		if spendCredit {
			s.refundCredit(ctx, msg.SenderID)
		}
		return err
	}
	return s.bumpConversation(ctx, msg)
}

// bumpConversation upserts the pair's conversation doc: last-message summary
// plus the receiver's unread counter.
func (s *mongoMessageStore) bumpConversation(ctx context.Context, msg *models.Message) error {
	key := models.PairKey(msg.SenderID, msg.ReceiverID)
	_, err := s.conversations.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{
			"$set": bson.M{
				"lastMessageText":     utils.TruncateString(msg.Text, 200),
				"lastMessageSenderId": msg.SenderID,
				"lastMessageAt":       msg.CreatedAt,
			},
			"$inc": bson.M{"unread." + msg.ReceiverID: 1},
			"$setOnInsert": bson.M{
				"_id":          utils.GenerateID(),
				"key":          key,
				"participants": []string{msg.SenderID, msg.ReceiverID},
			},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *mongoMessageStore) Get(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := s.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// History returns the last `limit` messages between a and b, oldest first.
func (s *mongoMessageStore) History(ctx context.Context, a, b string, limit int64) ([]models.Message, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"senderId": a, "receiverId": b},
			bson.M{"senderId": b, "receiverId": a},
		},
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)

	cursor, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	// Newest-first from the index; flip to chronological for the client.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkDelivered transitions sent -> delivered. The filter doubles as the
// monotonicity guard: a message already delivered or read is left untouched.
func (s *mongoMessageStore) MarkDelivered(ctx context.Context, id string) (*models.Message, bool, error) {
	now := time.Now()
	res := s.messages.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusSent},
		bson.M{"$set": bson.M{"status": models.StatusDelivered, "deliveredAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var msg models.Message
	err := res.Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either unknown or already past `sent`; report without transition.
		existing, gerr := s.Get(ctx, id)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &msg, true, nil
}

// MarkRead transitions sent|delivered -> read and sets the seen flag. A read
// ack without a prior delivered ack is accepted; the status still only moves
// forward.
func (s *mongoMessageStore) MarkRead(ctx context.Context, id string) (*models.Message, bool, error) {
	now := time.Now()
	res := s.messages.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": bson.A{models.StatusSent, models.StatusDelivered}}},
		bson.M{"$set": bson.M{"status": models.StatusRead, "seen": true, "readAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var msg models.Message
	err := res.Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, gerr := s.Get(ctx, id)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// Keep the unread counter in step; never below zero.
	key := models.PairKey(msg.SenderID, msg.ReceiverID)
	if _, err := s.conversations.UpdateOne(ctx,
		bson.M{"key": key, "unread." + msg.ReceiverID: bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"unread." + msg.ReceiverID: -1}},
	); err != nil {
		logger.Error().Err(err).Str("message_id", id).Msg("Failed to decrement unread counter")
	}
	return &msg, true, nil
}

func (s *mongoMessageStore) MarkConversationRead(ctx context.Context, viewer, partner string) (int64, error) {
	now := time.Now()
	res, err := s.messages.UpdateMany(ctx,
		bson.M{
			"senderId":   partner,
			"receiverId": viewer,
			"status":     bson.M{"$ne": models.StatusRead},
		},
		bson.M{"$set": bson.M{"status": models.StatusRead, "seen": true, "readAt": now}},
	)
	if err != nil {
		return 0, err
	}
	if err := s.ResetUnread(ctx, viewer, partner); err != nil {
		return res.ModifiedCount, err
	}
	return res.ModifiedCount, nil
}

func (s *mongoMessageStore) ResetUnread(ctx context.Context, viewer, partner string) error {
	_, err := s.conversations.UpdateOne(ctx,
		bson.M{"key": models.PairKey(viewer, partner)},
		bson.M{"$set": bson.M{"unread." + viewer: 0}},
	)
	return err
}

// Delete removes a message; only the sender may delete their own.
func (s *mongoMessageStore) Delete(ctx context.Context, id, senderID string) error {
	var msg models.Message
	err := s.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if msg.SenderID != senderID {
		return ErrNotOwner
	}
	_, err = s.messages.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *mongoMessageStore) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.M{"lastMessageAt": -1})
	cursor, err := s.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// isTransactionUnsupported detects standalone deployments where sessions
// exist but transactions are not available.
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 20 || cmdErr.Name == "IllegalOperation"
	}
	return false
}
