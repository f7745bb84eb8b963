package store

import (
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
)

// NewMongoStores wires every store to the shared MongoDB connection.
func NewMongoStores(client *mongo.Client) *Stores {
	return &Stores{
		Users:         NewMongoUserStore(database.Users()),
		Messages:      NewMongoMessageStore(client, database.Messages(), database.Conversations(), database.Users()),
		Questions:     NewMongoQuestionStore(database.Questions()),
		AnswerCards:   NewMongoAnswerCardStore(database.AnswerCards()),
		Ratings:       NewMongoRatingStore(database.Ratings()),
		Payments:      NewMongoPaymentStore(database.Payments()),
		Community:     NewMongoCommunityStore(database.CommunityMessages()),
		Notifications: NewMongoNotificationStore(database.Notifications()),
	}
}
