package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

// mongoStores connects to the MONGODB_URI instance and returns stores backed
// by a throwaway database. Skipped unless the env var is set.
func mongoStores(t *testing.T) *Stores {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping Mongo integration test")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(5 * time.Second))
	require.NoError(t, err)

	dbName := fmt.Sprintf("atyant_test_%d", time.Now().UnixNano())
	database.Client = client
	database.DB = client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	require.NoError(t, database.EnsureIndexes(ctx))
	cancel()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = database.DB.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return NewMongoStores(client)
}

func TestMongoCreditSpendAndUnread(t *testing.T) {
	s := mongoStores(t)
	ctx := context.Background()

	student := &models.User{ID: utils.GenerateID(), Email: "student@example.com", Name: "Student", Role: models.RoleUser}
	mentor := &models.User{ID: utils.GenerateID(), Email: "mentor@example.com", Name: "Mentor", Role: models.RoleMentor}
	require.NoError(t, s.Users.Create(ctx, student))
	require.NoError(t, s.Users.Create(ctx, mentor))

	// Unique email index rejects a second registration.
	dup := &models.User{ID: utils.GenerateID(), Email: "student@example.com", Name: "Other", Role: models.RoleUser}
	assert.ErrorIs(t, s.Users.Create(ctx, dup), ErrDuplicate)

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "hello from the integration test"}
	require.NoError(t, s.Messages.Send(ctx, msg, true))

	u, err := s.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessageCredits-1, u.MessageCredits)

	convs, err := s.Messages.Conversations(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].Unread[mentor.ID])

	read, transitioned, err := s.Messages.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.StatusRead, read.Status)

	// Second read ack is a no-op.
	_, transitioned, err = s.Messages.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, transitioned)

	convs, err = s.Messages.Conversations(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].Unread[mentor.ID])
}

func TestMongoZeroCreditSendPersistsNothing(t *testing.T) {
	s := mongoStores(t)
	ctx := context.Background()

	student := &models.User{ID: utils.GenerateID(), Email: "broke@example.com", Name: "Broke", Role: models.RoleUser}
	mentor := &models.User{ID: utils.GenerateID(), Email: "mentor2@example.com", Name: "Mentor", Role: models.RoleMentor}
	require.NoError(t, s.Users.Create(ctx, student))
	require.NoError(t, s.Users.Create(ctx, mentor))

	u, err := s.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	u.MessageCredits = 0
	require.NoError(t, s.Users.Update(ctx, u))

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "please?"}
	assert.ErrorIs(t, s.Messages.Send(ctx, msg, true), ErrInsufficientCredits)

	history, err := s.Messages.History(ctx, student.ID, mentor.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
