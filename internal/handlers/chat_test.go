package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

func sendAs(t *testing.T, userID, receiverID, text string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", userID)
	body := fmt.Sprintf(`{"receiver":%q,"text":%q}`, receiverID, text)
	c.Request = jsonRequest("POST", "/api/messages", body)
	SendMessage(c)
	return w
}

func TestSendMessageSpendsOneCredit(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	w := sendAs(t, student.ID, mentor.ID, "how should I prep for the PI round?")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message models.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, student.ID, resp.Message.SenderID)
	assert.Equal(t, models.StatusSent, resp.Message.Status)

	u, err := Store.Users.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessageCredits-1, u.MessageCredits)
}

func TestSendMessageMentorRepliesAreFree(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	w := sendAs(t, mentor.ID, student.ID, "happy to help, send over your profile")
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := Store.Users.GetByID(context.Background(), mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, u.MessageCredits)
}

func TestSendMessageOutOfCredits(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	ctx := context.Background()
	u, err := Store.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	u.MessageCredits = 0
	require.NoError(t, Store.Users.Update(ctx, u))

	w := sendAs(t, student.ID, mentor.ID, "one last question")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	history, err := Store.Messages.History(ctx, student.ID, mentor.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSendMessageBlockedByModeration(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	// Obfuscated profanity still normalizes to a blocked word.
	w := sendAs(t, student.ID, mentor.ID, "this is such bullsh1t advice")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "reason")

	ctx := context.Background()
	history, err := Store.Messages.History(ctx, student.ID, mentor.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Blocked messages cost nothing.
	u, err := Store.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessageCredits, u.MessageCredits)
}

func TestSendMessageRejectsSelfAndEmpty(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	w := sendAs(t, student.ID, student.ID, "hello me")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendAs(t, student.ID, mentor.ID, "   ")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")

	w := sendAs(t, student.ID, "nobody-here", "anyone there?")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationsAndMarkRead(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	require.Equal(t, http.StatusCreated, sendAs(t, student.ID, mentor.ID, "first").Code)
	require.Equal(t, http.StatusCreated, sendAs(t, student.ID, mentor.ID, "second").Code)

	// Mentor sees one thread with two unread.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", mentor.ID)
	c.Request = httptest.NewRequest("GET", "/api/messages/conversations", nil)
	Conversations(c)
	require.Equal(t, http.StatusOK, w.Code)

	var convResp struct {
		Conversations []struct {
			PartnerID string `json:"partnerId"`
			Unread    int    `json:"unread"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &convResp))
	require.Len(t, convResp.Conversations, 1)
	assert.Equal(t, student.ID, convResp.Conversations[0].PartnerID)
	assert.Equal(t, 2, convResp.Conversations[0].Unread)

	// Opening the thread marks everything read.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set("userId", mentor.ID)
	c.Params = gin.Params{{Key: "partnerId", Value: student.ID}}
	c.Request = httptest.NewRequest("POST", "/api/messages/read/"+student.ID, nil)
	MarkConversationRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":2`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set("userId", mentor.ID)
	c.Request = httptest.NewRequest("GET", "/api/messages/conversations", nil)
	Conversations(c)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &convResp))
	require.Len(t, convResp.Conversations, 1)
	assert.Equal(t, 0, convResp.Conversations[0].Unread)
}

func TestDeleteMessageOwnership(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	w := sendAs(t, student.ID, mentor.ID, "sent in error")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Message models.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The receiver cannot delete it.
	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", mentor.ID)
	c.Params = gin.Params{{Key: "id", Value: resp.Message.ID}}
	c.Request = httptest.NewRequest("DELETE", "/api/messages/"+resp.Message.ID, nil)
	DeleteMessage(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The sender can.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set("userId", student.ID)
	c.Params = gin.Params{{Key: "id", Value: resp.Message.ID}}
	c.Request = httptest.NewRequest("DELETE", "/api/messages/"+resp.Message.ID, nil)
	DeleteMessage(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Gone now.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set("userId", student.ID)
	c.Params = gin.Params{{Key: "id", Value: resp.Message.ID}}
	c.Request = httptest.NewRequest("DELETE", "/api/messages/"+resp.Message.ID, nil)
	DeleteMessage(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
