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

func createQuestionAs(t *testing.T, userID string) *models.Question {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", userID)
	c.Request = jsonRequest("POST", "/api/questions",
		`{"title":"How to crack consulting case interviews?","text":"Final round at a big 3 firm next month.","category":"consulting","domains":["consulting"]}`)
	CreateQuestion(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Question models.Question `json:"question"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp.Question
}

func routeAs(t *testing.T, userID, questionID, mentorID string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", userID)
	c.Params = gin.Params{{Key: "id", Value: questionID}}
	c.Request = jsonRequest("POST", "/api/questions/"+questionID+"/route",
		fmt.Sprintf(`{"mentorId":%q}`, mentorID))
	RouteQuestion(c)
	return w
}

func TestCreateQuestionSlugAndStatus(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")

	q := createQuestionAs(t, student.ID)
	assert.Equal(t, "how-to-crack-consulting-case-interviews", q.Slug)
	assert.Equal(t, models.QuestionOpen, q.Status)
	assert.Equal(t, student.ID, q.UserID)
}

func TestRouteQuestionLifecycle(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")
	q := createQuestionAs(t, student.ID)

	// Only the asker can route their question.
	w := routeAs(t, mentor.ID, q.ID, mentor.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Routing to a non-mentor is rejected.
	other := seedUser(t, models.RoleUser, "other@example.com")
	w = routeAs(t, student.ID, q.ID, other.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = routeAs(t, student.ID, q.ID, mentor.ID)
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	routed, err := Store.Questions.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionRouted, routed.Status)
	assert.Equal(t, mentor.ID, routed.SelectedMentorID)

	m, err := Store.Users.GetByID(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.ActiveQuestions)

	// The mentor got a stored notification.
	notifs, err := Store.Notifications.ListForUser(ctx, mentor.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, notifs)
	assert.Equal(t, models.NotificationQuestionRouted, notifs[0].Type)
	assert.Equal(t, q.ID, notifs[0].QuestionID)

	// A second route attempt conflicts.
	w = routeAs(t, student.ID, q.ID, mentor.ID)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCloseQuestionReleasesMentorSlot(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")
	q := createQuestionAs(t, student.ID)
	require.Equal(t, http.StatusOK, routeAs(t, student.ID, q.ID, mentor.ID).Code)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", student.ID)
	c.Params = gin.Params{{Key: "id", Value: q.ID}}
	c.Request = httptest.NewRequest("POST", "/api/questions/"+q.ID+"/close", nil)
	CloseQuestion(c)
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	closed, err := Store.Questions.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionClosed, closed.Status)

	m, err := Store.Users.GetByID(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, m.ActiveQuestions)

	// Closing again is idempotent and does not drive the counter negative.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set("userId", student.ID)
	c.Params = gin.Params{{Key: "id", Value: q.ID}}
	c.Request = httptest.NewRequest("POST", "/api/questions/"+q.ID+"/close", nil)
	CloseQuestion(c)
	require.Equal(t, http.StatusOK, w.Code)

	m, err = Store.Users.GetByID(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, m.ActiveQuestions)
}

func TestPreviewMatchRanksMentors(t *testing.T) {
	setupTest(t)
	seedUser(t, models.RoleUser, "student@example.com")

	consulting := seedUser(t, models.RoleMentor, "consulting@example.com")
	consulting.Domains = []string{"consulting", "case interviews"}
	require.NoError(t, Store.Users.Update(context.Background(), consulting))

	marketing := seedUser(t, models.RoleMentor, "marketing@example.com")
	marketing.Domains = []string{"marketing"}
	require.NoError(t, Store.Users.Update(context.Background(), marketing))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/questions/preview-match",
		`{"text":"I need help with consulting case interviews","category":"consulting","domains":["consulting"]}`)
	PreviewMatch(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []models.MentorSuggestion `json:"suggestions"`
		Matched     bool                      `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Matched)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, consulting.ID, resp.Suggestions[0].MentorID)
}
