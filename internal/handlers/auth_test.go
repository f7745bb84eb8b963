package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/services"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

// setupTest wires the handler package against in-memory stores. No Mongo,
// no Redis, no external services.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret", FrontendURL: "http://localhost:5173"}
	logger.Init("test")

	Init(
		store.NewMemoryStores(),
		services.NewEmailService(),
		services.NewPaymentService(),
		services.NewFacultyService(),
		nil,
	)
	SocketServer = nil
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedUser(t *testing.T, role models.Role, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:    utils.GenerateID(),
		Email: email,
		Name:  "Test " + string(role),
		Role:  role,
	}
	require.NoError(t, Store.Users.Create(context.Background(), u))
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	setupTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register",
		`{"name":"Asha","email":"Asha@Example.com","password":"longenough1"}`)
	Register(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "asha@example.com", created.User.Email)
	assert.Equal(t, models.RoleUser, created.User.Role)
	assert.Equal(t, models.DefaultMessageCredits, created.User.MessageCredits)

	// Duplicate email conflicts.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"longenough1"}`)
	Register(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the right password succeeds.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/login",
		`{"email":"asha@example.com","password":"longenough1"}`)
	Login(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password is a generic 401.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/login",
		`{"email":"asha@example.com","password":"wrong-password"}`)
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMentorRegistration(t *testing.T) {
	setupTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register",
		`{"name":"Mentor Mia","email":"mia@example.com","password":"longenough1","role":"mentor"}`)
	Register(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.RoleMentor, created.User.Role)
	assert.Equal(t, 0, created.User.MessageCredits)
}

func TestProfileMeRequiresAuth(t *testing.T) {
	setupTest(t)
	seedUser(t, models.RoleUser, "someone@example.com")

	r := gin.New()
	r.GET("/api/profile/me", middleware.AuthMiddleware(Store.Users), Me)

	// No Authorization header: 401 and no profile payload.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/profile/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "someone@example.com")

	// Garbage token: still 401.
	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileMeWithValidToken(t *testing.T) {
	setupTest(t)
	u := seedUser(t, models.RoleUser, "valid@example.com")

	token, err := utils.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/profile/me", middleware.AuthMiddleware(Store.Users), Me)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "valid@example.com")
}

func TestMentorMiddlewareBlocksStudents(t *testing.T) {
	setupTest(t)
	student := seedUser(t, models.RoleUser, "student@example.com")
	mentor := seedUser(t, models.RoleMentor, "mentor@example.com")

	r := gin.New()
	r.GET("/api/questions/for-mentor", middleware.AuthMiddleware(Store.Users), middleware.MentorMiddleware(), MentorQuestions)

	studentToken, err := utils.GenerateToken(student.ID, string(student.Role))
	require.NoError(t, err)
	mentorToken, err := utils.GenerateToken(mentor.ID, string(mentor.Role))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/questions/for-mentor", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/questions/for-mentor", nil)
	req.Header.Set("Authorization", "Bearer "+mentorToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
