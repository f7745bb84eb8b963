package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

// --- Local Auth ---

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateName(input.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be 2-60 characters"})
		return
	}

	role := models.RoleUser
	if input.Role == string(models.RoleMentor) {
		role = models.RoleMentor
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       utils.GenerateID(),
		Email:    utils.NormalizeEmail(input.Email),
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
	}

	if err := Store.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists. Please sign in instead."})
			return
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	Email.SendWelcome(user.Email, user.Name)

	logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered successfully")

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Store.Users.GetByEmail(c.Request.Context(), utils.NormalizeEmail(input.Email))
	if err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	_ = Store.Users.Touch(c.Request.Context(), user.ID)

	logger.Info().Str("user_id", user.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the token server-side by blacklisting its JTI in Redis for
// the remaining lifetime.
func Logout(c *gin.Context) {
	claimsInterface, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	claims, ok := claimsInterface.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	jti := claims.GetJTI()
	if jti == "" {
		logger.Warn().Msg("Logout called with legacy token (no JTI)")
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	if err := database.BlacklistToken(jti, ttl); err != nil {
		logger.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// --- Google OAuth ---

var googleOauthConfig *oauth2.Config

func InitOAuthConfig() {
	if config.AppConfig.GoogleClientID == "" {
		logger.Warn().Msg("Google OAuth keys missing")
		return
	}
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  config.AppConfig.GoogleCallbackURL,
		ClientID:     config.AppConfig.GoogleClientID,
		ClientSecret: config.AppConfig.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin redirects the browser into the Google consent flow.
func GoogleLogin(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	url := googleOauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback exchanges the code, loads the Google profile and redirects
// back to the frontend with a session token.
func GoogleCallback(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	code := c.Query("code")
	token, err := googleOauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Error().Err(err).Msg("Google OAuth exchange failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange token"})
		return
	}

	client := googleOauthConfig.Client(c.Request.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		logger.Error().Err(err).Msg("Failed to parse Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user info"})
		return
	}

	sessionToken, err := handleOAuthLogin(c.Request.Context(), userInfo.Email, userInfo.Name, userInfo.Picture)
	if err != nil {
		logger.Error().Err(err).Str("email", userInfo.Email).Msg("OAuth login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	redirect := fmt.Sprintf("%s/auth/callback?token=%s", config.AppConfig.FrontendURL, url.QueryEscape(sessionToken))
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

type GoogleTokenInput struct {
	Credential string `json:"credential" binding:"required"`
}

// GoogleToken verifies a Google ID token posted by the SPA sign-in button
// and returns a session token.
func GoogleToken(c *gin.Context) {
	var input GoogleTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), input.Credential, config.AppConfig.GoogleClientID)
	if err != nil {
		logger.Warn().Err(err).Msg("Google ID token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google credential"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credential carries no email"})
		return
	}

	sessionToken, err := handleOAuthLogin(c.Request.Context(), email, name, picture)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("OAuth login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	user, _ := Store.Users.GetByEmail(c.Request.Context(), utils.NormalizeEmail(email))

	c.JSON(http.StatusOK, gin.H{
		"token": sessionToken,
		"user":  user,
	})
}

// handleOAuthLogin finds or creates the account and returns a session token.
func handleOAuthLogin(ctx context.Context, email, name, picture string) (string, error) {
	email = utils.NormalizeEmail(email)

	user, err := Store.Users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Random unguessable password; OAuth accounts never log in locally.
		random, hashErr := bcrypt.GenerateFromPassword([]byte(utils.GenerateID()), bcrypt.DefaultCost)
		if hashErr != nil {
			return "", hashErr
		}
		user = &models.User{
			ID:       utils.GenerateID(),
			Email:    email,
			Password: string(random),
			Name:     name,
			Role:     models.RoleUser,
			Image:    picture,
		}
		if createErr := Store.Users.Create(ctx, user); createErr != nil {
			return "", createErr
		}
		Email.SendWelcome(user.Email, user.Name)
		logger.Info().Str("user_id", user.ID).Msg("User created via Google sign-in")
	} else if err != nil {
		return "", err
	}

	_ = Store.Users.Touch(ctx, user.ID)
	return utils.GenerateToken(user.ID, string(user.Role))
}
