package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

// Me returns the authenticated user's own profile.
func Me(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	user, err := Store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileInput struct {
	Name      string            `json:"name"`
	Bio       string            `json:"bio"`
	City      string            `json:"city"`
	Domains   []string          `json:"domains"`
	Languages []string          `json:"languages"`
	Education *models.Education `json:"education"`
	Location  *models.GeoPoint  `json:"location"`

	// Mentor-only fields, ignored for students.
	Headline          string `json:"headline"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	AwayAutoReply     string `json:"awayAutoReply"`
}

// UpdateProfile applies a partial profile update. Role, credits and email
// are never client-writable.
func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Name != "" {
		if !utils.ValidateName(input.Name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be 2-60 characters"})
			return
		}
		user.Name = strings.TrimSpace(input.Name)
	}
	user.Bio = utils.SanitizeHTML(input.Bio)
	user.City = strings.TrimSpace(input.City)
	if input.Domains != nil {
		user.Domains = input.Domains
	}
	if input.Languages != nil {
		user.Languages = input.Languages
	}
	if input.Education != nil {
		user.Education = input.Education
	}
	if input.Location != nil {
		if len(input.Location.Coordinates) != 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Location must be a [lng, lat] point"})
			return
		}
		input.Location.Type = "Point"
		user.Location = input.Location
	}

	if user.IsMentor() {
		if user.MentorProfile == nil {
			user.MentorProfile = &models.MentorProfile{}
		}
		if input.Headline != "" {
			user.MentorProfile.Headline = utils.SanitizeHTML(input.Headline)
		}
		if input.YearsOfExperience > 0 {
			user.MentorProfile.YearsOfExperience = input.YearsOfExperience
		}
		user.MentorProfile.AwayAutoReply = utils.SanitizeHTML(input.AwayAutoReply)
	}

	if err := Store.Users.Update(c.Request.Context(), user); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Profile update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadAvatar stores the profile image in R2 and saves the URL.
func UploadAvatar(c *gin.Context) {
	if Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Avatar storage not configured"})
		return
	}

	userID := c.MustGet("userId").(string)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file found"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpg, png and webp images are allowed"})
		return
	}

	url, err := Storage.UploadAvatar(c.Request.Context(), file, ext, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Avatar upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	user, err := Store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	user.Image = url
	if err := Store.Users.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ListMentors returns public mentor profiles for the browse page.
func ListMentors(c *gin.Context) {
	mentors, err := Store.Users.Mentors(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list mentors")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mentors"})
		return
	}

	views := make([]map[string]interface{}, 0, len(mentors))
	for i := range mentors {
		view := mentors[i].PublicView()
		view["mentorProfile"] = mentors[i].MentorProfile
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"mentors": views})
}

// GetUserPublic returns the public view of any account.
func GetUserPublic(c *gin.Context) {
	user, err := Store.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.PublicView()})
}
