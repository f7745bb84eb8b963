package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

type CreateRatingInput struct {
	MentorID   string `json:"mentorId" binding:"required"`
	QuestionID string `json:"questionId" binding:"required"`
	Stars      int    `json:"stars" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

// CreateRating records one rating per (user, mentor, question).
func CreateRating(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	q, err := Store.Questions.Get(ctx, input.QuestionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}
	if q.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the asker can rate"})
		return
	}
	if q.SelectedMentorID != input.MentorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mentor did not handle this question"})
		return
	}

	rating := &models.Rating{
		UserID:     userID,
		MentorID:   input.MentorID,
		QuestionID: input.QuestionID,
		Stars:      input.Stars,
		Comment:    utils.SanitizeHTML(input.Comment),
	}

	if err := Store.Ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already rated this answer"})
			return
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to store rating")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store rating"})
		return
	}

	n := &models.Notification{
		UserID:     input.MentorID,
		ActorID:    userID,
		Type:       models.NotificationRating,
		QuestionID: input.QuestionID,
		Message:    "You received a new rating",
	}
	_ = Store.Notifications.Create(ctx, n)
	SendNotificationToUser(input.MentorID, map[string]interface{}{
		"type":    string(models.NotificationRating),
		"message": n.Message,
	})

	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

// MentorRatingSummary returns the average and count for a mentor.
func MentorRatingSummary(c *gin.Context) {
	summary, err := Store.Ratings.MentorSummary(c.Request.Context(), c.Param("mentorId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rating summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// MentorRatings lists a mentor's individual ratings.
func MentorRatings(c *gin.Context) {
	ratings, err := Store.Ratings.ListForMentor(c.Request.Context(), c.Param("mentorId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ratings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}
