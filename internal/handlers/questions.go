package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/matching"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

var matcher = matching.NewService()

const maxSuggestedMentors = 5

type CreateQuestionInput struct {
	Title    string   `json:"title" binding:"required"`
	Text     string   `json:"text" binding:"required"`
	Category string   `json:"category"`
	Domains  []string `json:"domains"`
}

func CreateQuestion(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := &models.Question{
		UserID:   userID,
		Title:    strings.TrimSpace(input.Title),
		Slug:     utils.Slugify(input.Title),
		Text:     strings.TrimSpace(input.Text),
		Category: strings.TrimSpace(input.Category),
		Domains:  input.Domains,
	}
	q.ID = utils.GenerateID()

	if err := Store.Questions.Create(c.Request.Context(), q); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	logger.Info().Str("question_id", q.ID).Str("user_id", userID).Msg("Question created")
	c.JSON(http.StatusCreated, gin.H{"question": q})
}

// MyQuestions lists the caller's own questions, newest first.
func MyQuestions(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	questions, err := Store.Questions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// MentorQuestions lists routed questions for the authenticated mentor.
func MentorQuestions(c *gin.Context) {
	mentorID := c.MustGet("userId").(string)

	questions, err := Store.Questions.ListForMentor(c.Request.Context(), mentorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func GetQuestion(c *gin.Context) {
	q, err := Store.Questions.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q})
}

type PreviewMatchInput struct {
	Text     string   `json:"text" binding:"required"`
	Category string   `json:"category"`
	Domains  []string `json:"domains"`
}

// PreviewMatch ranks mentors for draft question content without persisting
// anything.
func PreviewMatch(c *gin.Context) {
	var input PreviewMatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := rankMentors(c.Request.Context(), matching.QuestionInput{
		Text:     input.Text,
		Category: input.Category,
		Domains:  input.Domains,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Preview match failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Matching failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"matched":     len(suggestions) > 0,
	})
}

// SuggestMentors ranks mentors for a stored question and persists the list
// on the question document.
func SuggestMentors(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	questionID := c.Param("id")

	q, err := Store.Questions.Get(c.Request.Context(), questionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}
	if q.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your question"})
		return
	}

	suggestions, err := rankMentors(c.Request.Context(), matching.QuestionInput{
		Text:     q.Text,
		Category: q.Category,
		Domains:  q.Domains,
	})
	if err != nil {
		logger.Error().Err(err).Str("question_id", questionID).Msg("Matching failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Matching failed"})
		return
	}

	if err := Store.Questions.SaveSuggestions(c.Request.Context(), questionID, suggestions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"matched":     len(suggestions) > 0,
	})
}

type RouteQuestionInput struct {
	MentorID string `json:"mentorId" binding:"required"`
}

// RouteQuestion assigns the question to the chosen mentor: status routed,
// mentor load incremented, notification plus email sent.
func RouteQuestion(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	questionID := c.Param("id")

	var input RouteQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	q, err := Store.Questions.Get(ctx, questionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}
	if q.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your question"})
		return
	}

	mentor, err := Store.Users.GetByID(ctx, input.MentorID)
	if err != nil || !mentor.IsMentor() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mentor not found"})
		return
	}

	if err := Store.Questions.Route(ctx, questionID, mentor.ID); err != nil {
		// Route only succeeds from status open; everything else means it
		// was already taken.
		c.JSON(http.StatusConflict, gin.H{"error": "Question already routed"})
		return
	}

	_ = Store.Users.AdjustActiveQuestions(ctx, mentor.ID, 1)

	notifyQuestionRouted(ctx, q, mentor)

	logger.Info().Str("question_id", questionID).Str("mentor_id", mentor.ID).Msg("Question routed")
	c.JSON(http.StatusOK, gin.H{"routed": true, "mentorId": mentor.ID})
}

// CloseQuestion marks a question closed and releases the mentor's slot.
func CloseQuestion(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	questionID := c.Param("id")

	ctx := c.Request.Context()

	q, err := Store.Questions.Get(ctx, questionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}
	if q.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your question"})
		return
	}
	if q.Status == models.QuestionClosed {
		c.JSON(http.StatusOK, gin.H{"closed": true})
		return
	}

	if err := Store.Questions.SetStatus(ctx, questionID, models.QuestionClosed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close question"})
		return
	}

	if q.SelectedMentorID != "" {
		_ = Store.Users.AdjustActiveQuestions(ctx, q.SelectedMentorID, -1)
	}

	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// rankMentors loads all mentors with their rating summaries and runs the
// matcher, capped to the top suggestions.
func rankMentors(ctx context.Context, input matching.QuestionInput) ([]models.MentorSuggestion, error) {
	mentors, err := Store.Users.Mentors(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(mentors))
	for i := range mentors {
		avg := 0.0
		if summary, err := Store.Ratings.MentorSummary(ctx, mentors[i].ID); err == nil {
			avg = summary.Average
		}
		candidates = append(candidates, matching.Candidate{Mentor: mentors[i], AvgRating: avg})
	}

	suggestions := matcher.Rank(input, candidates)
	if len(suggestions) > maxSuggestedMentors {
		suggestions = suggestions[:maxSuggestedMentors]
	}
	return suggestions, nil
}

func notifyQuestionRouted(ctx context.Context, q *models.Question, mentor *models.User) {
	n := &models.Notification{
		UserID:     mentor.ID,
		ActorID:    q.UserID,
		Type:       models.NotificationQuestionRouted,
		QuestionID: q.ID,
		Message:    fmt.Sprintf("A new question was routed to you: %s", q.Title),
	}
	if err := Store.Notifications.Create(ctx, n); err != nil {
		logger.Error().Err(err).Str("mentor_id", mentor.ID).Msg("Failed to store notification")
	}

	SendNotificationToUser(mentor.ID, map[string]interface{}{
		"type":       string(models.NotificationQuestionRouted),
		"questionId": q.ID,
		"message":    n.Message,
	})

	Email.SendQuestionRouted(mentor.Email, mentor.Name, q.Title)
}
