package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

type CreateAnswerCardInput struct {
	QuestionID       string   `json:"questionId" binding:"required"`
	Title            string   `json:"title" binding:"required"`
	Summary          string   `json:"summary" binding:"required"`
	Steps            []string `json:"steps"`
	Pitfalls         []string `json:"pitfalls"`
	SourceExperience string   `json:"sourceExperience"`
}

// CreateAnswerCard publishes a mentor's structured answer for a routed
// question and moves the question to answered.
func CreateAnswerCard(c *gin.Context) {
	mentorID := c.MustGet("userId").(string)

	var input CreateAnswerCardInput
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
	if q.SelectedMentorID != mentorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Question is not routed to you"})
		return
	}

	card := &models.AnswerCard{
		QuestionID:       q.ID,
		MentorID:         mentorID,
		Title:            strings.TrimSpace(input.Title),
		Summary:          strings.TrimSpace(input.Summary),
		Steps:            input.Steps,
		Pitfalls:         input.Pitfalls,
		SourceExperience: strings.TrimSpace(input.SourceExperience),
	}

	if err := Store.AnswerCards.Create(ctx, card); err != nil {
		logger.Error().Err(err).Str("question_id", q.ID).Msg("Failed to create answer card")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer card"})
		return
	}

	if err := Store.Questions.SetStatus(ctx, q.ID, models.QuestionAnswered); err != nil {
		logger.Error().Err(err).Str("question_id", q.ID).Msg("Failed to mark question answered")
	}
	_ = Store.Users.AdjustActiveQuestions(ctx, mentorID, -1)

	notifyAnswerCard(c, q, card)

	logger.Info().Str("card_id", card.ID).Str("question_id", q.ID).Msg("Answer card published")
	c.JSON(http.StatusCreated, gin.H{"answerCard": card})
}

// AnswerCardsByQuestion lists the cards for one question.
func AnswerCardsByQuestion(c *gin.Context) {
	cards, err := Store.AnswerCards.ListByQuestion(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list answer cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answerCards": cards})
}

// AnswerCardsByMentor lists a mentor's published cards, newest first.
func AnswerCardsByMentor(c *gin.Context) {
	cards, err := Store.AnswerCards.ListByMentor(c.Request.Context(), c.Param("mentorId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list answer cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answerCards": cards})
}

func notifyAnswerCard(c *gin.Context, q *models.Question, card *models.AnswerCard) {
	ctx := c.Request.Context()

	n := &models.Notification{
		UserID:     q.UserID,
		ActorID:    card.MentorID,
		Type:       models.NotificationAnswerCard,
		QuestionID: q.ID,
		Message:    "Your answer card is ready: " + card.Title,
	}
	if err := Store.Notifications.Create(ctx, n); err != nil {
		logger.Error().Err(err).Str("user_id", q.UserID).Msg("Failed to store notification")
	}

	SendNotificationToUser(q.UserID, map[string]interface{}{
		"type":       string(models.NotificationAnswerCard),
		"questionId": q.ID,
		"cardId":     card.ID,
		"message":    n.Message,
	})

	if student, err := Store.Users.GetByID(ctx, q.UserID); err == nil {
		Email.SendAnswerCardReady(student.Email, student.Name, q.Title)
	}
}
