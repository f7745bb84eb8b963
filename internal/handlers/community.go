package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

const communityPageSize = 100

// CommunityMessages returns the newest public-channel messages, oldest
// first for rendering.
func CommunityMessages(c *gin.Context) {
	messages, err := Store.Community.Recent(c.Request.Context(), communityPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type PostCommunityInput struct {
	Text string `json:"text" binding:"required"`
}

// PostCommunityMessage writes to the public channel. Same moderation rules
// as private chat, same length cap.
func PostCommunityMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input PostCommunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(input.Text)
	if text == "" || len(text) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must be 1-2000 characters"})
		return
	}

	if result := moderation.Check(text); !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Message blocked by content policy",
			"reason": result.Reason,
		})
		return
	}

	user, err := Store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	msg := &models.CommunityMessage{
		SenderID:   userID,
		SenderName: user.Name,
		Text:       text,
	}
	if err := Store.Community.Insert(c.Request.Context(), msg); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to post community message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}

	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", "presence", "community_message", msg)
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
