package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxMessageLength    = 2000

	// Per-user send quota window, enforced in Redis on top of the per-IP
	// limiter.
	chatSendsPerMinute = 30
)

// Conversations lists the viewer's threads with unread counts, newest first.
func Conversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	convs, err := Store.Messages.Conversations(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list conversations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	type convView struct {
		ID                  string    `json:"id"`
		PartnerID           string    `json:"partnerId"`
		LastMessageText     string    `json:"lastMessageText"`
		LastMessageSenderID string    `json:"lastMessageSenderId"`
		LastMessageAt       time.Time `json:"lastMessageAt"`
		Unread              int       `json:"unread"`
	}

	views := make([]convView, 0, len(convs))
	for i := range convs {
		views = append(views, convView{
			ID:                  convs[i].ID,
			PartnerID:           convs[i].Partner(userID),
			LastMessageText:     convs[i].LastMessageText,
			LastMessageSenderID: convs[i].LastMessageSenderID,
			LastMessageAt:       convs[i].LastMessageAt,
			Unread:              convs[i].Unread[userID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

const unreadTotalTTL = 30 * time.Second

// UnreadTotal returns the badge count across all conversations, cached in
// Redis and invalidated on sends and mark-reads.
func UnreadTotal(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var total int
	if err := database.CacheGet("unread_total:"+userID, &total); err == nil {
		c.JSON(http.StatusOK, gin.H{"unread": total})
		return
	}

	convs, err := Store.Messages.Conversations(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count unread")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread"})
		return
	}
	for i := range convs {
		total += convs[i].Unread[userID]
	}

	_ = database.CacheSet("unread_total:"+userID, total, unreadTotalTTL)
	c.JSON(http.StatusOK, gin.H{"unread": total})
}

// MessageHistory returns the chronological thread with one partner.
func MessageHistory(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	partnerID := c.Param("partnerId")
	if partnerID == "" || partnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner"})
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = min64(n, maxHistoryLimit)
		}
	}

	messages, err := Store.Messages.History(c.Request.Context(), userID, partnerID, limit)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type SendMessageInput struct {
	ReceiverID string `json:"receiver" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// SendMessage is the REST path for sending a private message; the socket
// gateway delivers it in real time when the receiver is online.
func SendMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, sendErr := persistPrivateMessage(c.Request.Context(), userID, input.ReceiverID, input.Text)
	if sendErr != nil {
		body := gin.H{"error": sendErr.message}
		if sendErr.reason != "" {
			body["reason"] = sendErr.reason
		}
		c.JSON(sendErr.httpStatus(), body)
		return
	}

	emitNewMessage(msg)
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// sendError classifies a failed send so the REST handler and the socket
// gateway can each surface it their own way.
type sendError struct {
	kind    sendErrorKind
	message string
	reason  string
}

type sendErrorKind int

const (
	sendInvalid sendErrorKind = iota
	sendRateLimited
	sendModeration
	sendNoCredits
	sendNotFound
	sendInternal
)

func (e *sendError) httpStatus() int {
	switch e.kind {
	case sendInvalid, sendModeration:
		return http.StatusBadRequest
	case sendRateLimited:
		return http.StatusTooManyRequests
	case sendNoCredits:
		return http.StatusPaymentRequired
	case sendNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// persistPrivateMessage runs the send pipeline shared by REST and the socket
// gateway: validation, per-user quota, moderation, credit-spending persist.
func persistPrivateMessage(ctx context.Context, senderID, receiverID, text string) (*models.Message, *sendError) {
	text = strings.TrimSpace(text)
	if receiverID == "" || receiverID == senderID {
		return nil, &sendError{kind: sendInvalid, message: "Invalid receiver"}
	}
	if text == "" || len(text) > maxMessageLength {
		return nil, &sendError{kind: sendInvalid, message: "Message must be 1-2000 characters"}
	}

	allowed, err := database.CheckRateLimit("chat_send:"+senderID, chatSendsPerMinute, time.Minute)
	if err == nil && !allowed {
		return nil, &sendError{kind: sendRateLimited, message: "Too many messages, slow down"}
	}

	if result := moderation.Check(text); !result.OK {
		return nil, &sendError{
			kind:    sendModeration,
			message: "Message blocked by content policy",
			reason:  result.Reason,
		}
	}

	sender, err := Store.Users.GetByID(ctx, senderID)
	if err != nil {
		return nil, &sendError{kind: sendNotFound, message: "Sender not found"}
	}
	if _, err := Store.Users.GetByID(ctx, receiverID); err != nil {
		return nil, &sendError{kind: sendNotFound, message: "Receiver not found"}
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}

	spendCredit := sender.Role == models.RoleUser
	if err := Store.Messages.Send(ctx, msg, spendCredit); err != nil {
		if errors.Is(err, store.ErrInsufficientCredits) {
			return nil, &sendError{kind: sendNoCredits, message: "Out of message credits"}
		}
		logger.Error().Err(err).Str("sender", senderID).Msg("Failed to persist message")
		return nil, &sendError{kind: sendInternal, message: "Failed to send message"}
	}

	_ = Store.Users.Touch(ctx, senderID)
	_ = database.CacheInvalidate("unread_total:" + receiverID)
	return msg, nil
}

// MarkConversationRead flips everything the partner sent to read and resets
// the unread badge.
func MarkConversationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	partnerID := c.Param("partnerId")
	if partnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner"})
		return
	}

	n, err := Store.Messages.MarkConversationRead(c.Request.Context(), userID, partnerID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to mark conversation read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	_ = database.CacheInvalidate("unread_total:" + userID)
	emitConversationRead(userID, partnerID)

	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// DeleteMessage removes the caller's own message.
func DeleteMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	messageID := c.Param("id")

	err := Store.Messages.Delete(c.Request.Context(), messageID, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	if errors.Is(err, store.ErrNotOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender can delete a message"})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to delete message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
