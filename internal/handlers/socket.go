package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"

	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

var SocketServer *socketio.Server

const socketOpTimeout = 10 * time.Second

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

// Active chat tracking: which conversation each user currently has open.
// Notifications for that partner are suppressed while it is open.
var (
	activeChats   = make(map[string]string) // userId -> partnerId
	activeChatsMu sync.RWMutex
)

// Away auto-reply bookkeeping: one auto-reply per conversation per server
// session, cleared when the mentor comes back online.
var (
	autoReplied   = make(map[string]bool) // conversation pair key -> replied
	autoRepliedMu sync.Mutex
)

// Typing throttle: track last typing emit per user to prevent spam
var (
	lastTypingEmit         = make(map[string]time.Time)
	lastTypingMu           sync.RWMutex
	typingThrottleDuration = 3 * time.Second
)

// GetOnlineUsers returns list of online user IDs
func GetOnlineUsers() []string {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()

	users := make([]string, 0, len(onlineUsers))
	for userId := range onlineUsers {
		users = append(users, userId)
	}
	return users
}

// IsUserOnline checks if a user is online
func IsUserOnline(userId string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userId]
	return exists
}

func activeChatPartner(userId string) string {
	activeChatsMu.RLock()
	defer activeChatsMu.RUnlock()
	return activeChats[userId]
}

// SendNotificationToUser pushes a realtime notification into the user's
// personal room.
func SendNotificationToUser(userId string, notification map[string]interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", userId, "notification", notification)
	}
}

// BroadcastPresenceUpdate broadcasts user online/offline status to all clients
func BroadcastPresenceUpdate(userId string, isOnline bool) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", "presence", "presence_update", map[string]interface{}{
			"userId":   userId,
			"isOnline": isOnline,
		})
	}
}

// emitNewMessage delivers a freshly persisted message to both parties'
// rooms. The chat_notification is suppressed when the receiver already has
// this conversation open.
func emitNewMessage(msg *models.Message) {
	if SocketServer == nil {
		return
	}

	payload := messagePayload(msg)

	SocketServer.BroadcastToRoom("/", msg.ReceiverID, "receive_private_message", payload)
	SocketServer.BroadcastToRoom("/", msg.ReceiverID, "new_message", payload)
	SocketServer.BroadcastToRoom("/", msg.SenderID, "receive_private_message", payload)

	if activeChatPartner(msg.ReceiverID) != msg.SenderID {
		SocketServer.BroadcastToRoom("/", msg.ReceiverID, "chat_notification", map[string]interface{}{
			"from":    msg.SenderID,
			"preview": utils.TruncateString(msg.Text, 80),
		})
	}
}

// emitStatusChange tells the sender (both event spellings kept for older
// clients) that a message moved to delivered/read.
func emitStatusChange(msg *models.Message) {
	if SocketServer == nil {
		return
	}
	payload := map[string]interface{}{
		"messageId": msg.ID,
		"status":    string(msg.Status),
	}
	SocketServer.BroadcastToRoom("/", msg.SenderID, "message_status", payload)
	SocketServer.BroadcastToRoom("/", msg.SenderID, "message_status_update", payload)
}

func emitConversationRead(viewerID, partnerID string) {
	if SocketServer == nil {
		return
	}
	SocketServer.BroadcastToRoom("/", partnerID, "message_status_update", map[string]interface{}{
		"conversationWith": viewerID,
		"status":           string(models.StatusRead),
	})
}

func messagePayload(msg *models.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":          msg.ID,
		"sender":      msg.SenderID,
		"receiver":    msg.ReceiverID,
		"text":        msg.Text,
		"status":      string(msg.Status),
		"seen":        msg.Seen,
		"isAutoReply": msg.IsAutoReply,
		"timestamp":   msg.CreatedAt,
	}
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		url := s.URL()

		token := url.Query().Get("token")
		if token == "" {
			token = url.Query().Get("auth_token")
		}
		if token == "" {
			logger.Warn().Str("socket_id", s.ID()).Msg("Socket rejected: no token")
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			logger.Warn().Str("socket_id", s.ID()).Msg("Socket rejected: invalid token")
			return fmt.Errorf("invalid token")
		}

		userId := claims.UserID
		s.SetContext(userId)

		onlineUsersMu.Lock()
		onlineUsers[userId] = s.ID()
		onlineUsersMu.Unlock()

		// Personal room for messages and notifications, plus the global
		// presence room.
		s.Join(userId)
		s.Join("presence")

		// A mentor coming back online may auto-reply again later.
		clearAutoRepliesFor(userId)

		BroadcastPresenceUpdate(userId, true)
		s.Emit("online_users", GetOnlineUsers())

		logger.Info().Str("socket_id", s.ID()).Str("user_id", userId).Msg("Socket connected")
		return nil
	})

	// Idempotent personal-room join; older clients send this explicitly
	// after connecting.
	server.OnEvent("/", "join_user_room", func(s socketio.Conn, userId string) {
		ctxUser, _ := s.Context().(string)
		if ctxUser == "" || ctxUser != userId {
			return
		}
		s.Join(userId)
	})

	server.OnEvent("/", "private_message", func(s socketio.Conn, data map[string]interface{}) {
		senderID, _ := s.Context().(string)
		if senderID == "" {
			return
		}

		// Spoof check: the sender field, if present, must match the socket.
		if claimed, ok := data["sender"].(string); ok && claimed != "" && claimed != senderID {
			s.Emit("message_error", map[string]interface{}{"error": "Sender mismatch"})
			return
		}

		receiverID, _ := data["receiver"].(string)
		text, _ := data["text"].(string)

		ctx, cancel := context.WithTimeout(context.Background(), socketOpTimeout)
		defer cancel()

		msg, sendErr := persistPrivateMessage(ctx, senderID, receiverID, text)
		if sendErr != nil {
			if sendErr.kind == sendNoCredits {
				s.Emit("insufficient_credits", map[string]interface{}{
					"error": sendErr.message,
				})
				return
			}
			payload := map[string]interface{}{"error": sendErr.message}
			if sendErr.reason != "" {
				payload["reason"] = sendErr.reason
			}
			s.Emit("message_error", payload)
			return
		}

		emitNewMessage(msg)
		maybeAutoReply(ctx, msg)
	})

	server.OnEvent("/", "message_delivered", func(s socketio.Conn, data map[string]interface{}) {
		ackStatusChange(s, data, models.StatusDelivered)
	})

	server.OnEvent("/", "message_read", func(s socketio.Conn, data map[string]interface{}) {
		ackStatusChange(s, data, models.StatusRead)
	})

	server.OnEvent("/", "enter_chat", func(s socketio.Conn, data map[string]interface{}) {
		userId, _ := s.Context().(string)
		partnerId, _ := data["partnerId"].(string)
		if userId == "" || partnerId == "" {
			return
		}

		activeChatsMu.Lock()
		activeChats[userId] = partnerId
		activeChatsMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), socketOpTimeout)
		defer cancel()
		if err := Store.Messages.ResetUnread(ctx, userId, partnerId); err != nil {
			logger.Error().Err(err).Str("user_id", userId).Msg("Failed to reset unread")
		}
		_ = database.CacheInvalidate("unread_total:" + userId)
	})

	server.OnEvent("/", "leave_chat", func(s socketio.Conn, data map[string]interface{}) {
		userId, _ := s.Context().(string)
		if userId == "" {
			return
		}
		activeChatsMu.Lock()
		delete(activeChats, userId)
		activeChatsMu.Unlock()
	})

	server.OnEvent("/", "typing", func(s socketio.Conn, data map[string]interface{}) {
		recipientID, ok := data["recipientId"].(string)
		if !ok {
			recipientID, _ = data["receiverId"].(string)
		}
		if recipientID == "" {
			return
		}

		senderID, _ := s.Context().(string)
		if senderID == "" {
			return
		}

		lastTypingMu.RLock()
		lastTime, exists := lastTypingEmit[senderID]
		lastTypingMu.RUnlock()
		if exists && time.Since(lastTime) < typingThrottleDuration {
			return
		}

		lastTypingMu.Lock()
		lastTypingEmit[senderID] = time.Now()
		lastTypingMu.Unlock()

		server.BroadcastToRoom("/", recipientID, "user_typing", map[string]interface{}{
			"userId":    senderID,
			"expiresAt": time.Now().Add(4 * time.Second).Unix(),
		})
	})

	server.OnEvent("/", "get_online_users", func(s socketio.Conn, msg string) {
		s.Emit("online_users", GetOnlineUsers())
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		onlineUsersMu.Lock()
		var disconnectedUserId string
		for userId, socketId := range onlineUsers {
			if socketId == s.ID() {
				disconnectedUserId = userId
				delete(onlineUsers, userId)
				break
			}
		}
		onlineUsersMu.Unlock()

		if disconnectedUserId != "" {
			activeChatsMu.Lock()
			delete(activeChats, disconnectedUserId)
			activeChatsMu.Unlock()

			lastTypingMu.Lock()
			delete(lastTypingEmit, disconnectedUserId)
			lastTypingMu.Unlock()

			BroadcastPresenceUpdate(disconnectedUserId, false)
		}

		logger.Info().Str("socket_id", s.ID()).Str("reason", reason).Msg("Socket disconnected")
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Error().Err(e).Msg("Socket error")
	})

	go server.Serve()
	SocketServer = server
	return server
}

// ackStatusChange applies a delivered/read acknowledgement. The ack must
// come from the receiver of the message, and the status only ever moves
// forward.
func ackStatusChange(s socketio.Conn, data map[string]interface{}, next models.MessageStatus) {
	userId, _ := s.Context().(string)
	messageID, _ := data["messageId"].(string)
	if userId == "" || messageID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), socketOpTimeout)
	defer cancel()

	msg, err := Store.Messages.Get(ctx, messageID)
	if err != nil {
		return
	}
	if msg.ReceiverID != userId {
		return
	}

	var transitioned bool
	if next == models.StatusRead {
		msg, transitioned, err = Store.Messages.MarkRead(ctx, messageID)
	} else {
		msg, transitioned, err = Store.Messages.MarkDelivered(ctx, messageID)
	}
	if err != nil || !transitioned {
		return
	}

	emitStatusChange(msg)
}

// maybeAutoReply sends the mentor's away message when they are offline,
// once per conversation while the server runs.
func maybeAutoReply(ctx context.Context, msg *models.Message) {
	if IsUserOnline(msg.ReceiverID) {
		return
	}

	receiver, err := Store.Users.GetByID(ctx, msg.ReceiverID)
	if err != nil || !receiver.IsMentor() || receiver.MentorProfile == nil || receiver.MentorProfile.AwayAutoReply == "" {
		return
	}

	key := models.PairKey(msg.SenderID, msg.ReceiverID)
	autoRepliedMu.Lock()
	if autoReplied[key] {
		autoRepliedMu.Unlock()
		return
	}
	autoReplied[key] = true
	autoRepliedMu.Unlock()

	reply := &models.Message{
		SenderID:    msg.ReceiverID,
		ReceiverID:  msg.SenderID,
		Text:        receiver.MentorProfile.AwayAutoReply,
		IsAutoReply: true,
	}
	// Auto-replies never spend credits.
	if err := Store.Messages.Send(ctx, reply, false); err != nil {
		logger.Error().Err(err).Str("mentor", msg.ReceiverID).Msg("Auto-reply failed")
		return
	}
	emitNewMessage(reply)
}

// clearAutoRepliesFor forgets auto-reply state for conversations involving
// the user, so a mentor reconnecting can auto-reply again next absence.
func clearAutoRepliesFor(userId string) {
	autoRepliedMu.Lock()
	defer autoRepliedMu.Unlock()
	for key := range autoReplied {
		if keyContains(key, userId) {
			delete(autoReplied, key)
		}
	}
}

func keyContains(pairKey, userId string) bool {
	return strings.HasPrefix(pairKey, userId+":") || strings.HasSuffix(pairKey, ":"+userId)
}

// SocketHandler wraps the Socket.IO server for gin.
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
