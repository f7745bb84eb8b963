package models

import (
	"sort"
	"strings"
	"time"
)

// MessageStatus is the delivery state of a private message. Transitions are
// strictly forward: sent -> delivered -> read.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// CanTransition reports whether moving from s to next is a forward step.
// A read ack arriving before the delivered ack is allowed (sent -> read);
// a delivered ack after read is not, so status never regresses.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Message is a 1:1 private message. No group semantics exist.
type Message struct {
	ID          string        `bson:"_id" json:"id"`
	SenderID    string        `bson:"senderId" json:"sender"`
	ReceiverID  string        `bson:"receiverId" json:"receiver"`
	Text        string        `bson:"text" json:"text"`
	Status      MessageStatus `bson:"status" json:"status"`
	Seen        bool          `bson:"seen" json:"seen"`
	IsAutoReply bool          `bson:"isAutoReply,omitempty" json:"isAutoReply,omitempty"`

	CreatedAt   time.Time  `bson:"createdAt" json:"timestamp"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	ReadAt      *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// Conversation is the stored per-pair thread summary. Unread counts are
// authoritative here and updated together with each message write, so every
// session of a user sees the same badge state.
type Conversation struct {
	ID           string   `bson:"_id" json:"id"`
	Key          string   `bson:"key" json:"-"`
	Participants []string `bson:"participants" json:"participants"`

	LastMessageText     string    `bson:"lastMessageText" json:"lastMessageText"`
	LastMessageSenderID string    `bson:"lastMessageSenderId" json:"lastMessageSenderId"`
	LastMessageAt       time.Time `bson:"lastMessageAt" json:"lastMessageAt"`

	// Unread maps participant id -> count of messages not yet seen by them.
	Unread map[string]int `bson:"unread" json:"unread"`
}

// PairKey builds the canonical conversation key for two user ids,
// independent of direction.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// Partner returns the other participant for the given viewer.
func (c *Conversation) Partner(viewer string) string {
	for _, p := range c.Participants {
		if p != viewer {
			return p
		}
	}
	return ""
}
