package models

import "time"

type NotificationType string

const (
	NotificationQuestionRouted NotificationType = "QUESTION_ROUTED"
	NotificationAnswerCard     NotificationType = "ANSWER_CARD"
	NotificationRating         NotificationType = "RATING"
	NotificationSystem         NotificationType = "SYSTEM"
)

type Notification struct {
	ID      string           `bson:"_id" json:"id"`
	UserID  string           `bson:"userId" json:"userId"` // Recipient
	ActorID string           `bson:"actorId,omitempty" json:"actorId,omitempty"`
	Type    NotificationType `bson:"type" json:"type"`

	QuestionID string `bson:"questionId,omitempty" json:"questionId,omitempty"`
	Message    string `bson:"message" json:"message"`

	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
