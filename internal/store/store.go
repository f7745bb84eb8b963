// Package store holds the persistence layer: one interface per collection
// group, a MongoDB implementation used by the server, and an in-memory
// implementation used by tests and local tooling.
package store

import (
	"context"
	"errors"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("already exists")
	ErrInsufficientCredits = errors.New("insufficient message credits")
	ErrNotOwner            = errors.New("not the owner")
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Mentors(ctx context.Context) ([]models.User, error)
	AddCredits(ctx context.Context, userID string, n int) error
	Touch(ctx context.Context, userID string) error
	AdjustActiveQuestions(ctx context.Context, mentorID string, delta int) error
}

type MessageStore interface {
	// Send persists the message and updates the conversation summary and the
	// receiver's unread count as one atomic write. When spendCredit is set,
	// the sender's credit balance is decremented in the same write;
	// ErrInsufficientCredits is returned (and nothing persisted) at zero.
	Send(ctx context.Context, msg *models.Message, spendCredit bool) error
	Get(ctx context.Context, id string) (*models.Message, error)
	History(ctx context.Context, a, b string, limit int64) ([]models.Message, error)

	// MarkDelivered and MarkRead clamp the status forward-only. The bool
	// reports whether a transition actually happened.
	MarkDelivered(ctx context.Context, id string) (*models.Message, bool, error)
	MarkRead(ctx context.Context, id string) (*models.Message, bool, error)

	// MarkConversationRead marks everything the partner sent to the viewer
	// as read and zeroes the viewer's unread counter. Returns the number of
	// messages transitioned.
	MarkConversationRead(ctx context.Context, viewer, partner string) (int64, error)
	ResetUnread(ctx context.Context, viewer, partner string) error

	Delete(ctx context.Context, id, senderID string) error
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	Get(ctx context.Context, id string) (*models.Question, error)
	ListByUser(ctx context.Context, userID string) ([]models.Question, error)
	ListForMentor(ctx context.Context, mentorID string) ([]models.Question, error)
	SaveSuggestions(ctx context.Context, id string, suggestions []models.MentorSuggestion) error
	Route(ctx context.Context, id, mentorID string) error
	SetStatus(ctx context.Context, id string, status models.QuestionStatus) error
}

type AnswerCardStore interface {
	Create(ctx context.Context, card *models.AnswerCard) error
	Get(ctx context.Context, id string) (*models.AnswerCard, error)
	ListByQuestion(ctx context.Context, questionID string) ([]models.AnswerCard, error)
	ListByMentor(ctx context.Context, mentorID string) ([]models.AnswerCard, error)
}

type RatingStore interface {
	Create(ctx context.Context, r *models.Rating) error
	MentorSummary(ctx context.Context, mentorID string) (*models.MentorRatingSummary, error)
	ListForMentor(ctx context.Context, mentorID string) ([]models.Rating, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkPaid(ctx context.Context, orderID, paymentID string) (*models.Payment, error)
	MarkFailed(ctx context.Context, orderID string) error
}

type CommunityStore interface {
	Insert(ctx context.Context, m *models.CommunityMessage) error
	Recent(ctx context.Context, limit int64) ([]models.CommunityMessage, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Stores bundles every store behind one handle; handlers receive this.
type Stores struct {
	Users         UserStore
	Messages      MessageStore
	Questions     QuestionStore
	AnswerCards   AnswerCardStore
	Ratings       RatingStore
	Payments      PaymentStore
	Community     CommunityStore
	Notifications NotificationStore
}
