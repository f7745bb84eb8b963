package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

func seedPair(t *testing.T, s *Stores) (student, mentor *models.User) {
	t.Helper()
	ctx := context.Background()

	student = &models.User{ID: "student-1", Email: "student@example.com", Name: "Student", Role: models.RoleUser}
	mentor = &models.User{ID: "mentor-1", Email: "mentor@example.com", Name: "Mentor", Role: models.RoleMentor}

	require.NoError(t, s.Users.Create(ctx, student))
	require.NoError(t, s.Users.Create(ctx, mentor))
	return student, mentor
}

func setCredits(t *testing.T, s *Stores, userID string, n int) {
	t.Helper()
	ctx := context.Background()
	u, err := s.Users.GetByID(ctx, userID)
	require.NoError(t, err)
	u.MessageCredits = n
	require.NoError(t, s.Users.Update(ctx, u))
}

func TestNewStudentGetsDefaultCredits(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)

	got, err := s.Users.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessageCredits, got.MessageCredits)

	// Mentors carry no credit balance.
	gotMentor, err := s.Users.GetByID(context.Background(), mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotMentor.MessageCredits)
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := NewMemoryStores()
	seedPair(t, s)

	dup := &models.User{ID: "other", Email: "student@example.com", Name: "Other", Role: models.RoleUser}
	assert.ErrorIs(t, s.Users.Create(context.Background(), dup), ErrDuplicate)
}

func TestStatusNeverRegresses(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "hello"}
	require.NoError(t, s.Messages.Send(ctx, msg, true))
	assert.Equal(t, models.StatusSent, msg.Status)

	// A read ack arriving before the delivered ack jumps straight to read.
	read, transitioned, err := s.Messages.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.StatusRead, read.Status)
	assert.True(t, read.Seen)
	assert.NotNil(t, read.ReadAt)

	// The late delivered ack must not pull the status backwards.
	after, transitioned, err := s.Messages.MarkDelivered(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, models.StatusRead, after.Status)
}

func TestSendAtZeroCreditsPersistsNothing(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	setCredits(t, s, student.ID, 0)

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "one more?"}
	err := s.Messages.Send(ctx, msg, true)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	history, err := s.Messages.History(ctx, student.ID, mentor.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Balance stays at zero, no partial decrement.
	u, err := s.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, u.MessageCredits)
}

func TestCreditLifecycle(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	setCredits(t, s, student.ID, 2)

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "how do I prep for case interviews?"}
	require.NoError(t, s.Messages.Send(ctx, msg, true))

	u, err := s.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.MessageCredits)
	assert.Equal(t, models.StatusSent, msg.Status)

	delivered, transitioned, err := s.Messages.MarkDelivered(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	read, transitioned, err := s.Messages.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.StatusRead, read.Status)
	assert.True(t, read.Seen)

	// Mentor replies free of charge.
	reply := &models.Message{SenderID: mentor.ID, ReceiverID: student.ID, Text: "start with profitability frameworks"}
	require.NoError(t, s.Messages.Send(ctx, reply, false))

	u, err = s.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.MessageCredits)
}

func TestUnreadCounters(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "ping"}
		require.NoError(t, s.Messages.Send(ctx, msg, true))
	}

	convs, err := s.Messages.Conversations(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 3, convs[0].Unread[mentor.ID])
	assert.Equal(t, 0, convs[0].Unread[student.ID])
	assert.Equal(t, student.ID, convs[0].Partner(mentor.ID))

	n, err := s.Messages.MarkConversationRead(ctx, mentor.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	convs, err = s.Messages.Conversations(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].Unread[mentor.ID])

	history, err := s.Messages.History(ctx, student.ID, mentor.ID, 10)
	require.NoError(t, err)
	for _, m := range history {
		assert.Equal(t, models.StatusRead, m.Status)
		assert.True(t, m.Seen)
	}
}

func TestDeleteOnlyBySender(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	msg := &models.Message{SenderID: student.ID, ReceiverID: mentor.ID, Text: "oops"}
	require.NoError(t, s.Messages.Send(ctx, msg, true))

	assert.ErrorIs(t, s.Messages.Delete(ctx, msg.ID, mentor.ID), ErrNotOwner)
	assert.NoError(t, s.Messages.Delete(ctx, msg.ID, student.ID))
	_, err := s.Messages.Get(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionRouteOnlyFromOpen(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	q := &models.Question{UserID: student.ID, Title: "Which campus?", Text: "IIM A vs B"}
	require.NoError(t, s.Questions.Create(ctx, q))
	assert.Equal(t, models.QuestionOpen, q.Status)

	require.NoError(t, s.Questions.Route(ctx, q.ID, mentor.ID))

	routed, err := s.Questions.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionRouted, routed.Status)
	assert.Equal(t, mentor.ID, routed.SelectedMentorID)

	// A second route attempt fails; the question is taken.
	assert.Error(t, s.Questions.Route(ctx, q.ID, "mentor-2"))
}

func TestRatingUniquePerQuestion(t *testing.T) {
	s := NewMemoryStores()
	student, mentor := seedPair(t, s)
	ctx := context.Background()

	r := &models.Rating{UserID: student.ID, MentorID: mentor.ID, QuestionID: "q1", Stars: 5}
	require.NoError(t, s.Ratings.Create(ctx, r))

	again := &models.Rating{UserID: student.ID, MentorID: mentor.ID, QuestionID: "q1", Stars: 1}
	assert.ErrorIs(t, s.Ratings.Create(ctx, again), ErrDuplicate)

	summary, err := s.Ratings.MentorSummary(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)
	assert.Equal(t, 5.0, summary.Average)
}

func TestPaymentSettlesExactlyOnce(t *testing.T) {
	s := NewMemoryStores()
	student, _ := seedPair(t, s)
	ctx := context.Background()

	p := &models.Payment{UserID: student.ID, PackID: "starter", RazorpayOrderID: "order_1", AmountPaise: 9900, Credits: 5}
	require.NoError(t, s.Payments.Create(ctx, p))
	assert.Equal(t, models.PaymentCreated, p.Status)

	paid, err := s.Payments.MarkPaid(ctx, "order_1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	assert.Equal(t, "pay_1", paid.RazorpayPaymentID)

	// Webhook retry: already settled, no second grant.
	_, err = s.Payments.MarkPaid(ctx, "order_1", "pay_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPairKeyIsDirectionless(t *testing.T) {
	assert.Equal(t, models.PairKey("a", "b"), models.PairKey("b", "a"))
	assert.Equal(t, "a:b", models.PairKey("b", "a"))
}
