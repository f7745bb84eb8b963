package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/utils"
)

// NewMemoryStores returns a fully in-memory Stores, used by handler tests
// and local tooling. Behavior mirrors the MongoDB implementation, including
// credit atomicity and forward-only status transitions.
func NewMemoryStores() *Stores {
	m := &memory{
		users:         make(map[string]*models.User),
		messages:      make(map[string]*models.Message),
		conversations: make(map[string]*models.Conversation),
		questions:     make(map[string]*models.Question),
		cards:         make(map[string]*models.AnswerCard),
		ratings:       make(map[string]*models.Rating),
		payments:      make(map[string]*models.Payment),
	}
	return &Stores{
		Users:         (*memUserStore)(m),
		Messages:      (*memMessageStore)(m),
		Questions:     (*memQuestionStore)(m),
		AnswerCards:   (*memAnswerCardStore)(m),
		Ratings:       (*memRatingStore)(m),
		Payments:      (*memPaymentStore)(m),
		Community:     (*memCommunityStore)(m),
		Notifications: (*memNotificationStore)(m),
	}
}

type memory struct {
	mu            sync.Mutex
	users         map[string]*models.User
	messages      map[string]*models.Message
	conversations map[string]*models.Conversation
	questions     map[string]*models.Question
	cards         map[string]*models.AnswerCard
	ratings       map[string]*models.Rating
	payments      map[string]*models.Payment
	community     []models.CommunityMessage
	notifications []models.Notification
}

// --- users ---

type memUserStore memory

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.LastActive = now
	if u.Role == models.RoleUser && u.MessageCredits == 0 {
		u.MessageCredits = models.DefaultMessageCredits
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) Mentors(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mentors []models.User
	for _, u := range s.users {
		if u.Role == models.RoleMentor {
			mentors = append(mentors, *u)
		}
	}
	sort.Slice(mentors, func(i, j int) bool { return mentors[i].ID < mentors[j].ID })
	return mentors, nil
}

func (s *memUserStore) AddCredits(_ context.Context, userID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.MessageCredits += n
	return nil
}

func (s *memUserStore) Touch(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LastActive = time.Now()
	}
	return nil
}

func (s *memUserStore) AdjustActiveQuestions(_ context.Context, mentorID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[mentorID]; ok {
		u.ActiveQuestions += delta
		if u.ActiveQuestions < 0 {
			u.ActiveQuestions = 0
		}
	}
	return nil
}

// --- messages ---

type memMessageStore memory

func (s *memMessageStore) Send(_ context.Context, msg *models.Message, spendCredit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spendCredit {
		sender, ok := s.users[msg.SenderID]
		if !ok || sender.MessageCredits <= 0 {
			return ErrInsufficientCredits
		}
		sender.MessageCredits--
	}

	if msg.ID == "" {
		msg.ID = utils.GenerateID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.Status = models.StatusSent
	msg.Seen = false
	cp := *msg
	s.messages[msg.ID] = &cp

	key := models.PairKey(msg.SenderID, msg.ReceiverID)
	conv, ok := s.conversations[key]
	if !ok {
		conv = &models.Conversation{
			ID:           utils.GenerateID(),
			Key:          key,
			Participants: []string{msg.SenderID, msg.ReceiverID},
			Unread:       make(map[string]int),
		}
		s.conversations[key] = conv
	}
	conv.LastMessageText = utils.TruncateString(msg.Text, 200)
	conv.LastMessageSenderID = msg.SenderID
	conv.LastMessageAt = msg.CreatedAt
	conv.Unread[msg.ReceiverID]++
	return nil
}

func (s *memMessageStore) Get(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (s *memMessageStore) History(_ context.Context, a, b string, limit int64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var history []models.Message
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			history = append(history, *m)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].CreatedAt.Before(history[j].CreatedAt) })
	if limit > 0 && int64(len(history)) > limit {
		history = history[int64(len(history))-limit:]
	}
	return history, nil
}

func (s *memMessageStore) MarkDelivered(_ context.Context, id string) (*models.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if !msg.Status.CanTransition(models.StatusDelivered) {
		cp := *msg
		return &cp, false, nil
	}
	now := time.Now()
	msg.Status = models.StatusDelivered
	msg.DeliveredAt = &now
	cp := *msg
	return &cp, true, nil
}

func (s *memMessageStore) MarkRead(_ context.Context, id string) (*models.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if !msg.Status.CanTransition(models.StatusRead) {
		cp := *msg
		return &cp, false, nil
	}
	now := time.Now()
	msg.Status = models.StatusRead
	msg.Seen = true
	msg.ReadAt = &now

	if conv, ok := s.conversations[models.PairKey(msg.SenderID, msg.ReceiverID)]; ok {
		if conv.Unread[msg.ReceiverID] > 0 {
			conv.Unread[msg.ReceiverID]--
		}
	}
	cp := *msg
	return &cp, true, nil
}

func (s *memMessageStore) MarkConversationRead(_ context.Context, viewer, partner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for _, m := range s.messages {
		if m.SenderID == partner && m.ReceiverID == viewer && m.Status != models.StatusRead {
			m.Status = models.StatusRead
			m.Seen = true
			m.ReadAt = &now
			n++
		}
	}
	if conv, ok := s.conversations[models.PairKey(viewer, partner)]; ok {
		conv.Unread[viewer] = 0
	}
	return n, nil
}

func (s *memMessageStore) ResetUnread(_ context.Context, viewer, partner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[models.PairKey(viewer, partner)]; ok {
		conv.Unread[viewer] = 0
	}
	return nil
}

func (s *memMessageStore) Delete(_ context.Context, id, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return ErrNotFound
	}
	if msg.SenderID != senderID {
		return ErrNotOwner
	}
	delete(s.messages, id)
	return nil
}

func (s *memMessageStore) Conversations(_ context.Context, userID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for _, c := range s.conversations {
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, *c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

// --- questions ---

type memQuestionStore memory

func (s *memQuestionStore) Create(_ context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if q.ID == "" {
		q.ID = utils.GenerateID()
	}
	q.Status = models.QuestionOpen
	q.CreatedAt = now
	q.UpdatedAt = now
	cp := *q
	s.questions[q.ID] = &cp
	return nil
}

func (s *memQuestionStore) Get(_ context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *memQuestionStore) ListByUser(_ context.Context, userID string) ([]models.Question, error) {
	return s.list(func(q *models.Question) bool { return q.UserID == userID })
}

func (s *memQuestionStore) ListForMentor(_ context.Context, mentorID string) ([]models.Question, error) {
	return s.list(func(q *models.Question) bool {
		return q.SelectedMentorID == mentorID &&
			(q.Status == models.QuestionRouted || q.Status == models.QuestionAnswered)
	})
}

func (s *memQuestionStore) list(match func(*models.Question) bool) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Question
	for _, q := range s.questions {
		if match(q) {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memQuestionStore) SaveSuggestions(_ context.Context, id string, suggestions []models.MentorSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return ErrNotFound
	}
	q.SuggestedMentors = suggestions
	q.UpdatedAt = time.Now()
	return nil
}

func (s *memQuestionStore) Route(_ context.Context, id, mentorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok || q.Status != models.QuestionOpen {
		return ErrNotFound
	}
	q.SelectedMentorID = mentorID
	q.Status = models.QuestionRouted
	q.UpdatedAt = time.Now()
	return nil
}

func (s *memQuestionStore) SetStatus(_ context.Context, id string, status models.QuestionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	q.UpdatedAt = time.Now()
	return nil
}

// --- answer cards ---

type memAnswerCardStore memory

func (s *memAnswerCardStore) Create(_ context.Context, card *models.AnswerCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card.ID == "" {
		card.ID = utils.GenerateID()
	}
	card.CreatedAt = time.Now()
	cp := *card
	s.cards[card.ID] = &cp
	return nil
}

func (s *memAnswerCardStore) Get(_ context.Context, id string) (*models.AnswerCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *card
	return &cp, nil
}

func (s *memAnswerCardStore) ListByQuestion(_ context.Context, questionID string) ([]models.AnswerCard, error) {
	return s.list(func(c *models.AnswerCard) bool { return c.QuestionID == questionID })
}

func (s *memAnswerCardStore) ListByMentor(_ context.Context, mentorID string) ([]models.AnswerCard, error) {
	return s.list(func(c *models.AnswerCard) bool { return c.MentorID == mentorID })
}

func (s *memAnswerCardStore) list(match func(*models.AnswerCard) bool) ([]models.AnswerCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AnswerCard
	for _, c := range s.cards {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- ratings ---

type memRatingStore memory

func (s *memRatingStore) Create(_ context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ratings {
		if existing.UserID == r.UserID && existing.MentorID == r.MentorID && existing.QuestionID == r.QuestionID {
			return ErrDuplicate
		}
	}
	if r.ID == "" {
		r.ID = utils.GenerateID()
	}
	r.CreatedAt = time.Now()
	cp := *r
	s.ratings[r.ID] = &cp
	return nil
}

func (s *memRatingStore) MentorSummary(_ context.Context, mentorID string) (*models.MentorRatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := &models.MentorRatingSummary{MentorID: mentorID}
	total := 0
	for _, r := range s.ratings {
		if r.MentorID == mentorID {
			total += r.Stars
			sum.Count++
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

func (s *memRatingStore) ListForMentor(_ context.Context, mentorID string) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.MentorID == mentorID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- payments ---

type memPaymentStore memory

func (s *memPaymentStore) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if p.ID == "" {
		p.ID = utils.GenerateID()
	}
	p.Status = models.PaymentCreated
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.payments[p.RazorpayOrderID] = &cp
	return nil
}

func (s *memPaymentStore) GetByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memPaymentStore) MarkPaid(_ context.Context, orderID, paymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[orderID]
	if !ok || p.Status != models.PaymentCreated {
		return nil, ErrNotFound
	}
	p.Status = models.PaymentPaid
	p.RazorpayPaymentID = paymentID
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *memPaymentStore) MarkFailed(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[orderID]; ok && p.Status == models.PaymentCreated {
		p.Status = models.PaymentFailed
		p.UpdatedAt = time.Now()
	}
	return nil
}

// --- community ---

type memCommunityStore memory

func (s *memCommunityStore) Insert(_ context.Context, m *models.CommunityMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = utils.GenerateID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.community = append(s.community, *m)
	return nil
}

func (s *memCommunityStore) Recent(_ context.Context, limit int64) ([]models.CommunityMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]models.CommunityMessage, len(s.community))
	copy(msgs, s.community)
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	return msgs, nil
}

// --- notifications ---

type memNotificationStore memory

func (s *memNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = utils.GenerateID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *memNotificationStore) ListForUser(_ context.Context, userID string, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			out = append(out, s.notifications[i])
			if limit > 0 && int64(len(out)) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memNotificationStore) MarkRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *memNotificationStore) MarkAllRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}
