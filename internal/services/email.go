package services

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

const emailSendTimeout = 10 * time.Second

// EmailService sends transactional email through Resend. A nil-client
// service (no API key configured) logs and drops, so local dev works
// without credentials.
type EmailService struct {
	client *resend.Client
	from   string
}

func NewEmailService() *EmailService {
	cfg := config.AppConfig
	svc := &EmailService{from: cfg.EmailFrom}
	if cfg.ResendAPIKey == "" {
		logger.Warn().Msg("RESEND_API_KEY not set, emails will be dropped")
		return svc
	}
	svc.client = resend.NewClient(cfg.ResendAPIKey)
	return svc
}

func (s *EmailService) send(to, subject, html string) {
	if s.client == nil {
		logger.Info().Str("to", to).Str("subject", subject).Msg("Email dropped (no client)")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
	defer cancel()

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
		return
	}
	logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
}

// SendWelcome greets a new account. Fire-and-forget.
func (s *EmailService) SendWelcome(to, name string) {
	go s.send(to, "Welcome to Atyant",
		fmt.Sprintf(`<h2>Hi %s,</h2><p>Welcome to Atyant! Ask your first question and we will match you with a mentor who has been where you want to go.</p>`, name))
}

// SendQuestionRouted tells a mentor a question has been routed to them.
func (s *EmailService) SendQuestionRouted(to, mentorName, questionTitle string) {
	go s.send(to, "A new question was routed to you",
		fmt.Sprintf(`<h2>Hi %s,</h2><p>A student picked you for their question:</p><blockquote>%s</blockquote><p>Open your dashboard to respond.</p>`, mentorName, questionTitle))
}

// SendAnswerCardReady tells a student their answer card is available.
func (s *EmailService) SendAnswerCardReady(to, studentName, questionTitle string) {
	go s.send(to, "Your answer card is ready",
		fmt.Sprintf(`<h2>Hi %s,</h2><p>Your mentor published an answer card for:</p><blockquote>%s</blockquote><p>Log in to read it.</p>`, studentName, questionTitle))
}
