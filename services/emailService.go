package services

import (
	"context"
	"fmt"

	"github.com/ShepherdBook/initializers"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// EmailSender delivers one message to one address.
type EmailSender interface {
	SendOne(ctx context.Context, to, subject, html string) error
}

type EmailService struct {
	client  *resend.Client
	from    string
	limiter *rate.Limiter
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService(apiKey, from string, perSecond float64) {
	if apiKey == "" {
		initializers.Log.Warn("RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	emailService = NewEmailService(resend.NewClient(apiKey), from, perSecond)
	initializers.Log.Info("Email service initialized successfully with Resend")
}

// NewEmailService paces sends to perSecond so a long recipient list stays under the provider limit.
func NewEmailService(client *resend.Client, from string, perSecond float64) *EmailService {
	if perSecond <= 0 {
		perSecond = 2
	}
	return &EmailService{
		client:  client,
		from:    from,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

func (s *EmailService) SendOne(ctx context.Context, to, subject, html string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("email rate limiter: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		initializers.Log.Warn("Failed to send email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	initializers.Log.Info("Email sent", zap.String("to", to), zap.String("emailId", sent.Id))
	return nil
}
