package core

import (
	"context"
	"fmt"
	"html"

	"github.com/naveensing575/next-pay-flow/internal/mailer"
)

// supportService implements the SupportService interface.
type supportService struct {
	mailer *mailer.Mailer
	inbox  string
}

// NewSupportService creates a SupportService delivering to the given inbox.
// A nil mailer produces a service that rejects sends with
// ErrMailerUnavailable instead of failing at startup.
func NewSupportService(m *mailer.Mailer, inbox string) SupportService {
	return &supportService{mailer: m, inbox: inbox}
}

// SendMessage emails the support-form submission to the support inbox with
// the submitter's address as reply-to.
func (s *supportService) SendMessage(_ context.Context, userPlan string, msg SupportMessage) error {
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return fmt.Errorf("%w: name, email, subject and message are required", ErrValidation)
	}
	if s.mailer == nil || s.inbox == "" {
		return ErrMailerUnavailable
	}

	if userPlan == "" {
		userPlan = "free"
	}
	body := supportEmailBody(userPlan, msg)
	if err := s.mailer.Send(s.inbox, msg.Email, "Support: "+msg.Subject, body); err != nil {
		return fmt.Errorf("failed to dispatch support message: %w", err)
	}
	return nil
}

func supportEmailBody(userPlan string, msg SupportMessage) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="font-size: 20px;">New Support Message</h1>
  <p><strong>From:</strong> %s &lt;%s&gt;</p>
  <p><strong>Plan:</strong> %s</p>
  <p><strong>Subject:</strong> %s</p>
  <div style="white-space: pre-wrap; background: #f9fafb; padding: 15px; border-radius: 6px;">%s</div>
  <p style="color: #9ca3af; font-size: 12px;">Reply to this email to respond directly to %s.</p>
</div>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(userPlan),
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Message),
		html.EscapeString(msg.Name),
	)
}
