package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendMailer struct {
	emails emailSender
}

// NewResendMailer creates a Mailer backed by the Resend API.
func NewResendMailer(apiKey string) (Mailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	return &resendMailer{emails: resend.NewClient(apiKey).Emails}, nil
}

func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if _, err := m.emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("failed to send mail via resend: %w", err)
	}
	return nil
}
