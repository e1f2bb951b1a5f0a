package mail

import (
	"fmt"

	"github.com/kmohsen11/Argos/internal/config"
)

// NewDispatcherFromConfig builds the mailer selected by MAIL_PROVIDER and
// wraps it in a Dispatcher.
func NewDispatcherFromConfig(cfg config.MailConfig) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mail configuration: %w", err)
	}

	var (
		mailer Mailer
		err    error
	)
	switch cfg.Provider {
	case config.MailResend:
		mailer, err = NewResendMailer(cfg.ResendAPIKey)
	default:
		mailer, err = NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		})
	}
	if err != nil {
		return nil, err
	}

	composer := Composer{
		From:             cfg.From,
		OperatorInbox:    cfg.OperatorInbox,
		ConfirmationFrom: cfg.ConfirmationFrom,
	}
	return NewDispatcher(mailer, composer, cfg.SendCustomerConfirmation), nil
}
