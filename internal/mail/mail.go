// Package mail renders pre-order emails and hands them to a transport.
package mail

import (
	"context"
	"errors"
)

// Message is one rendered email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var errNoRecipients = errors.New("message has no recipients")

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errNoRecipients
	}
	if m.From == "" {
		return errors.New("message has no sender")
	}
	return nil
}
