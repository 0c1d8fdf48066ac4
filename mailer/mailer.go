// Package mailer delivers notification messages through SMTP, SendGrid or
// the application log.
package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/model"
)

type Message struct {
	To      []model.Recipient
	Cc      []model.Recipient
	Bcc     []model.Recipient
	Subject string
	HTML    string
	Text    string
}

// Mailer sends one message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the transport selected by cfg.Provider.
func New(cfg config.Mail) (Mailer, error) {
	from := Sender{Email: cfg.From, Name: cfg.FromName}
	switch cfg.Provider {
	case "", "log":
		return &LogMailer{From: from}, nil
	case "smtp":
		return &SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     from,
		}, nil
	case "sendgrid":
		return &SendGridMailer{
			APIKey:  cfg.SendGridAPIKey,
			URL:     cfg.SendGridURL,
			From:    from,
			Timeout: 10 * time.Second,
		}, nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}

type Sender struct {
	Email string
	Name  string
}

func (s Sender) String() string {
	return (&mail.Address{Name: s.Name, Address: s.Email}).String()
}

func address(r model.Recipient) string {
	return (&mail.Address{Name: r.DisplayName(), Address: r.Email}).String()
}

func emails(lists ...[]model.Recipient) (out []string) {
	for _, list := range lists {
		for _, r := range list {
			out = append(out, r.Email)
		}
	}
	return
}
