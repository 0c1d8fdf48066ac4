package mailer

import (
	"context"
	"strings"

	"github.com/mbolis/work-requests/log"
)

// LogMailer writes messages to the application log instead of sending
// them. It is the default transport for development.
type LogMailer struct {
	From Sender
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	log.WithFields(log.Fields{
		"from":    m.From.String(),
		"to":      strings.Join(emails(msg.To), ","),
		"cc":      strings.Join(emails(msg.Cc), ","),
		"bcc":     strings.Join(emails(msg.Bcc), ","),
		"subject": msg.Subject,
	}).Info("mail.log")
	log.Debug(msg.HTML)
	return nil
}
