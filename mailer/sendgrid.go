package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mbolis/work-requests/model"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer posts v3 mail/send requests.
type SendGridMailer struct {
	APIKey  string
	URL     string
	From    Sender
	Timeout time.Duration
	Client  *http.Client
}

func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("sendgrid: message has no recipients")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.From.Name, s.From.Email))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(sendgridEmails(msg.To)...)
	if len(msg.Cc) > 0 {
		p.AddCCs(sendgridEmails(msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		p.AddBCCs(sendgridEmails(msg.Bcc)...)
	}
	message.AddPersonalizations(p)

	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	body := mail.GetRequestBody(message)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+s.APIKey)
	request.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.Timeout}
	}
	resp, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid API error: %d %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

func sendgridEmails(list []model.Recipient) []*mail.Email {
	out := make([]*mail.Email, len(list))
	for i, r := range list {
		out[i] = mail.NewEmail(r.DisplayName(), r.Email)
	}
	return out
}
