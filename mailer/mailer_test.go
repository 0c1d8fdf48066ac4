package mailer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(s string) *string { return &s }

func sampleMessage() Message {
	return Message{
		To:      []model.Recipient{{Email: "office@example.org", Name: name("Office")}},
		Cc:      []model.Recipient{{Email: "events@example.org"}},
		Bcc:     []model.Recipient{{Email: "audit@example.org"}},
		Subject: "Work request: Youth Camp",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	}
}

func TestNewSelectsProvider(t *testing.T) {
	m, err := New(config.Mail{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = New(config.Mail{Provider: "smtp", SMTPHost: "mail.example.org", SMTPPort: 587})
	require.NoError(t, err)
	assert.Equal(t, "mail.example.org", m.(*SMTPMailer).Host)

	m, err = New(config.Mail{Provider: "sendgrid", SendGridAPIKey: "key", SendGridURL: "http://sg"})
	require.NoError(t, err)
	assert.Equal(t, "http://sg", m.(*SendGridMailer).URL)

	_, err = New(config.Mail{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestSMTPMessageHidesBcc(t *testing.T) {
	m := &SMTPMailer{
		From: Sender{Email: "no-reply@example.org", Name: "Work Requests"},
		now:  func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
	body, err := m.buildMessage(sampleMessage())
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "From: \"Work Requests\" <no-reply@example.org>\r\n")
	assert.Contains(t, text, "To: \"Office\" <office@example.org>\r\n")
	assert.Contains(t, text, "Cc: <events@example.org>\r\n")
	assert.Contains(t, text, "Subject: Work request: Youth Camp\r\n")
	assert.Contains(t, text, "@example.org>\r\n")
	assert.Contains(t, text, "Content-Type: text/html")
	assert.NotContains(t, text, "audit@example.org")
	assert.True(t, strings.HasSuffix(text, "\r\n<p>Hi</p>"))
}

func TestSMTPEncodesNonASCIISubject(t *testing.T) {
	m := &SMTPMailer{From: Sender{Email: "no-reply@example.org"}}
	msg := sampleMessage()
	msg.Subject = "Café evening"
	body, err := m.buildMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Subject: =?utf-8?q?")
}

func TestSMTPRequiresRecipients(t *testing.T) {
	m := &SMTPMailer{Host: "localhost", Port: 25}
	assert.Error(t, m.Send(context.Background(), Message{Subject: "x"}))
}

func TestSendGridRequest(t *testing.T) {
	var got struct {
		Personalizations []struct {
			To  []map[string]string `json:"to"`
			Cc  []map[string]string `json:"cc"`
			Bcc []map[string]string `json:"bcc"`
		} `json:"personalizations"`
		From    map[string]string `json:"from"`
		Subject string            `json:"subject"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := &SendGridMailer{APIKey: "sg-key", URL: srv.URL, From: Sender{Email: "no-reply@example.org", Name: "Work Requests"}}
	require.NoError(t, m.Send(context.Background(), sampleMessage()))

	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "no-reply@example.org", got.From["email"])
	assert.Equal(t, "Work request: Youth Camp", got.Subject)
	require.Len(t, got.Personalizations, 1)
	p := got.Personalizations[0]
	assert.Equal(t, "office@example.org", p.To[0]["email"])
	assert.Equal(t, "Office", p.To[0]["name"])
	assert.Equal(t, "events@example.org", p.Cc[0]["email"])
	assert.Equal(t, "audit@example.org", p.Bcc[0]["email"])
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "text/html", got.Content[1].Type)
}

func TestSendGridError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := &SendGridMailer{APIKey: "nope", URL: srv.URL}
	err := m.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestLogMailerNeverFails(t *testing.T) {
	m := &LogMailer{From: Sender{Email: "no-reply@example.org"}}
	assert.NoError(t, m.Send(context.Background(), sampleMessage()))
}
