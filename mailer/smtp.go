package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mbolis/work-requests/model"
)

type SMTPMailer struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      Sender
	TLSConfig *tls.Config

	now func() time.Time
}

func (m *SMTPMailer) tlsConfig() *tls.Config {
	if m.TLSConfig != nil {
		return m.TLSConfig
	}
	if m.Host == "localhost" {
		return &tls.Config{InsecureSkipVerify: true, ServerName: m.Host}
	}
	return &tls.Config{ServerName: m.Host}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("smtp: message has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := m.buildMessage(msg)
	if err != nil {
		return err
	}
	rcpt := emails(msg.To, msg.Cc, msg.Bcc)

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	if m.Port != 465 {
		return smtp.SendMail(addr, auth, m.From.Email, rcpt, body)
	}

	dialer := &tls.Dialer{Config: m.tlsConfig()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if auth != nil {
		if err = c.Auth(auth); err != nil {
			return err
		}
	}
	if err = c.Mail(m.From.Email); err != nil {
		return err
	}
	for _, r := range rcpt {
		if err = c.Rcpt(r); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders headers and body. Bcc recipients only go to RCPT.
func (m *SMTPMailer) buildMessage(msg Message) ([]byte, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now
	if m.now != nil {
		now = m.now
	}

	var b strings.Builder
	header := func(k, v string) {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	header("From", m.From.String())
	header("To", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		header("Cc", joinAddresses(msg.Cc))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now().Format(time.RFC1123Z))
	header("Message-ID", "<"+id.String()+"@"+messageDomain(m.From.Email)+">")
	header("MIME-Version", "1.0")
	if msg.HTML != "" {
		header("Content-Type", `text/html; charset="UTF-8"`)
		b.WriteString("\r\n" + msg.HTML)
	} else {
		header("Content-Type", `text/plain; charset="UTF-8"`)
		b.WriteString("\r\n" + msg.Text)
	}
	return []byte(b.String()), nil
}

func joinAddresses(list []model.Recipient) string {
	parts := make([]string, len(list))
	for i, r := range list {
		parts[i] = address(r)
	}
	return strings.Join(parts, ", ")
}

func messageDomain(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}
