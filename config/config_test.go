package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresTokenSecret(t *testing.T) {
	t.Setenv("WR_TOKEN_SECRET", "")
	_, err := Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-token-secret")
}

func TestParseFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("WR_TOKEN_SECRET", "from-env")
	t.Setenv("WR_PORT", "9000")
	t.Setenv("WR_ADMIN_EMAILS", "a@example.org, b@example.org")
	t.Setenv("WR_RECAPTCHA_TIMEOUT", "3s")

	cfg, err := Parse([]string{"-port", "8080", "-debug"})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TokenSecret)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.Url())
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"a@example.org", "b@example.org"}, cfg.AdminEmails)
	assert.Equal(t, 3*time.Second, cfg.Recaptcha.Timeout)
	assert.Equal(t, "work-request", cfg.PrimaryFormSlug)
	assert.Equal(t, "log", cfg.Mail.Provider)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestParseRejectsNonPositiveBodyLimit(t *testing.T) {
	t.Setenv("WR_TOKEN_SECRET", "s")

	_, err := Parse([]string{"-max-body-bytes", "0"})
	require.Error(t, err)

	cfg, err := Parse([]string{"-max-body-bytes", "2048"})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
}

func TestParseRejectsIncompleteMailProvider(t *testing.T) {
	t.Setenv("WR_TOKEN_SECRET", "s")

	_, err := Parse([]string{"-mail-provider", "smtp"})
	require.Error(t, err)

	_, err = Parse([]string{"-mail-provider", "carrier-pigeon"})
	require.Error(t, err)

	_, err = Parse([]string{"-mail-provider", "smtp", "-smtp-host", "mail.example.org"})
	require.NoError(t, err)
}

func TestIsAdmin(t *testing.T) {
	open := Config{}
	assert.True(t, open.IsAdmin("anyone@example.org"))

	restricted := Config{AdminEmails: []string{"Office@Example.org"}}
	assert.True(t, restricted.IsAdmin("office@example.org"))
	assert.False(t, restricted.IsAdmin("intruder@example.org"))
}
