// Package recaptcha verifies spam-check tokens against the siteverify API.
package recaptcha

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/metrics"
)

var (
	ErrMissingToken = errors.New("recaptcha: missing token")
	ErrRejected     = errors.New("recaptcha: verification failed")
)

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type Client struct {
	Secret   string
	URL      string
	MinScore float64
	HTTP     *http.Client
}

func New(cfg config.Recaptcha) *Client {
	return &Client{
		Secret:   cfg.Secret,
		URL:      cfg.URL,
		MinScore: cfg.MinScore,
		HTTP:     &http.Client{Timeout: cfg.Timeout},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks token in one bounded call. A client without secret
// accepts everything.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (err error) {
	if c == nil || c.Secret == "" {
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	start := time.Now()
	defer func() { metrics.ObserveExternal("recaptcha", start, err) }()

	form := url.Values{}
	form.Set("secret", c.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("recaptcha request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recaptcha request: unexpected status %d", resp.StatusCode)
	}

	var result siteverifyResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("recaptcha response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(result.ErrorCodes, ","))
	}
	// v2 responses carry no score.
	if result.Score != nil && *result.Score < c.MinScore {
		return fmt.Errorf("%w: score %.2f", ErrRejected, *result.Score)
	}
	return nil
}
