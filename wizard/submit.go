package wizard

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// HTTPSubmitter posts the form to the public entries endpoint.
type HTTPSubmitter struct {
	URL    string
	Client *http.Client
}

type submission struct {
	Payload        FormData `json:"payload"`
	RecaptchaToken string   `json:"recaptchaToken,omitempty"`
}

func (s *HTTPSubmitter) Submit(ctx context.Context, data FormData, token string) (Errors, error) {
	body, err := json.Marshal(submission{Payload: data, RecaptchaToken: token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		return nil, nil
	case http.StatusUnprocessableEntity:
		var rejected struct {
			Errors Errors `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rejected); err != nil {
			return nil, fmt.Errorf("submit: decoding field errors: %w", err)
		}
		if rejected.Errors.Valid() {
			return Errors{FormKey: "Your request was rejected."}, nil
		}
		return rejected.Errors, nil
	}
	return nil, fmt.Errorf("submit: unexpected status %d", resp.StatusCode)
}
