// Package directory fetches the hub, venue and congregation lists used by
// the work request form.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/metrics"
)

type Options struct {
	Hubs          []string `json:"hubs"`
	Venues        []string `json:"venues"`
	Congregations []string `json:"congregations"`
}

type Client struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		URL:    url,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: timeout},
	}
}

// Options fetches and normalizes the lists. A client without URL returns
// empty lists, which callers replace with the fallbacks.
func (c *Client) Options(ctx context.Context) (_ Options, err error) {
	if c == nil || c.URL == "" {
		return Options{}, nil
	}

	start := time.Now()
	defer func() { metrics.ObserveExternal("directory", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Options{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Options{}, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Options{}, fmt.Errorf("directory request: unexpected status %d", resp.StatusCode)
	}

	var raw struct {
		Hubs          []item `json:"hubs"`
		Venues        []item `json:"venues"`
		Congregations []item `json:"congregations"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Options{}, fmt.Errorf("directory response: %w", err)
	}

	return Options{
		Hubs:          normalize(raw.Hubs),
		Venues:        normalize(raw.Venues),
		Congregations: normalize(raw.Congregations),
	}, nil
}

// item accepts either a plain string or an object with a name.
type item string

func (i *item) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = item(s)
		return nil
	}
	var obj struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Name == "" {
		obj.Name = obj.Title
	}
	*i = item(obj.Name)
	return nil
}

func normalize(items []item) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, it := range items {
		s := strings.Join(strings.Fields(string(it)), " ")
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// WithFallback replaces empty lists with the built-in ones and reports a
// warning for each replacement.
func WithFallback(opts Options) (Options, []string) {
	warnings := []string{}
	if len(opts.Hubs) == 0 {
		opts.Hubs = append([]string(nil), FallbackHubs...)
		warnings = append(warnings, "Hub list is unavailable, showing the default list.")
	}
	if len(opts.Venues) == 0 {
		opts.Venues = append([]string(nil), FallbackVenues...)
		warnings = append(warnings, "Venue list is unavailable, showing the default list.")
	}
	if len(opts.Congregations) == 0 {
		opts.Congregations = append([]string(nil), FallbackCongregations...)
		warnings = append(warnings, "Congregation list is unavailable, showing the default list.")
	}
	return opts, warnings
}

var FallbackHubs = []string{
	"Central",
	"East",
	"North",
	"South",
	"West",
}

var FallbackVenues = []string{
	"Main Auditorium",
	"Chapel",
	"Youth Hall",
	"Children's Wing",
	"Conference Room",
	"Outdoor Amphitheatre",
}

var FallbackCongregations = []string{
	"JG Central",
	"JG East",
	"JG North",
	"JG South",
	"JG West",
	"JG Online",
}
