package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer dir-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"hubs": ["  North ", "north", "East"],
			"venues": [{"name": "Main   Auditorium"}, {"title": "Chapel"}, ""],
			"congregations": []
		}`))
	}))
	defer srv.Close()

	opts, err := NewClient(srv.URL, "dir-key", time.Second).Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"East", "North"}, opts.Hubs)
	assert.Equal(t, []string{"Chapel", "Main Auditorium"}, opts.Venues)
	assert.Empty(t, opts.Congregations)

	resolved, warnings := WithFallback(opts)
	assert.Equal(t, FallbackCongregations, resolved.Congregations)
	assert.Len(t, warnings, 1)
}

func TestOptionsWithoutURL(t *testing.T) {
	opts, err := NewClient("", "", time.Second).Options(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opts.Hubs)

	var nilClient *Client
	_, err = nilClient.Options(context.Background())
	assert.NoError(t, err)
}

func TestOptionsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Options(context.Background())
	assert.Error(t, err)
}

func TestWithFallbackKeepsNonEmptyLists(t *testing.T) {
	in := Options{Hubs: []string{"A"}, Venues: []string{"B"}, Congregations: []string{"C"}}
	out, warnings := WithFallback(in)
	assert.Equal(t, in, out)
	assert.Empty(t, warnings)
}
