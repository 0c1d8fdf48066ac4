package routes

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
)

var reRefresh = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login trades basic auth credentials for a token pair. The tokens are
// returned as JSON and also set as cookies for browser clients.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		issueTokens(r.Context(), app, w, url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		})
	}
}

// Refresh takes the refresh token from an `authorization: Refresh <token>`
// header, or from the refresh_token cookie.
func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if match := reRefresh.FindStringSubmatch(r.Header.Get("authorization")); len(match) > 0 {
			token = match[1]
		} else if cookie, err := r.Cookie("refresh_token"); err == nil {
			token = cookie.Value
		}
		if token == "" {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		issueTokens(r.Context(), app, w, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {token},
		})
	}
}

func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, name := range []string{"access_token", "refresh_token"} {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Path:     "/api",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func issueTokens(ctx context.Context, app app.App, w http.ResponseWriter, form url.Values) {
	body := form.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", "/", strings.NewReader(body))
	if err != nil {
		httpx.LogStatus(w, http.StatusInternalServerError, log.DebugLevel, "token.new_request")
		return
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("content-length", strconv.Itoa(len(body)))

	resp := httpx.NewResponseBuffer()
	app.UserCredentials(resp, req)

	if status := resp.Status(); status == 0 || status == http.StatusOK {
		tokens := tokenResponse{}
		if err := json.Unmarshal(resp.Body(), &tokens); err == nil && tokens.AccessToken != "" {
			setTokenCookies(w, tokens)
		}
	}

	if err := resp.Flush(w); err != nil {
		log.Debugf("token.flush: %s", err)
	}
}

func setTokenCookies(w http.ResponseWriter, tokens tokenResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		Path:     "/api",
		MaxAge:   int(tokens.ExpiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if tokens.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     "refresh_token",
			Value:    tokens.RefreshToken,
			Path:     "/api",
			Expires:  time.Now().Add(refreshCookieTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

const refreshCookieTTL = 30 * 24 * time.Hour
