package routes

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/database"
	"github.com/mbolis/work-requests/directory"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/mailer"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/notify"
	"github.com/mbolis/work-requests/payload"
	"github.com/mbolis/work-requests/recaptcha"
	"github.com/mbolis/work-requests/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminUser     = "admin@example.org"
	adminPassword = "correct horse"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type fakeCaptcha struct {
	err    error
	tokens []string
}

func (c *fakeCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	c.tokens = append(c.tokens, token)
	return c.err
}

type fakeDirectory struct {
	opts directory.Options
	err  error
}

func (d fakeDirectory) Options(ctx context.Context) (directory.Options, error) {
	return d.opts, d.err
}

type testServer struct {
	t       *testing.T
	app     app.App
	handler http.Handler
	mail    *recordingMailer
	captcha *fakeCaptcha
	primary model.Form
	token   string
}

func newTestServer(t *testing.T, configure ...func(*app.App)) *testServer {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	ctx := context.Background()
	primary, err := st.EnsureForm(ctx, "work-request", "Work Request")
	require.NoError(t, err)
	require.NoError(t, st.SeedUser(ctx, adminUser, adminPassword))

	cfg := config.Config{
		TokenSecret:     "test-secret",
		TokenTTL:        time.Minute,
		PrimaryFormSlug: "work-request",
	}
	s := &testServer{
		t:       t,
		mail:    &recordingMailer{},
		captcha: &fakeCaptcha{},
		primary: primary,
	}
	s.app = app.App{
		Store:        st,
		BearerServer: httpx.NewBearerServer(st, cfg),
		Config:       cfg,
		Notifier: &notify.Dispatcher{
			Mailer:      s.mail,
			Defaults:    notify.ParseRecipients(`"Office" <office@example.org>`),
			PrimarySlug: cfg.PrimaryFormSlug,
		},
		Captcha:         s.captcha,
		DirectoryClient: fakeDirectory{},
		Now:             func() time.Time { return today },
	}
	for _, fn := range configure {
		fn(&s.app)
	}
	s.handler = Wire(s.app)
	return s
}

func (s *testServer) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("content-type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login() string {
	if s.token != "" {
		return s.token
	}
	req := httptest.NewRequest("POST", "/api/login", nil)
	req.SetBasicAuth(adminUser, adminPassword)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	resp := struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}{}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.AccessToken)
	s.token = resp.AccessToken
	return s.token
}

func (s *testServer) admin(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, "authorization", "Bearer "+s.login())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorsResponse struct {
	Errors map[string]string `json:"errors"`
}

func validPrimaryPayload() map[string]any {
	return map[string]any{
		"firstName":               "Jane",
		"lastName":                "Doe",
		"email":                   "Jane@Example.org",
		"cellphone":               "+27 82 123 4567",
		"congregation":            "JG North",
		"includesGraphics":        true,
		"includesGraphicsDigital": true,
		"ministry":                "Youth",
		"isOrganiser":             "Yes",
		"digitalSocialMedia":      true,
		"digitalBrief":            "Bright and bold",
		"digitalKeyMessage":       "Come along",
		"digitalDeadline":         "2026-03-20",
	}
}

func TestPublicGetForm(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.app.CreateForm(ctx, model.Form{Name: "Closed", IsActive: false})
	require.NoError(t, err)

	rec := s.do("GET", "/api/forms/work-request", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	form := decode[model.Form](t, rec)
	assert.Equal(t, "Work Request", form.Name)

	assert.Equal(t, http.StatusNotFound, s.do("GET", "/api/forms/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/api/forms/closed", nil).Code)
}

func TestSubmitPrimaryEntry(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.app.CreateTemplate(ctx, model.EmailTemplate{
		FormID:               s.primary.ID,
		Name:                 "Office",
		Subject:              notify.SubjectToken,
		Body:                 "<p>{{entry.full_name}} asked for {{entry.request_types}}</p>",
		UseDefaultRecipients: true,
		IsActive:             true,
	})
	require.NoError(t, err)

	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{
		"payload":        validPrimaryPayload(),
		"recaptchaToken": "tok",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		ID        int    `json:"id"`
		Reference string `json:"reference"`
	}](t, rec)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.Reference, 36)
	assert.Equal(t, []string{"tok"}, s.captcha.tokens)

	entry, err := s.app.GetEntry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.org", entry.Email)
	assert.Equal(t, "+27821234567", entry.Cellphone)
	assert.True(t, entry.Flags.IncludesGraphicsDigital)

	sent := s.mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "office@example.org", sent[0].To[0].Email)
	assert.Contains(t, sent[0].Subject, "Jane Doe")
	assert.Contains(t, sent[0].HTML, "Jane Doe asked for")
}

func TestSubmitPrimaryEntryIsValidated(t *testing.T) {
	s := newTestServer(t)

	body := validPrimaryPayload()
	delete(body, "firstName")
	body["digitalDeadline"] = "2026-03-01"

	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{"payload": body})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[errorsResponse](t, rec).Errors
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs["digitalDeadline"], "past")

	entries, err := s.app.ListEntries(context.Background(), s.primary.ID, "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitRejectsNonObjectPayload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{"payload": []int{1}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorsResponse](t, rec).Errors, "form")

	assert.Equal(t, http.StatusBadRequest, s.do("POST", "/api/forms/work-request/entries", "{nope").Code)
}

func TestSubmitRecaptchaFailure(t *testing.T) {
	s := newTestServer(t)
	s.captcha.err = recaptcha.ErrRejected

	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{"payload": validPrimaryPayload()})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[errorsResponse](t, rec).Errors
	assert.Equal(t, "The spam check failed, please try again.", errs["recaptcha"])
	assert.Empty(t, s.mail.messages())
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	s := newTestServer(t)
	s.mail.err = errors.New("smtp down")
	ctx := context.Background()

	form, err := s.app.CreateForm(ctx, model.Form{Name: "Feedback", IsActive: true})
	require.NoError(t, err)
	_, err = s.app.CreateTemplate(ctx, model.EmailTemplate{
		FormID:       form.ID,
		Name:         "Thanks",
		Subject:      "Thanks {{payload.name}}",
		Body:         "<p>{{payload.message}}</p>",
		ToRecipients: notify.ParseRecipients("feedback@example.org"),
		IsActive:     true,
	})
	require.NoError(t, err)

	rec := s.do("POST", "/api/forms/feedback/entries", map[string]any{
		"payload": map[string]any{"name": "Sam", "message": "Great"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entries, err := s.app.ListEntries(ctx, form.ID, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDirectoryOptions(t *testing.T) {
	s := newTestServer(t, func(a *app.App) {
		a.DirectoryClient = fakeDirectory{opts: directory.Options{Hubs: []string{"East"}}}
	})

	rec := s.do("GET", "/api/directory/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		directory.Options
		Warnings []string `json:"warnings"`
	}](t, rec)
	assert.Equal(t, []string{"East"}, resp.Hubs)
	assert.Equal(t, directory.FallbackVenues, resp.Venues)
	assert.Len(t, resp.Warnings, 2)

	s = newTestServer(t, func(a *app.App) {
		a.DirectoryClient = fakeDirectory{err: errors.New("timeout")}
	})
	resp = decode[struct {
		directory.Options
		Warnings []string `json:"warnings"`
	}](t, s.do("GET", "/api/directory/options", nil))
	assert.Equal(t, directory.FallbackHubs, resp.Hubs)
	require.NotEmpty(t, resp.Warnings)
	assert.Equal(t, "Could not load directory options.", resp.Warnings[0])
}

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do("GET", "/api/admin/forms", nil).Code)

	req := httptest.NewRequest("POST", "/api/login", nil)
	req.SetBasicAuth(adminUser, "wrong")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestAdminAllowList(t *testing.T) {
	s := newTestServer(t, func(a *app.App) {
		a.AdminEmails = []string{"someone.else@example.org"}
	})

	req := httptest.NewRequest("POST", "/api/login", nil)
	req.SetBasicAuth(adminUser, adminPassword)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestAdminCookieToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/admin/forms", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: s.login()})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminForms(t *testing.T) {
	s := newTestServer(t)

	rec := s.admin("POST", "/api/admin/forms", map[string]any{"name": "Prayer Requests", "description": "Weekly"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	form := decode[model.Form](t, rec)
	assert.Equal(t, "prayer-requests", form.Slug)
	assert.True(t, form.IsActive)

	rec = s.admin("POST", "/api/admin/forms", map[string]any{"name": "Prayer Requests"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorsResponse](t, rec).Errors, "slug")

	rec = s.admin("POST", "/api/admin/forms", map[string]any{"name": "  ", "slug": "Bad Slug"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[errorsResponse](t, rec).Errors
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "slug")

	rec = s.admin("GET", "/api/admin/forms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Forms []model.Form `json:"forms"`
	}](t, rec)
	assert.Len(t, list.Forms, 2)

	rec = s.admin("PUT", "/api/admin/forms/"+strconv.Itoa(form.ID), map[string]any{"name": "Prayer", "slug": "prayer", "isActive": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Form](t, rec)
	assert.Equal(t, "prayer", updated.Slug)
	assert.False(t, updated.IsActive)

	assert.Equal(t, http.StatusOK, s.admin("GET", "/api/admin/forms/"+strconv.Itoa(form.ID), nil).Code)
	assert.Equal(t, http.StatusNoContent, s.admin("DELETE", "/api/admin/forms/"+strconv.Itoa(form.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.admin("GET", "/api/admin/forms/"+strconv.Itoa(form.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.admin("GET", "/api/admin/forms/abc", nil).Code)
}

func TestAdminEntries(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, name := range []string{"Ann", "Bob"} {
		body, err := payload.Decode([]byte(`{"firstName":"` + name + `","eventName":"Camp"}`))
		require.NoError(t, err)
		_, err = s.app.InsertEntry(ctx, s.primary, body)
		require.NoError(t, err)
	}

	rec := s.admin("GET", "/api/admin/forms/"+strconv.Itoa(s.primary.ID)+"/entries?q=ann", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Entries []model.Entry `json:"entries"`
	}](t, rec)
	require.Len(t, list.Entries, 1)
	entry := list.Entries[0]
	assert.Equal(t, "Ann", entry.FirstName)

	rec = s.admin("PUT", "/api/admin/entries/"+strconv.Itoa(entry.ID), map[string]any{
		"payload": map[string]any{"firstName": "Anne", "includesSignage": true},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Entry](t, rec)
	assert.Equal(t, "Anne", updated.FirstName)
	assert.True(t, updated.Flags.IncludesSignage)

	rec = s.admin("PUT", "/api/admin/entries/"+strconv.Itoa(entry.ID), map[string]any{"payload": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusNoContent, s.admin("DELETE", "/api/admin/entries/"+strconv.Itoa(entry.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.admin("GET", "/api/admin/entries/"+strconv.Itoa(entry.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.admin("GET", "/api/admin/forms/999/entries", nil).Code)
}

func TestAdminTemplateValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	form, err := s.app.CreateForm(ctx, model.Form{Name: "Feedback", IsActive: true})
	require.NoError(t, err)

	rec := s.admin("POST", "/api/admin/forms/"+strconv.Itoa(form.ID)+"/templates", map[string]any{
		"body":         "  ",
		"triggerEvent": "entry_deleted",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[errorsResponse](t, rec).Errors
	for _, key := range []string{"name", "body", "subject", "toRecipients", "triggerEvent"} {
		assert.Contains(t, errs, key)
	}

	// primary form templates do not need a subject
	rec = s.admin("POST", "/api/admin/forms/"+strconv.Itoa(s.primary.ID)+"/templates", map[string]any{
		"name":                 "Office",
		"body":                 "<p>New</p>",
		"subject":              "ignored",
		"useDefaultRecipients": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, notify.SubjectToken, decode[model.EmailTemplate](t, rec).Subject)
}

func TestAdminTemplates(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	form, err := s.app.CreateForm(ctx, model.Form{Name: "Feedback", IsActive: true})
	require.NoError(t, err)
	base := "/api/admin/forms/" + strconv.Itoa(form.ID) + "/templates"

	var ids []int
	for _, name := range []string{"first", "second", "third"} {
		rec := s.admin("POST", base, map[string]any{
			"name":         name,
			"subject":      "Hi {{payload.name}}",
			"body":         "<p>{{payload.message}}</p>",
			"toRecipients": `"Team" <Team@Example.org>; not-an-email; team@example.org`,
			"ccRecipients": []any{"cc@example.org", map[string]any{"email": "boss@example.org", "name": "Boss"}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		tpl := decode[model.EmailTemplate](t, rec)
		assert.Equal(t, len(ids), tpl.Position)
		require.Len(t, tpl.ToRecipients, 1)
		assert.Equal(t, "team@example.org", tpl.ToRecipients[0].Email)
		assert.Len(t, tpl.CcRecipients, 2)
		ids = append(ids, tpl.ID)
	}

	rec := s.admin("PUT", base+"/order", map[string]any{"ids": []int{ids[2], ids[0]}})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), staleOrderMessage)

	rec = s.admin("PUT", base+"/order", map[string]any{"ids": []int{ids[2], ids[0], ids[1]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[struct {
		Templates []model.EmailTemplate `json:"templates"`
	}](t, rec)
	require.Len(t, list.Templates, 3)
	assert.Equal(t, "third", list.Templates[0].Name)
	assert.Equal(t, "first", list.Templates[1].Name)

	rec = s.admin("PUT", "/api/admin/templates/"+strconv.Itoa(ids[0]), map[string]any{
		"name":                 "renamed",
		"subject":              "Hello",
		"body":                 "<p>Body</p>",
		"useDefaultRecipients": true,
		"isActive":             false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.EmailTemplate](t, rec)
	assert.Equal(t, 1, updated.Position)
	assert.False(t, updated.IsActive)

	assert.Equal(t, http.StatusNoContent, s.admin("DELETE", "/api/admin/templates/"+strconv.Itoa(ids[2]), nil).Code)
	rec = s.admin("GET", base, nil)
	list = decode[struct {
		Templates []model.EmailTemplate `json:"templates"`
	}](t, rec)
	require.Len(t, list.Templates, 2)
	assert.Equal(t, 0, list.Templates[0].Position)
	assert.Equal(t, 1, list.Templates[1].Position)

	assert.Equal(t, http.StatusNotFound, s.admin("DELETE", "/api/admin/templates/"+strconv.Itoa(ids[2]), nil).Code)
}

func TestAdminPreviewTemplate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	form, err := s.app.CreateForm(ctx, model.Form{Name: "Feedback", IsActive: true})
	require.NoError(t, err)
	tpl, err := s.app.CreateTemplate(ctx, model.EmailTemplate{
		FormID:       form.ID,
		Name:         "Thanks",
		Subject:      "Thanks {{payload.name}}",
		Body:         "<p>{{payload.message}}</p>",
		ToRecipients: notify.ParseRecipients("feedback@example.org"),
		IsActive:     true,
	})
	require.NoError(t, err)
	path := "/api/admin/templates/" + strconv.Itoa(tpl.ID) + "/preview"

	rec := s.admin("POST", path, map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorsResponse](t, rec).Errors, "entryId")

	body, err := payload.Decode([]byte(`{"name":"Sam","message":"<b>Great</b>"}`))
	require.NoError(t, err)
	entry, err := s.app.InsertEntry(ctx, form, body)
	require.NoError(t, err)

	rec = s.admin("POST", path, map[string]any{"entryId": entry.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rendered := decode[notify.Rendered](t, rec)
	assert.Equal(t, "Thanks Sam", rendered.Subject)
	assert.Contains(t, rendered.HTML, "&lt;b&gt;Great&lt;/b&gt;")
	assert.Empty(t, s.mail.messages())

	other, err := s.app.InsertEntry(ctx, s.primary, body)
	require.NoError(t, err)
	rec = s.admin("POST", path, map[string]any{"entryId": other.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminPlaceholders(t *testing.T) {
	s := newTestServer(t)

	rec := s.admin("GET", "/api/admin/forms/"+strconv.Itoa(s.primary.ID)+"/placeholders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Placeholders []model.PlaceholderEntry `json:"placeholders"`
	}](t, rec)

	keys := map[string]bool{}
	for _, p := range resp.Placeholders {
		keys[p.Key] = true
	}
	assert.True(t, keys["entry.full_name"])
	assert.True(t, keys["payload.firstName"])
}

func TestLoginSetsCookiesAndRefresh(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/login", nil)
	req.SetBasicAuth(adminUser, adminPassword)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "access_token")
	require.Contains(t, cookies, "refresh_token")
	assert.True(t, cookies["access_token"].HttpOnly)

	refresh := func() int {
		req := httptest.NewRequest("POST", "/api/refresh", nil)
		req.AddCookie(cookies["refresh_token"])
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, refresh())
	assert.NotEqual(t, http.StatusOK, refresh())

	assert.Equal(t, http.StatusUnauthorized, s.do("POST", "/api/refresh", nil).Code)

	rec = s.do("POST", "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/metrics", nil).Code)

	s = newTestServer(t, func(a *app.App) { a.MetricsEnabled = true })
	s.do("GET", "/api/forms/work-request", nil)
	rec := s.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSubmitRejectsOversizeBody(t *testing.T) {
	s := newTestServer(t, func(a *app.App) { a.MaxBodyBytes = 1024 })

	body := validPrimaryPayload()
	body["digitalBrief"] = strings.Repeat("x", 4096)
	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{
		"payload":        body,
		"recaptchaToken": "tok",
	})
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Empty(t, s.captcha.tokens)
	assert.Empty(t, s.mail.messages())

	entries, err := s.app.ListEntries(context.Background(), s.primary.ID, "")
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec = s.do("POST", "/api/forms/work-request/entries", map[string]any{
		"payload":        validPrimaryPayload(),
		"recaptchaToken": "tok",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAdminRejectsOversizeBody(t *testing.T) {
	s := newTestServer(t, func(a *app.App) { a.MaxBodyBytes = 1024 })

	rec := s.admin("POST", "/api/admin/forms", map[string]any{"name": "Big", "description": strings.Repeat("x", 4096)})
	assert.NotEqual(t, http.StatusCreated, rec.Code)

	rec = s.admin("GET", "/api/admin/forms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Forms []model.Form `json:"forms"`
	}](t, rec)
	assert.Len(t, list.Forms, 1)
}

func TestCreatedResponsesAreJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/forms/work-request/entries", map[string]any{
		"payload":        validPrimaryPayload(),
		"recaptchaToken": "tok",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = s.admin("POST", "/api/admin/forms", map[string]any{"name": "Feedback"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	form := decode[model.Form](t, rec)

	rec = s.admin("POST", "/api/admin/forms/"+strconv.Itoa(form.ID)+"/templates", map[string]any{
		"name":         "team",
		"subject":      "Hi",
		"body":         "<p>Hello</p>",
		"toRecipients": "team@example.org",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
