package routes

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/directory"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/metrics"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/payload"
	"github.com/mbolis/work-requests/recaptcha"
	"github.com/mbolis/work-requests/store"
	"github.com/mbolis/work-requests/wizard"
	"github.com/pkg/errors"
)

type submissionInput struct {
	Payload        payload.Value `json:"payload"`
	RecaptchaToken string        `json:"recaptchaToken"`
}

func activeForm(app app.App, w http.ResponseWriter, r *http.Request) (model.Form, bool) {
	slug := chi.URLParam(r, "slug")
	form, err := app.GetFormBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !form.IsActive) {
		httpx.LogNotFound(w, "get_form", slug)
		return form, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_form", err)
		return form, false
	}
	return form, true
}

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := activeForm(app, w, r)
		if !ok {
			return
		}

		render.JSON(w, r, form)
	}
}

// PublicSubmitEntry stores a submission and sends its notifications.
// Notification failures are logged and never fail the submission.
func PublicSubmitEntry(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := activeForm(app, w, r)
		if !ok {
			return
		}

		in := submissionInput{}
		body := http.MaxBytesReader(w, r.Body, app.MaxBodyBytes)
		defer body.Close()
		if err := render.DecodeJSON(body, &in); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				metrics.SubmissionsTotal.WithLabelValues(form.Slug, "rejected").Inc()
				httpx.LogStatus(w, http.StatusRequestEntityTooLarge, log.DebugLevel, "request.body_too_large")
				return
			}
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if in.Payload.Kind() != payload.MapKind {
			reject(w, r, form, "request.validate_entry", wizard.Errors{
				wizard.FormKey: "The submission is empty.",
			})
			return
		}

		if err := app.Captcha.Verify(r.Context(), in.RecaptchaToken, remoteIP(r)); err != nil {
			log.Debugf("recaptcha.verify: %s", err)
			reject(w, r, form, "request.recaptcha", wizard.Errors{
				wizard.RecaptchaKey: recaptchaMessage(err),
			})
			return
		}

		if form.Slug == app.PrimaryFormSlug {
			if errs := validateWorkRequest(in.Payload, app.Now()); !errs.Valid() {
				reject(w, r, form, "request.validate_entry", errs)
				return
			}
		}

		entry, err := app.InsertEntry(r.Context(), form, in.Payload)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues(form.Slug, "failed").Inc()
			httpx.LogInternalError(w, "db.insert_entry", err)
			return
		}
		metrics.SubmissionsTotal.WithLabelValues(form.Slug, "created").Inc()

		notifyEntry(context.WithoutCancel(r.Context()), app, form, entry)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":        entry.ID,
			"reference": entry.Reference,
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, form model.Form, code string, errs wizard.Errors) {
	metrics.SubmissionsTotal.WithLabelValues(form.Slug, "rejected").Inc()
	httpx.LogValidation(w, r, code, errs)
}

func recaptchaMessage(err error) string {
	switch {
	case errors.Is(err, recaptcha.ErrMissingToken):
		return "Please complete the spam check."
	case errors.Is(err, recaptcha.ErrRejected):
		return "The spam check failed, please try again."
	}
	return "The spam check could not be completed, please try again."
}

// validateWorkRequest re-runs every visible wizard step on the submitted
// payload.
func validateWorkRequest(body payload.Value, today time.Time) wizard.Errors {
	raw, err := body.MarshalJSON()
	if err != nil {
		return wizard.Errors{wizard.FormKey: "The submission could not be read."}
	}
	data := wizard.FormData{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return wizard.Errors{wizard.FormKey: "The submission could not be read."}
	}
	return wizard.ValidateAll(&data, today)
}

func notifyEntry(ctx context.Context, app app.App, form model.Form, entry model.Entry) {
	if app.Notifier == nil {
		return
	}
	templates, err := app.ActiveTemplates(ctx, form.ID, model.SubmissionCreated)
	if err != nil {
		log.Errorf("db.get_active_templates: %s", err)
		return
	}
	if err := app.Notifier.Dispatch(ctx, form, entry, templates); err != nil {
		log.Errorf("notify.dispatch: entry %d: %s", entry.ID, err)
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetDirectoryOptions serves the hub, venue and congregation lists with
// the fallbacks applied.
func GetDirectoryOptions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts directory.Options
		var loadErr error
		if app.DirectoryClient != nil {
			opts, loadErr = app.DirectoryClient.Options(r.Context())
		}
		if loadErr != nil {
			log.Warnf("directory.options: %s", loadErr)
			opts = directory.Options{}
		}

		opts, warnings := directory.WithFallback(opts)
		if loadErr != nil {
			warnings = append([]string{"Could not load directory options."}, warnings...)
		}

		render.JSON(w, r, struct {
			directory.Options
			Warnings []string `json:"warnings"`
		}{opts, warnings})
	}
}
