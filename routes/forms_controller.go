package routes

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/notify"
	"github.com/mbolis/work-requests/store"
	"github.com/pkg/errors"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9-]`)

func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return 0, false
	}
	return id, true
}

type formInput struct {
	Slug        string `json:"slug" validate:"max=100,slug"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (in *formInput) form() model.Form {
	f := model.Form{
		Slug:        strings.TrimSpace(in.Slug),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	return f
}

func decodeForm(w http.ResponseWriter, r *http.Request) (model.Form, bool) {
	in := formInput{}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
		return model.Form{}, false
	}
	in.Slug = strings.TrimSpace(in.Slug)
	in.Name = strings.TrimSpace(in.Name)
	if errs := fieldErrors(in); len(errs) > 0 {
		httpx.LogValidation(w, r, "request.validate_form", errs)
		return model.Form{}, false
	}
	return in.form(), true
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.ListForms(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := decodeForm(w, r)
		if !ok {
			return
		}

		form, err := app.CreateForm(r.Context(), form)
		if errors.Is(err, store.ErrDuplicateSlug) {
			httpx.LogValidation(w, r, "db.insert_form.slug", map[string]string{
				"slug": "This slug is already in use.",
			})
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, ok := urlID(w, r)
		if !ok {
			return
		}

		form, err := app.GetForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, ok := urlID(w, r)
		if !ok {
			return
		}
		form, ok := decodeForm(w, r)
		if !ok {
			return
		}
		form.ID = formId

		form, err := app.UpdateForm(r.Context(), form)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "update_form", formId)
			return
		case errors.Is(err, store.ErrDuplicateSlug):
			httpx.LogValidation(w, r, "db.update_form.slug", map[string]string{
				"slug": "This slug is already in use.",
			})
			return
		case err != nil:
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, ok := urlID(w, r)
		if !ok {
			return
		}

		err := app.DeleteForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "delete_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetPlaceholders lists the template placeholders of a form, with samples
// taken from its most recent entries.
func GetPlaceholders(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, ok := urlID(w, r)
		if !ok {
			return
		}

		form, err := app.GetForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_placeholders", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		recent, err := app.RecentEntries(r.Context(), formId, notify.RecentEntryLimit)
		if err != nil {
			httpx.LogInternalError(w, "db.get_recent_entries", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"placeholders": notify.Catalog(form, recent, app.PrimaryFormSlug),
		})
	}
}
