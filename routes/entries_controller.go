package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/payload"
	"github.com/mbolis/work-requests/store"
	"github.com/pkg/errors"
)

type entryInput struct {
	Payload payload.Value `json:"payload"`
}

func ListEntries(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, ok := urlID(w, r)
		if !ok {
			return
		}

		if _, err := app.GetForm(r.Context(), formId); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "get_entries", formId)
				return
			}
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		entries, err := app.ListEntries(r.Context(), formId, r.URL.Query().Get("q"))
		if err != nil {
			httpx.LogInternalError(w, "db.get_entries", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"entries": entries,
		})
	}
}

func GetEntry(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryId, ok := urlID(w, r)
		if !ok {
			return
		}

		entry, err := app.GetEntry(r.Context(), entryId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_entry", entryId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_entry", err)
			return
		}

		render.JSON(w, r, entry)
	}
}

// UpdateEntry replaces the stored payload. The list columns follow it.
func UpdateEntry(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryId, ok := urlID(w, r)
		if !ok {
			return
		}

		in := entryInput{}
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if in.Payload.Kind() != payload.MapKind {
			httpx.LogValidation(w, r, "request.validate_entry", map[string]string{
				"payload": "The payload must be an object.",
			})
			return
		}

		entry, err := app.UpdateEntry(r.Context(), entryId, in.Payload)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "update_entry", entryId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.update_entry", err)
			return
		}

		render.JSON(w, r, entry)
	}
}

func DeleteEntry(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryId, ok := urlID(w, r)
		if !ok {
			return
		}

		err := app.DeleteEntry(r.Context(), entryId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "delete_entry", entryId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_entry", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
