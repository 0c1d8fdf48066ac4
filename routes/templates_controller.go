package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/notify"
	"github.com/mbolis/work-requests/store"
	"github.com/pkg/errors"
)

const staleOrderMessage = "The template order has changed, reload and try again."

type templateInput struct {
	TriggerEvent         model.TriggerEvent `json:"triggerEvent"`
	Name                 string             `json:"name" validate:"required,max=200"`
	Subject              string             `json:"subject" validate:"max=500"`
	Heading              *string            `json:"heading"`
	Body                 string             `json:"body" validate:"required"`
	ToRecipients         recipientInput     `json:"toRecipients"`
	CcRecipients         recipientInput     `json:"ccRecipients"`
	BccRecipients        recipientInput     `json:"bccRecipients"`
	UseDefaultRecipients bool               `json:"useDefaultRecipients"`
	IsActive             *bool              `json:"isActive"`
}

func (in *templateInput) validate(form model.Form, primarySlug string) map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)
	if strings.TrimSpace(in.Body) == "" {
		in.Body = ""
	}
	if in.Heading != nil {
		heading := strings.TrimSpace(*in.Heading)
		if heading == "" {
			in.Heading = nil
		} else {
			in.Heading = &heading
		}
	}
	if in.TriggerEvent == "" {
		in.TriggerEvent = model.SubmissionCreated
	}

	errs := fieldErrors(in)
	if !in.TriggerEvent.Valid() {
		errs["triggerEvent"] = "Unknown trigger event."
	}
	if in.Subject == "" && form.Slug != primarySlug {
		errs["subject"] = validationMessages["required"]
	}
	if len(in.ToRecipients.list()) == 0 && !in.UseDefaultRecipients {
		errs["toRecipients"] = "Add at least one recipient or use the default recipients."
	}
	return errs
}

func (in *templateInput) template(form model.Form, primarySlug string) model.EmailTemplate {
	t := model.EmailTemplate{
		FormID:               form.ID,
		TriggerEvent:         in.TriggerEvent,
		Name:                 in.Name,
		Subject:              notify.EffectiveSubject(form, primarySlug, in.Subject),
		Heading:              in.Heading,
		Body:                 in.Body,
		ToRecipients:         in.ToRecipients.list(),
		CcRecipients:         in.CcRecipients.list(),
		BccRecipients:        in.BccRecipients.list(),
		UseDefaultRecipients: in.UseDefaultRecipients,
		IsActive:             true,
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	return t
}

func decodeTemplate(w http.ResponseWriter, r *http.Request, form model.Form, primarySlug string) (model.EmailTemplate, bool) {
	in := templateInput{}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
		return model.EmailTemplate{}, false
	}
	if errs := in.validate(form, primarySlug); len(errs) > 0 {
		httpx.LogValidation(w, r, "request.validate_template", errs)
		return model.EmailTemplate{}, false
	}
	return in.template(form, primarySlug), true
}

// formOf loads the form from the {id} URL parameter and answers 404 when
// it does not exist.
func formOf(app app.App, w http.ResponseWriter, r *http.Request, code string) (model.Form, bool) {
	formId, ok := urlID(w, r)
	if !ok {
		return model.Form{}, false
	}
	form, err := app.GetForm(r.Context(), formId)
	if errors.Is(err, store.ErrNotFound) {
		httpx.LogNotFound(w, code, formId)
		return form, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_form", err)
		return form, false
	}
	return form, true
}

// templateOf loads the template from the {id} URL parameter with its form.
func templateOf(app app.App, w http.ResponseWriter, r *http.Request, code string) (model.EmailTemplate, model.Form, bool) {
	templateId, ok := urlID(w, r)
	if !ok {
		return model.EmailTemplate{}, model.Form{}, false
	}
	tpl, err := app.GetTemplate(r.Context(), templateId)
	if errors.Is(err, store.ErrNotFound) {
		httpx.LogNotFound(w, code, templateId)
		return tpl, model.Form{}, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_template", err)
		return tpl, model.Form{}, false
	}
	form, err := app.GetForm(r.Context(), tpl.FormID)
	if err != nil {
		httpx.LogInternalError(w, "db.get_template.form", err)
		return tpl, form, false
	}
	return tpl, form, true
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := formOf(app, w, r, "get_templates")
		if !ok {
			return
		}

		templates, err := app.ListTemplates(r.Context(), form.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_templates", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"templates": templates,
		})
	}
}

func CreateTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := formOf(app, w, r, "create_template")
		if !ok {
			return
		}
		tpl, ok := decodeTemplate(w, r, form, app.PrimaryFormSlug)
		if !ok {
			return
		}

		tpl, err := app.CreateTemplate(r.Context(), tpl)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_template", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, tpl)
	}
}

func GetTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, _, ok := templateOf(app, w, r, "get_template")
		if !ok {
			return
		}

		render.JSON(w, r, tpl)
	}
}

func UpdateTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, form, ok := templateOf(app, w, r, "update_template")
		if !ok {
			return
		}
		tpl, ok := decodeTemplate(w, r, form, app.PrimaryFormSlug)
		if !ok {
			return
		}
		tpl.ID = current.ID

		tpl, err := app.UpdateTemplate(r.Context(), tpl)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "update_template", current.ID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.update_template", err)
			return
		}

		render.JSON(w, r, tpl)
	}
}

func DeleteTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, ok := urlID(w, r)
		if !ok {
			return
		}

		err := app.DeleteTemplate(r.Context(), templateId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "delete_template", templateId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_template", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ReorderTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := formOf(app, w, r, "reorder_templates")
		if !ok {
			return
		}

		in := struct {
			IDs []int `json:"ids"`
		}{}
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err := app.ReorderTemplates(r.Context(), form.ID, in.IDs)
		if errors.Is(err, store.ErrStaleOrder) {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "reorder_templates.stale", staleOrderMessage)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.reorder_templates", err)
			return
		}

		templates, err := app.ListTemplates(r.Context(), form.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_templates", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"templates": templates,
		})
	}
}

// PreviewTemplate renders a template against one entry of its form
// without sending anything. Without entryId the newest entry is used.
func PreviewTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, form, ok := templateOf(app, w, r, "preview_template")
		if !ok {
			return
		}

		in := struct {
			EntryID int `json:"entryId"`
		}{}
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var entry model.Entry
		if in.EntryID == 0 {
			recent, err := app.RecentEntries(r.Context(), form.ID, 1)
			if err != nil {
				httpx.LogInternalError(w, "db.get_recent_entries", err)
				return
			}
			if len(recent) == 0 {
				httpx.LogValidation(w, r, "preview_template.no_entries", map[string]string{
					"entryId": "This form has no entries to preview with.",
				})
				return
			}
			entry = recent[0]
		} else {
			var err error
			entry, err = app.GetEntry(r.Context(), in.EntryID)
			if errors.Is(err, store.ErrNotFound) || (err == nil && entry.FormID != form.ID) {
				httpx.LogValidation(w, r, "preview_template.entry", map[string]string{
					"entryId": "Entry not found for this form.",
				})
				return
			}
			if err != nil {
				httpx.LogInternalError(w, "db.get_entry", err)
				return
			}
		}

		rendered, err := app.Notifier.Render(form, entry, tpl)
		if err != nil {
			httpx.LogInternalError(w, "notify.render", err)
			return
		}

		render.JSON(w, r, rendered)
	}
}
