package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/metrics"
	"github.com/mbolis/work-requests/recaptcha"
	"github.com/mbolis/work-requests/routes/middlewares"
)

const defaultMaxBodyBytes = 1 << 20

func Wire(app app.App) http.Handler {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.MaxBodyBytes <= 0 {
		app.MaxBodyBytes = defaultMaxBodyBytes
	}
	if app.Captcha == nil {
		app.Captcha = recaptcha.New(app.Recaptcha)
	}

	root := chi.NewRouter()
	root.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Logger, NoColor: true}),
		middleware.Recoverer,
	)

	if app.MetricsEnabled {
		root.Use(metrics.Middleware)
		root.Handle("/metrics", metrics.Handler())
	}

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms/{slug}", PublicGetForm(app))
	api.Post("/forms/{slug}/entries", PublicSubmitEntry(app))
	api.Get("/directory/options", GetDirectoryOptions(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(
			middleware.RequestSize(app.MaxBodyBytes),
			middlewares.CookieToken,
			middlewares.Admin(app.TokenSecret, app.IsAdmin),
		)

		// CRUD form
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get(`/forms/{id:^\d+$}`, GetForm(app))
		r.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
		r.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))
		r.Get(`/forms/{id:^\d+$}/placeholders`, GetPlaceholders(app))

		r.Get(`/forms/{id:^\d+$}/entries`, ListEntries(app))
		r.Get(`/entries/{id:^\d+$}`, GetEntry(app))
		r.Put(`/entries/{id:^\d+$}`, UpdateEntry(app))
		r.Delete(`/entries/{id:^\d+$}`, DeleteEntry(app))

		r.Get(`/forms/{id:^\d+$}/templates`, ListTemplates(app))
		r.Post(`/forms/{id:^\d+$}/templates`, CreateTemplate(app))
		r.Put(`/forms/{id:^\d+$}/templates/order`, ReorderTemplates(app))
		r.Get(`/templates/{id:^\d+$}`, GetTemplate(app))
		r.Put(`/templates/{id:^\d+$}`, UpdateTemplate(app))
		r.Delete(`/templates/{id:^\d+$}`, DeleteTemplate(app))
		r.Post(`/templates/{id:^\d+$}/preview`, PreviewTemplate(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))
	api.Post("/logout", Logout())

	return api
}
