package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/work-requests/app"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/database"
	"github.com/mbolis/work-requests/directory"
	"github.com/mbolis/work-requests/httpx"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/mailer"
	"github.com/mbolis/work-requests/metrics"
	"github.com/mbolis/work-requests/notify"
	"github.com/mbolis/work-requests/recaptcha"
	"github.com/mbolis/work-requests/routes"
	"github.com/mbolis/work-requests/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := seed(st, cfg); err != nil {
		log.Fatal("main.db.seed:", err)
	}

	mail, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Fatal("main.mailer:", err)
	}

	if cfg.MetricsEnabled {
		metrics.Init()
	}

	app := app.App{
		Store:        st,
		BearerServer: httpx.NewBearerServer(st, cfg),
		Config:       cfg,
		Notifier: &notify.Dispatcher{
			Mailer:      mail,
			Defaults:    notify.ParseRecipients(cfg.DefaultRecipients),
			PrimarySlug: cfg.PrimaryFormSlug,
		},
		Captcha:         recaptcha.New(cfg.Recaptcha),
		DirectoryClient: directory.NewClient(cfg.Directory.URL, cfg.Directory.APIKey, cfg.Directory.Timeout),
		Now:             time.Now,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

// seed makes sure the primary form exists, and the configured admin user
// when one is given.
func seed(st *store.Store, cfg config.Config) error {
	ctx := context.Background()
	if _, err := st.EnsureForm(ctx, cfg.PrimaryFormSlug, "Work Request"); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" {
		if err := st.SeedUser(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
		log.Info("Seeded admin user " + cfg.SeedAdminEmail)
	}
	return nil
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
