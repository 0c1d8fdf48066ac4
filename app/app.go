package app

import (
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/work-requests/config"
	"github.com/mbolis/work-requests/notify"
	"github.com/mbolis/work-requests/recaptcha"
	"github.com/mbolis/work-requests/store"
	"github.com/mbolis/work-requests/wizard"
)

type App struct {
	*store.Store
	*oauth.BearerServer
	config.Config

	Notifier        *notify.Dispatcher
	Captcha         recaptcha.Verifier
	DirectoryClient wizard.OptionsSource
	Now             func() time.Time
}
