package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Host        string        `env:"WR_HOST" envDefault:"0.0.0.0"`
	Port        uint          `env:"WR_PORT" envDefault:"80"`
	Addr        string        `env:"-"`
	DBUrl       string        `env:"WR_DB_URL" envDefault:"workrequests.sqlite"`
	TokenSecret string        `env:"WR_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"WR_TOKEN_TTL" envDefault:"2m"`
	Debug       bool          `env:"WR_DEBUG"`

	// Slug of the main intake form, which gets the schema placeholders,
	// server-side wizard validation and the forced subject line.
	PrimaryFormSlug string `env:"WR_PRIMARY_FORM" envDefault:"work-request"`

	// Free-text recipient list, e.g. `"Office" <office@example.org>; events@example.org`
	DefaultRecipients string   `env:"WR_DEFAULT_RECIPIENTS"`
	AdminEmails       []string `env:"WR_ADMIN_EMAILS" envSeparator:","`
	SeedAdminEmail    string   `env:"WR_SEED_ADMIN_EMAIL"`
	SeedAdminPassword string   `env:"WR_SEED_ADMIN_PASSWORD"`

	Recaptcha Recaptcha `envPrefix:"WR_RECAPTCHA_"`
	Directory Directory `envPrefix:"WR_DIRECTORY_"`
	Mail      Mail      `envPrefix:"WR_MAIL_"`

	MetricsEnabled bool `env:"WR_METRICS_ENABLED"`

	// Largest accepted request body, in bytes.
	MaxBodyBytes int64 `env:"WR_MAX_BODY_BYTES" envDefault:"1048576"`
}

type Recaptcha struct {
	Secret   string        `env:"SECRET"`
	URL      string        `env:"URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
	MinScore float64       `env:"MIN_SCORE" envDefault:"0.5"`
}

type Directory struct {
	URL     string        `env:"URL"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type Mail struct {
	Provider       string `env:"PROVIDER" envDefault:"log"`
	From           string `env:"FROM" envDefault:"no-reply@localhost"`
	FromName       string `env:"FROM_NAME" envDefault:"Work Requests"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SendGridURL    string `env:"SENDGRID_URL" envDefault:"https://api.sendgrid.com/v3/mail/send"`
}

var envFiles = []string{".env", ".env.local"}

func ParseFlags() (cfg Config, err error) {
	return Parse(os.Args[1:])
}

// Parse layers configuration: .env files, then environment, then flags.
func Parse(args []string) (cfg Config, err error) {
	if err = loadEnvFiles(); err != nil {
		return
	}
	if err = env.Parse(&cfg); err != nil {
		return
	}

	fs := flag.NewFlagSet("work-requests", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "listen host name")
	fs.UintVar(&cfg.Port, "port", cfg.Port, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", cfg.DBUrl, "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "secret key for token encryption and decryption")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token TTL")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at DEBUG level")
	fs.StringVar(&cfg.PrimaryFormSlug, "primary-form", cfg.PrimaryFormSlug, "slug of the primary intake form")
	fs.StringVar(&cfg.DefaultRecipients, "default-recipients", cfg.DefaultRecipients, "default notification recipients (`\"Name\" <email>; ...`)")
	adminEmails := fs.String("admin-emails", strings.Join(cfg.AdminEmails, ","), "comma separated list of admin usernames allowed to log in")
	fs.StringVar(&cfg.SeedAdminEmail, "seed-admin-email", cfg.SeedAdminEmail, "create this admin user on startup")
	fs.StringVar(&cfg.SeedAdminPassword, "seed-admin-password", cfg.SeedAdminPassword, "password of the seeded admin user")

	fs.StringVar(&cfg.Recaptcha.Secret, "recaptcha-secret", cfg.Recaptcha.Secret, "reCAPTCHA secret key (empty disables verification)")
	fs.StringVar(&cfg.Recaptcha.URL, "recaptcha-url", cfg.Recaptcha.URL, "reCAPTCHA siteverify URL")
	fs.DurationVar(&cfg.Recaptcha.Timeout, "recaptcha-timeout", cfg.Recaptcha.Timeout, "reCAPTCHA verification timeout")
	fs.Float64Var(&cfg.Recaptcha.MinScore, "recaptcha-min-score", cfg.Recaptcha.MinScore, "minimum accepted reCAPTCHA v3 score")

	fs.StringVar(&cfg.Directory.URL, "directory-url", cfg.Directory.URL, "directory options endpoint (empty uses fallback lists)")
	fs.StringVar(&cfg.Directory.APIKey, "directory-api-key", cfg.Directory.APIKey, "directory API key")
	fs.DurationVar(&cfg.Directory.Timeout, "directory-timeout", cfg.Directory.Timeout, "directory request timeout")

	fs.StringVar(&cfg.Mail.Provider, "mail-provider", cfg.Mail.Provider, "mail transport: log, smtp or sendgrid")
	fs.StringVar(&cfg.Mail.From, "mail-from", cfg.Mail.From, "sender address")
	fs.StringVar(&cfg.Mail.FromName, "mail-from-name", cfg.Mail.FromName, "sender display name")
	fs.StringVar(&cfg.Mail.SMTPHost, "smtp-host", cfg.Mail.SMTPHost, "SMTP host")
	fs.IntVar(&cfg.Mail.SMTPPort, "smtp-port", cfg.Mail.SMTPPort, "SMTP port")
	fs.StringVar(&cfg.Mail.SMTPUser, "smtp-user", cfg.Mail.SMTPUser, "SMTP user name")
	fs.StringVar(&cfg.Mail.SMTPPassword, "smtp-password", cfg.Mail.SMTPPassword, "SMTP password")
	fs.StringVar(&cfg.Mail.SendGridAPIKey, "sendgrid-api-key", cfg.Mail.SendGridAPIKey, "SendGrid API key")

	fs.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "expose prometheus metrics on /metrics")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", cfg.MaxBodyBytes, "largest accepted request body in bytes")

	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.AdminEmails = splitList(*adminEmails)
	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))

	err = cfg.validate()
	return
}

func (cfg Config) validate() error {
	if cfg.TokenSecret == "" {
		return errors.New("missing parameter -token-secret")
	}
	switch cfg.Mail.Provider {
	case "log":
	case "smtp":
		if cfg.Mail.SMTPHost == "" {
			return errors.New("missing parameter -smtp-host for smtp mail provider")
		}
	case "sendgrid":
		if cfg.Mail.SendGridAPIKey == "" {
			return errors.New("missing parameter -sendgrid-api-key for sendgrid mail provider")
		}
	default:
		return fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("-max-body-bytes must be positive")
	}
	if (cfg.SeedAdminEmail == "") != (cfg.SeedAdminPassword == "") {
		return errors.New("-seed-admin-email and -seed-admin-password go together")
	}
	return nil
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

// IsAdmin reports whether username may use the admin API. An empty
// allow-list admits every stored user.
func (cfg Config) IsAdmin(username string) bool {
	if len(cfg.AdminEmails) == 0 {
		return true
	}
	for _, email := range cfg.AdminEmails {
		if strings.EqualFold(email, username) {
			return true
		}
	}
	return false
}

func loadEnvFiles() error {
	var existing []string
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func splitList(s string) (list []string) {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}
	return
}
