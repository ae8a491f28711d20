package config

import "time"

// Config is parsed from the environment with the INSTITUTE prefix.
type Config struct {
	Web     Web
	DB      DB
	Cors    Cors
	Auth    Auth
	Email   Email
	Files   Files
	Stripe  Stripe
	Paypal  Paypal
	Oauth   Oauth
	Rate    Rate
	Session Session
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost:5432"`
	Name       string `conf:"default:institute"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string `conf:"default:"`
}

type Auth struct {
	// AdminEmail/AdminPassword seed the first administrator account on
	// startup when no user with that email exists yet.
	AdminEmail    string `conf:"default:admin@institute.lk"`
	AdminPassword string `conf:"default:,mask"`
}

type Email struct {
	Address  string `conf:"default:noreply@institute.lk"`
	Password string `conf:"default:,mask"`
	Host     string `conf:"default:localhost"`
	Port     string `conf:"default:25"`
}

type Files struct {
	// Dir is where uploads (slips, submissions, content) land on disk.
	Dir string `conf:"default:uploads"`

	// BaseURL prefixes the relative paths stored on records when clients
	// need an absolute URL.
	BaseURL string `conf:"default:http://localhost:8000/files"`
}

type Stripe struct {
	APISecret     string `conf:"default:,mask"`
	WebhookSecret string `conf:"default:,mask"`
	SuccessURL    string `conf:"default:http://localhost:3000/payments/success"`
	CancelURL     string `conf:"default:http://localhost:3000/payments/cancelled"`
}

type Paypal struct {
	ClientID string `conf:"default:"`
	Secret   string `conf:"default:,mask"`
	URL      string `conf:"default:https://api.sandbox.paypal.com"`
}

type OauthProvider struct {
	Client      string `conf:"default:"`
	Secret      string `conf:"default:,mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:http://localhost:8000/auth/oauth-callback/google"`
}

type Oauth struct {
	Google           OauthProvider
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:http://localhost:3000"`
}

type Rate struct {
	LoginBurst    int     `conf:"default:5"`
	LoginRPS      float64 `conf:"default:0.2"`
	ExpiryMinutes int     `conf:"default:30"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}
