package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	AppURL     string `env:"APP_URL" envDefault:"http://localhost:8080"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB  bool   `env:"RESET_DB"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB"`
	RedisPass string `env:"REDIS_PASSWORD"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL" envDefault:"http://localhost:8080/auth/github/callback"`

	// EnableMailService and SendVerificationEmail together gate the email
	// verification flow. With either off, sign-up establishes a session
	// immediately instead of sending a verification link.
	EnableMailService     bool   `env:"ENABLE_MAIL_SERVICE"`
	SendVerificationEmail bool   `env:"AUTH_SEND_VERIFICATION_EMAIL" envDefault:"true"`
	MailServiceType       string `env:"MAIL_SERVICE_TYPE" envDefault:"console"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	CookieSecure bool   `env:"COOKIE_SECURE"`
	SwaggerHost  string `env:"SWAGGER_HOST"`
}

// VerificationRequired reports whether sign-up must go through email
// verification before a session is granted.
func (c *Config) VerificationRequired() bool {
	return c.EnableMailService && c.SendVerificationEmail
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.MailServiceType != "console" && cfg.MailServiceType != "smtp" {
		return nil, fmt.Errorf("invalid MAIL_SERVICE_TYPE %q (expected console or smtp)", cfg.MailServiceType)
	}

	return &cfg, nil
}
