package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"moodjournal_api/internal/oauth"
)

type Database struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN is the go-sql-driver/mysql connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Mail struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (m Mail) Enabled() bool {
	return m.User != "" && m.Password != ""
}

type Config struct {
	Port                 string
	Database             Database
	JWTUserSecret        string
	JWTResetSecret       string
	ClientURL            string
	FrontendURL          string
	SecureCookies        bool
	Google               oauth.Config
	GoogleMobileClientID string
	Github               oauth.Config
	Mail                 Mail
	UpstreamTimeout      time.Duration
}

// Load reads the process environment. Call godotenv.Load first to pick up a
// local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Database: Database{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     getenv("DB_PORT", "3306"),
			Name:     os.Getenv("DB_NAME"),
		},
		JWTUserSecret:  os.Getenv("JWT_USER_SECRET"),
		JWTResetSecret: os.Getenv("JWT_RESET_SECRET"),
		ClientURL:      strings.TrimRight(getenv("CLIENT_URL", "http://localhost:5173"), "/"),
		Google: oauth.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		},
		GoogleMobileClientID: os.Getenv("GOOGLE_CLIENT_ID_MOBILE"),
		Github: oauth.Config{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		},
		Mail: Mail{
			Host:     getenv("EMAIL_HOST", "smtp.gmail.com"),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
	}
	cfg.FrontendURL = strings.TrimRight(getenv("FRONTEND_URL", cfg.ClientURL), "/")
	cfg.SecureCookies = strings.HasPrefix(cfg.ClientURL, "https://")

	var err error
	if cfg.Mail.Port, err = strconv.Atoi(getenv("EMAIL_PORT", "587")); err != nil {
		return nil, fmt.Errorf("EMAIL_PORT: %w", err)
	}
	if cfg.UpstreamTimeout, err = time.ParseDuration(getenv("UPSTREAM_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("UPSTREAM_TIMEOUT must be positive")
	}

	if cfg.JWTUserSecret == "" || cfg.JWTResetSecret == "" {
		return nil, errors.New("JWT_USER_SECRET and JWT_RESET_SECRET must be set")
	}
	if cfg.JWTUserSecret == cfg.JWTResetSecret {
		return nil, errors.New("JWT_USER_SECRET and JWT_RESET_SECRET must differ")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
