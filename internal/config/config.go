package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	DBDSN     string
	LogLevel  string
	DataDir   string

	TokenSecret   string
	TokenTTL      time.Duration
	ActivationTTL time.Duration
	ResetTTL      time.Duration

	SMTP SMTP

	SuperadminEmail    string
	SuperadminPassword string
}

func Load() (Config, error) {
	if err := loadDotEnvFile(".env", os.Setenv, os.Getenv); err != nil {
		return Config{}, err
	}
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV"),
		Addr:        getenv("APP_ADDR"),
		DBDSN:       getenv("APP_DB_DSN"),
		LogLevel:    getenv("APP_LOG_LEVEL"),
		DataDir:     getenv("APP_DATA_DIR"),
		TokenSecret: getenv("APP_TOKEN_SECRET"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := url.Parse(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	var err error
	if cfg.TokenTTL, err = durationEnv(getenv, "APP_TOKEN_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ActivationTTL, err = durationEnv(getenv, "APP_ACTIVATION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ResetTTL, err = durationEnv(getenv, "APP_RESET_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}

	cfg.SMTP = SMTP{
		Host:      getenv("APP_SMTP_HOST"),
		Username:  getenv("APP_SMTP_USERNAME"),
		Password:  getenv("APP_SMTP_PASSWORD"),
		FromEmail: strings.TrimSpace(strings.ToLower(getenv("APP_SMTP_FROM"))),
		FromName:  strings.TrimSpace(getenv("APP_SMTP_FROM_NAME")),
	}
	if portRaw := getenv("APP_SMTP_PORT"); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, errors.New("APP_SMTP_PORT: must be a valid port number")
		}
		cfg.SMTP.Port = port
	} else if cfg.SMTP.Host != "" {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.FromEmail == "" {
		return Config{}, errors.New("APP_SMTP_FROM: required when APP_SMTP_HOST is set")
	}

	cfg.SuperadminEmail = strings.TrimSpace(strings.ToLower(getenv("APP_SUPERADMIN_EMAIL")))
	cfg.SuperadminPassword = getenv("APP_SUPERADMIN_PASSWORD")
	if cfg.SuperadminPassword != "" && cfg.SuperadminEmail == "" {
		return Config{}, errors.New("APP_SUPERADMIN_EMAIL: required when APP_SUPERADMIN_PASSWORD is set")
	}

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.TokenSecret) < 32 {
			return Config{}, errors.New("APP_TOKEN_SECRET: must be at least 32 bytes in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// SMTPEnabled reports whether outbound mail is configured. When disabled the
// services log instead of sending, matching dev setups without a relay.
func (c Config) SMTPEnabled() bool { return c.SMTP.Host != "" }

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be > 0", key)
	}
	return d, nil
}
