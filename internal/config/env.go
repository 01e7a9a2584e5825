package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOverrides lists the environment variables that take precedence over the
// config file.
type envOverrides struct {
	APIURL    string `env:"FILMDESK_API_URL"`
	SigninURL string `env:"FILMDESK_SIGNIN_URL"`
	APIToken  string `env:"FILMDESK_API_TOKEN"`
	Language  string `env:"FILMDESK_LANG"`
	StateDir  string `env:"FILMDESK_STATE_DIR"`
	NtfyTopic string `env:"FILMDESK_NTFY_TOPIC"`
	LogLevel  string `env:"FILMDESK_LOG_LEVEL"`
}

// dotenvPath is loaded when present. Existing environment variables win.
const dotenvPath = ".env"

func loadDotenv() error {
	if _, err := os.Stat(dotenvPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", dotenvPath, err)
	}
	if err := godotenv.Load(dotenvPath); err != nil {
		return fmt.Errorf("load %s: %w", dotenvPath, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if err := loadDotenv(); err != nil {
		return err
	}
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	set(&c.API.BaseURL, overrides.APIURL)
	set(&c.API.SigninURL, overrides.SigninURL)
	set(&c.API.Token, overrides.APIToken)
	set(&c.Locale.Language, overrides.Language)
	set(&c.Session.StateDir, overrides.StateDir)
	set(&c.Notifications.NtfyTopic, overrides.NtfyTopic)
	set(&c.Logging.Level, overrides.LogLevel)
	return nil
}
