package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizeSession(); err != nil {
		return err
	}
	c.normalizeUpload()
	c.normalizeBrowse()
	c.normalizeLocale()
	c.normalizeNotifications()
	return c.normalizeLogging()
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	c.API.SigninURL = strings.TrimSpace(c.API.SigninURL)
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = defaultRequestsPerSecond
	}
}

func (c *Config) normalizeSession() error {
	var err error
	if strings.TrimSpace(c.Session.StateDir) == "" {
		c.Session.StateDir = defaultStateDir
	}
	if c.Session.StateDir, err = expandPath(c.Session.StateDir); err != nil {
		return fmt.Errorf("session.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Session.RuntimeDir) == "" {
		c.Session.RuntimeDir = defaultRuntimeDir()
	}
	if c.Session.RuntimeDir, err = expandPath(c.Session.RuntimeDir); err != nil {
		return fmt.Errorf("session.runtime_dir: %w", err)
	}
	if c.Session.MaxAgeHours <= 0 {
		c.Session.MaxAgeHours = defaultSessionMaxAgeHours
	}
	c.Session.PrivilegedRoles = normalizeList(c.Session.PrivilegedRoles, DefaultPrivilegedRoles())
	return nil
}

func (c *Config) normalizeUpload() {
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = defaultUploadMaxBytes
	}
	c.Upload.AllowedTypes = normalizeList(c.Upload.AllowedTypes, DefaultAllowedTypes())
	if c.Upload.Parallelism <= 0 {
		c.Upload.Parallelism = defaultUploadParallelism
	}
}

func (c *Config) normalizeBrowse() {
	if c.Browse.LatestLimit <= 0 {
		c.Browse.LatestLimit = defaultLatestLimit
	}
}

func (c *Config) normalizeLocale() {
	c.Locale.Language = strings.ToLower(strings.TrimSpace(c.Locale.Language))
	if c.Locale.Language == "" {
		c.Locale.Language = defaultLanguage
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() error {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}

	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

// normalizeList lowercases, trims, and de-duplicates values, returning the
// fallback when nothing usable remains.
func normalizeList(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
