package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains the catalog REST API connection settings.
type API struct {
	BaseURL           string  `toml:"base_url"`
	SigninURL         string  `toml:"signin_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Token             string  `toml:"token"`
}

// Session contains configuration for the session gate and its persisted state.
type Session struct {
	StateDir        string   `toml:"state_dir"`
	RuntimeDir      string   `toml:"runtime_dir"`
	MaxAgeHours     int      `toml:"max_age_hours"`
	PrivilegedRoles []string `toml:"privileged_roles"`
}

// Upload contains limits applied to locally selected images.
type Upload struct {
	MaxBytes     int64    `toml:"max_bytes"`
	AllowedTypes []string `toml:"allowed_types"`
	Parallelism  int      `toml:"parallelism"`
}

// Form contains submission behaviour toggles.
type Form struct {
	// ResetOnEditFailure discards the draft when an update fails. Create-mode
	// failures always reset.
	ResetOnEditFailure bool `toml:"reset_on_edit_failure"`
}

// Browse contains configuration for the latest-works listing.
type Browse struct {
	LatestLimit int `toml:"latest_limit"`
}

// Locale selects the language used for user-facing messages.
type Locale struct {
	Language string `toml:"language"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Created        bool   `toml:"created"`
	Updated        bool   `toml:"updated"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	Dir           string `toml:"dir"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for filmdesk.
//
// Configuration sections by subsystem:
//   - API: catalog endpoint, sign-in endpoint, pacing and timeouts
//   - Session: gate state storage and privileged roles
//   - Upload: image size/type limits and upload parallelism
//   - Form: submission failure policy
//   - Browse: latest-works listing size
//   - Locale: message language
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, directory, and retention
type Config struct {
	API           API           `toml:"api"`
	Session       Session       `toml:"session"`
	Upload        Upload        `toml:"upload"`
	Form          Form          `toml:"form"`
	Browse        Browse        `toml:"browse"`
	Locale        Locale        `toml:"locale"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides (including an optional .env file in the working directory) are
// applied after the file is decoded. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filmdesk.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Session.StateDir, c.Logging.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StatePath returns the SQLite database path holding gate state.
func (c *Config) StatePath() string {
	return filepath.Join(c.Session.StateDir, "state.db")
}

// SessionFilePath returns the file that stores the current session identifier.
func (c *Config) SessionFilePath() string {
	return filepath.Join(c.Session.RuntimeDir, "session")
}

// SigninEndpoint returns the sign-in URL, derived from the API base URL when
// not configured explicitly.
func (c *Config) SigninEndpoint() string {
	if c.API.SigninURL != "" {
		return c.API.SigninURL
	}
	return strings.TrimRight(c.API.BaseURL, "/") + "/users/signin"
}

// RequestTimeout returns the per-request timeout for catalog API calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// SessionMaxAge returns how long session-scoped values are retained.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultRuntimeDir() string {
	if base, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "filmdesk")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("filmdesk-%d", os.Getuid()))
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
