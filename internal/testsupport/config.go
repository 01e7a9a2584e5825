package testsupport

import (
	"path/filepath"
	"testing"

	"filmdesk/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.API.BaseURL = "http://127.0.0.1:0/api"
	cfgVal.API.RequestsPerSecond = 1000
	cfgVal.Session.StateDir = filepath.Join(base, "state")
	cfgVal.Session.RuntimeDir = filepath.Join(base, "run")
	cfgVal.Logging.Dir = ""
	cfgVal.Locale.Language = "en"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPI points the config at a fake API server.
func WithAPI(api *FakeAPI) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = api.BaseURL()
	}
}

// WithLanguage overrides the message language.
func WithLanguage(lang string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Locale.Language = lang
	}
}

// WithResetOnEditFailure toggles draft reset after a failed update.
func WithResetOnEditFailure(reset bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Form.ResetOnEditFailure = reset
	}
}

// WithLogDir enables file logging under the test's base directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Session.StateDir)
}
