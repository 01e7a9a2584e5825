package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"filmdesk/internal/catalog"
	"filmdesk/internal/config"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
	"filmdesk/internal/notifications"
	"filmdesk/internal/services"
	"filmdesk/internal/session"
)

type commandContext struct {
	configFlag *string
	langFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, langFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		langFlag:   langFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.langFlag != nil {
			if lang := strings.TrimSpace(*c.langFlag); lang != "" {
				cfg.Locale.Language = lang
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// workspace bundles the collaborators a command needs for one invocation.
type workspace struct {
	cfg      *config.Config
	text     *messages.Catalog
	logger   *slog.Logger
	store    *session.SQLiteStore
	gate     *session.Gate
	client   *catalog.Client
	notifier notifications.Service
}

// gateTokens defers token lookup to the gate, which is built after the
// client it authenticates with.
type gateTokens struct {
	gate *session.Gate
}

func (t *gateTokens) Token() string {
	if t.gate == nil {
		return ""
	}
	return t.gate.Token()
}

func (c *commandContext) withWorkspace(cmd *cobra.Command, fn func(*workspace) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	sessionID, err := session.ResolveID(cfg.SessionFilePath())
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg, sessionID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	store, err := session.OpenSQLite(cmd.Context(), cfg.StatePath(), cfg.SessionMaxAge())
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	tokens := &gateTokens{}
	client, err := catalog.New(cfg.API.BaseURL,
		catalog.WithTimeout(cfg.RequestTimeout()),
		catalog.WithRateLimit(cfg.API.RequestsPerSecond),
		catalog.WithTokenSource(tokens),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	tokens.gate = session.NewGate(cfg, store, sessionID, client, logger)

	return fn(&workspace{
		cfg:      cfg,
		text:     messages.New(cfg.Locale.Language),
		logger:   logger,
		store:    store,
		gate:     tokens.gate,
		client:   client,
		notifier: notifications.NewService(cfg),
	})
}

// requireAccess refuses to continue unless the gate grants dashboard access.
func (w *workspace) requireAccess(ctx context.Context) (session.Access, error) {
	access, err := w.gate.Init(ctx)
	if err != nil {
		return session.AccessNone, err
	}
	if !access.Granted() {
		return access, &accessError{message: w.text.Text(messages.AccessRequired)}
	}
	return access, nil
}

type accessError struct {
	message string
}

func (e *accessError) Error() string {
	return e.message + " (run `filmdesk login`)"
}

func (e *accessError) Unwrap() error {
	return services.ErrAccessDenied
}

func isAccessDenied(err error) bool {
	return errors.Is(err, services.ErrAccessDenied)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
