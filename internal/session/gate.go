package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filmdesk/internal/catalog"
	"filmdesk/internal/config"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
	"filmdesk/internal/services"
)

// Storage keys shared with the web dashboard.
const (
	KeyVerified   = "dashboardVerified"
	KeyToken      = "dashboardToken"
	KeyUser       = "user"
	KeyLocalToken = "token"
)

// Access describes how dashboard access was granted.
type Access int

const (
	AccessNone Access = iota
	AccessProfile
	AccessSession
)

// Granted reports whether the operator may use the dashboard.
func (a Access) Granted() bool {
	return a != AccessNone
}

func (a Access) String() string {
	switch a {
	case AccessProfile:
		return "profile"
	case AccessSession:
		return "session"
	default:
		return "none"
	}
}

// Credentials is the input of the sign-in challenge.
type Credentials struct {
	Email    string
	Password string
	// Remember also stores the returned user and token in the local scope.
	Remember bool
}

// User is the subset of the remembered user record the gate inspects.
type User struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// AuthError carries the operator-facing reason a sign-in was refused.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrAuth}
	}
	return []error{services.ErrAuth, e.Err}
}

// Authenticator performs the credential exchange.
type Authenticator interface {
	SignIn(ctx context.Context, signinURL, email, password string) (*catalog.SigninResponse, error)
}

// Gate evaluates and grants dashboard access.
type Gate struct {
	store      Store
	sessionID  string
	auth       Authenticator
	signinURL  string
	fallback   string
	privileged []string
	text       *messages.Catalog
	logger     *slog.Logger
	now        func() time.Time
}

// NewGate builds a gate for sessionID backed by store.
func NewGate(cfg *config.Config, store Store, sessionID string, auth Authenticator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{
		store:      store,
		sessionID:  sessionID,
		auth:       auth,
		signinURL:  cfg.SigninEndpoint(),
		fallback:   strings.TrimSpace(cfg.API.Token),
		privileged: cfg.Session.PrivilegedRoles,
		text:       messages.New(cfg.Locale.Language),
		logger:     logging.NewComponentLogger(logger, "session"),
		now:        time.Now,
	}
}

// SessionID returns the id of the session scope the gate writes to.
func (g *Gate) SessionID() string {
	return g.sessionID
}

// Init evaluates the stored state. A remembered privileged user with an
// unexpired token wins over the session flag.
func (g *Gate) Init(ctx context.Context) (Access, error) {
	ok, err := g.profileGranted(ctx)
	if err != nil {
		return AccessNone, err
	}
	if ok {
		return AccessProfile, nil
	}
	flag, found, err := g.store.GetSession(ctx, g.sessionID, KeyVerified)
	if err != nil {
		return AccessNone, services.Wrap(services.ErrTransport, "session", "init", "read access flag", err)
	}
	if found && flag == "true" {
		return AccessSession, nil
	}
	return AccessNone, nil
}

func (g *Gate) profileGranted(ctx context.Context) (bool, error) {
	user, err := g.User(ctx)
	if err != nil || user == nil {
		return false, err
	}
	token, found, err := g.store.GetLocal(ctx, KeyLocalToken)
	if err != nil {
		return false, services.Wrap(services.ErrTransport, "session", "init", "read local token", err)
	}
	if !found || strings.TrimSpace(token) == "" {
		return false, nil
	}
	if !slices.Contains(g.privileged, strings.ToLower(strings.TrimSpace(user.Role))) {
		return false, nil
	}
	if g.tokenExpired(token) {
		g.logger.Info("remembered token expired", logging.String(logging.FieldEventType, "token_expired"))
		return false, nil
	}
	return true, nil
}

// tokenExpired reads the exp claim without verifying the signature. Tokens
// that are not JWTs or carry no exp are treated as live.
func (g *Gate) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(g.now())
}

// User returns the remembered user record, or nil when none is stored or it
// cannot be parsed.
func (g *Gate) User(ctx context.Context) (*User, error) {
	raw, found, err := g.store.GetLocal(ctx, KeyUser)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "session", "user", "read local user", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logging.WarnWithContext(g.logger, "remembered user unreadable", "user_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run filmdesk logout --forget and sign in again"),
			logging.String(logging.FieldImpact, "remembered profile ignored"),
		)
		return nil, nil
	}
	return &user, nil
}

// SignIn runs the credential challenge and records the grant on success.
// Refusals are returned as *AuthError with a localized message.
func (g *Gate) SignIn(ctx context.Context, creds Credentials) error {
	resp, err := g.auth.SignIn(ctx, g.signinURL, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		message := g.refusalMessage(err)
		logging.WarnWithContext(g.logger, "sign-in refused", "signin_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check the email and password"),
			logging.String(logging.FieldImpact, "dashboard access not granted"),
		)
		return &AuthError{Message: message, Err: err}
	}

	if token := strings.TrimSpace(resp.Token); token != "" {
		if err := g.store.SetSession(ctx, g.sessionID, KeyToken, token); err != nil {
			return services.Wrap(services.ErrTransport, "session", "signin", "store session token", err)
		}
	}
	if err := g.store.SetSession(ctx, g.sessionID, KeyVerified, "true"); err != nil {
		return services.Wrap(services.ErrTransport, "session", "signin", "store access flag", err)
	}
	if creds.Remember {
		if err := g.remember(ctx, resp); err != nil {
			return err
		}
	}
	g.logger.Info("sign-in succeeded",
		logging.String(logging.FieldEventType, "signin_succeeded"),
		logging.Bool("remembered", creds.Remember),
	)
	return nil
}

func (g *Gate) remember(ctx context.Context, resp *catalog.SigninResponse) error {
	user := strings.TrimSpace(string(resp.User))
	if user != "" && user != "null" {
		if err := g.store.SetLocal(ctx, KeyUser, user); err != nil {
			return services.Wrap(services.ErrTransport, "session", "signin", "store user", err)
		}
	}
	if token := strings.TrimSpace(resp.Token); token != "" {
		if err := g.store.SetLocal(ctx, KeyLocalToken, token); err != nil {
			return services.Wrap(services.ErrTransport, "session", "signin", "store local token", err)
		}
	}
	return nil
}

// refusalMessage picks the operator-facing text for a failed sign-in: the
// server message, then the raw body, then a localized fallback.
func (g *Gate) refusalMessage(err error) string {
	var apiErr *catalog.APIError
	if !errors.As(err, &apiErr) {
		return g.text.Text(messages.InvalidCredentials)
	}
	switch {
	case apiErr.Message != "":
		return apiErr.Message
	case apiErr.JSON:
		return g.text.Text(messages.SigninFailed)
	case apiErr.Body != "":
		return apiErr.Body
	default:
		return g.text.Text(messages.SigninUnexpected)
	}
}

// Token returns the bearer token for API calls: the session token, then the
// remembered token, then the configured token.
func (g *Gate) Token() string {
	ctx := context.Background()
	if token, found, err := g.store.GetSession(ctx, g.sessionID, KeyToken); err != nil {
		g.logger.Debug("session token lookup failed", logging.Error(err))
	} else if found && token != "" {
		return token
	}
	if token, found, err := g.store.GetLocal(ctx, KeyLocalToken); err != nil {
		g.logger.Debug("local token lookup failed", logging.Error(err))
	} else if found && token != "" {
		return token
	}
	return g.fallback
}

// SignOut clears the session scope. With forget the remembered user and
// token are removed as well.
func (g *Gate) SignOut(ctx context.Context, forget bool) error {
	if err := g.store.ClearSession(ctx, g.sessionID); err != nil {
		return services.Wrap(services.ErrTransport, "session", "signout", "clear session", err)
	}
	if !forget {
		return nil
	}
	for _, key := range []string{KeyUser, KeyLocalToken} {
		if err := g.store.DeleteLocal(ctx, key); err != nil {
			return services.Wrap(services.ErrTransport, "session", "signout", "forget "+key, err)
		}
	}
	return nil
}
