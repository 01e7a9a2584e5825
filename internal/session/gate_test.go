package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filmdesk/internal/catalog"
	"filmdesk/internal/services"
	"filmdesk/internal/session"
	"filmdesk/internal/testsupport"
)

type gateFixture struct {
	api   *testsupport.FakeAPI
	store *session.SQLiteStore
	gate  *session.Gate
}

func newGateFixture(t *testing.T, opts ...testsupport.ConfigOption) gateFixture {
	t.Helper()
	api := testsupport.NewFakeAPI(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithAPI(api)}, opts...)...)
	cfg.API.SigninURL = api.SigninURL()
	store := testsupport.MustOpenStore(t, cfg)
	client, err := catalog.New(cfg.API.BaseURL, catalog.WithRateLimit(cfg.API.RequestsPerSecond))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return gateFixture{
		api:   api,
		store: store,
		gate:  session.NewGate(cfg, store, "session-a", client, nil),
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "u1"})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestInitWithoutStateDeniesAccess(t *testing.T) {
	f := newGateFixture(t)
	access, err := f.gate.Init(context.Background())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if access.Granted() || access != session.AccessNone {
		t.Fatalf("access = %v, want none", access)
	}
}

func TestInitGrantsPrivilegedProfile(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		user  string
		token string
		want  session.Access
	}{
		{name: "admin opaque token", user: `{"role":"admin"}`, token: "opaque", want: session.AccessProfile},
		{name: "publisher live jwt", user: `{"role":"Publisher"}`, token: signedToken(t, time.Now().Add(time.Hour)), want: session.AccessProfile},
		{name: "expired jwt", user: `{"role":"admin"}`, token: signedToken(t, time.Now().Add(-time.Hour)), want: session.AccessNone},
		{name: "viewer role", user: `{"role":"viewer"}`, token: "opaque", want: session.AccessNone},
		{name: "missing token", user: `{"role":"admin"}`, token: "", want: session.AccessNone},
		{name: "unreadable user", user: `not json`, token: "opaque", want: session.AccessNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newGateFixture(t)
			if err := f.store.SetLocal(ctx, session.KeyUser, tc.user); err != nil {
				t.Fatalf("SetLocal user: %v", err)
			}
			if tc.token != "" {
				if err := f.store.SetLocal(ctx, session.KeyLocalToken, tc.token); err != nil {
					t.Fatalf("SetLocal token: %v", err)
				}
			}
			access, err := f.gate.Init(ctx)
			if err != nil {
				t.Fatalf("Init: %v", err)
			}
			if access != tc.want {
				t.Fatalf("access = %v, want %v", access, tc.want)
			}
		})
	}
}

func TestInitGrantsSessionFlag(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	if err := f.store.SetSession(ctx, "session-a", session.KeyVerified, "true"); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	access, err := f.gate.Init(ctx)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if access != session.AccessSession {
		t.Fatalf("access = %v, want session", access)
	}
}

func TestSignInGrantsAccessAndStoresToken(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	f.api.AddAccount("ed@example.com", testsupport.Account{Password: "pw", Token: "tok-1", Role: "admin"})

	if err := f.gate.SignIn(ctx, session.Credentials{Email: " ed@example.com ", Password: "pw"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	calls := f.api.CallsTo("POST /users/signin")
	if len(calls) != 1 {
		t.Fatalf("expected one sign-in call, got %d", len(calls))
	}
	if calls[0].JSON["email"] != "ed@example.com" || calls[0].JSON["password"] != "pw" {
		t.Fatalf("unexpected sign-in body: %v", calls[0].JSON)
	}

	access, err := f.gate.Init(ctx)
	if err != nil || access != session.AccessSession {
		t.Fatalf("Init after sign-in = %v, %v", access, err)
	}
	if got := f.gate.Token(); got != "tok-1" {
		t.Fatalf("Token() = %q", got)
	}
	if _, found, _ := f.store.GetLocal(ctx, session.KeyUser); found {
		t.Fatal("user must not be remembered without Remember")
	}
}

func TestSignInRememberStoresProfile(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	f.api.AddAccount("ed@example.com", testsupport.Account{Password: "pw", Token: "tok-2", Role: "publisher"})

	if err := f.gate.SignIn(ctx, session.Credentials{Email: "ed@example.com", Password: "pw", Remember: true}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := f.gate.SignOut(ctx, false); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	access, err := f.gate.Init(ctx)
	if err != nil || access != session.AccessProfile {
		t.Fatalf("Init after sign-out = %v, %v", access, err)
	}
	user, err := f.gate.User(ctx)
	if err != nil || user == nil || user.Email != "ed@example.com" || user.Role != "publisher" {
		t.Fatalf("User() = %+v, %v", user, err)
	}
	if got := f.gate.Token(); got != "tok-2" {
		t.Fatalf("Token() falls back to local token, got %q", got)
	}

	if err := f.gate.SignOut(ctx, true); err != nil {
		t.Fatalf("SignOut forget: %v", err)
	}
	access, _ = f.gate.Init(ctx)
	if access != session.AccessNone {
		t.Fatalf("access after forget = %v", access)
	}
}

func TestSignInRefusalMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		lang    string
		message string
	}{
		{name: "server message", status: http.StatusUnauthorized, body: `{"message":"wrong password"}`, lang: "en", message: "wrong password"},
		{name: "json without message", status: http.StatusUnauthorized, body: `{"error":true}`, lang: "en", message: "Sign-in failed"},
		{name: "plain text body", status: http.StatusBadGateway, body: "upstream down", lang: "en", message: "upstream down"},
		{name: "empty body", status: http.StatusInternalServerError, body: "", lang: "en", message: "Sign-in failed (unexpected error)"},
		{name: "empty body arabic", status: http.StatusInternalServerError, body: "", lang: "ar", message: "فشل تسجيل الدخول (خطأ غير متوقع)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newGateFixture(t, testsupport.WithLanguage(tc.lang))
			f.api.FailNext("POST /users/signin", tc.status, tc.body)

			err := f.gate.SignIn(ctx, session.Credentials{Email: "a@b.c", Password: "x"})
			var authErr *session.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Message != tc.message {
				t.Fatalf("message = %q, want %q", authErr.Message, tc.message)
			}
			if !errors.Is(err, services.ErrAuth) {
				t.Fatalf("expected ErrAuth marker, got %v", err)
			}
			access, _ := f.gate.Init(ctx)
			if access.Granted() {
				t.Fatal("refused sign-in must not grant access")
			}
		})
	}
}

func TestSignInNetworkFailureReportsInvalidCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.API.SigninURL = "http://127.0.0.1:1/api/users/signin"
	store := testsupport.MustOpenStore(t, cfg)
	client, err := catalog.New(cfg.API.BaseURL, catalog.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	gate := session.NewGate(cfg, store, "s", client, nil)

	err = gate.SignIn(context.Background(), session.Credentials{Email: "a@b.c", Password: "x"})
	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Message != "Invalid email or password" {
		t.Fatalf("message = %q", authErr.Message)
	}
}

func TestTokenFallsBackToConfiguredToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.API.Token = "from-config"
	store := testsupport.MustOpenStore(t, cfg)
	gate := session.NewGate(cfg, store, "s", nil, nil)
	if got := gate.Token(); got != "from-config" {
		t.Fatalf("Token() = %q", got)
	}
}
