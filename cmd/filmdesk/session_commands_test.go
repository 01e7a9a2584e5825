package main

import (
	"encoding/json"
	"testing"

	"filmdesk/internal/services"
	"filmdesk/internal/testsupport"
)

func TestLoginGrantsSessionAccess(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "session", "--json")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	var before sessionJSON
	if err := json.Unmarshal([]byte(out), &before); err != nil {
		t.Fatalf("decode session json: %v\n%s", err, out)
	}
	if before.Granted || before.Access != "none" {
		t.Fatalf("expected no access before login, got %+v", before)
	}
	if before.SessionID != "cli-test-session" {
		t.Fatalf("unexpected session id %q", before.SessionID)
	}

	out, _, err = env.run(t, "login", "--email", testEmail, "--password", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Signed in")

	out, _, err = env.run(t, "session", "--json")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	var after sessionJSON
	if err := json.Unmarshal([]byte(out), &after); err != nil {
		t.Fatalf("decode session json: %v\n%s", err, out)
	}
	if !after.Granted || after.Access != "session" || !after.Token {
		t.Fatalf("expected session access with token, got %+v", after)
	}
	if after.Email != "" {
		t.Fatalf("user should not be remembered without --remember, got %q", after.Email)
	}

	out, _, err = env.run(t, "login")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	requireContains(t, out, "already signed in (session)")
	if got := len(env.api.CallsTo("POST /users/signin")); got != 1 {
		t.Fatalf("expected one sign-in call, got %d", got)
	}
}

func TestLoginRefusedShowsServerMessage(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "login", "--email", testEmail, "--password", "wrong")
	if err == nil {
		t.Fatal("expected sign-in refusal")
	}
	if !isAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	requireContains(t, out, "invalid credentials")

	out, _, err = env.run(t, "session")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	requireContains(t, out, "Sign in to access the dashboard")
}

func TestLoginReadsCredentialsFromEnvironment(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("FILMDESK_EMAIL", testEmail)
	t.Setenv("FILMDESK_PASSWORD", testPassword)

	out, _, err := env.run(t, "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Signed in")
	calls := env.api.CallsTo("POST /users/signin")
	if len(calls) != 1 || calls[0].JSON["email"] != testEmail {
		t.Fatalf("unexpected sign-in calls: %+v", calls)
	}
}

func TestLoginWithoutCredentialsFailsWhenNotInteractive(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "login", "--email", testEmail)
	if err == nil {
		t.Fatal("expected missing password error")
	}
	requireContains(t, err.Error(), "email and password required")
	if got := len(env.api.Calls()); got != 0 {
		t.Fatalf("expected no API calls, got %d", got)
	}
}

func TestRememberedProfileSurvivesLogoutUntilForgotten(t *testing.T) {
	env := setupCLITestEnv(t)
	env.api.AddAccount("admin@example.com", testsupport.Account{Password: "pw", Token: "tok-admin", Role: "admin"})

	if _, _, err := env.run(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, _, err := env.run(t, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	requireContains(t, out, "session cleared")

	out, _, err = env.run(t, "session", "--json")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	var view sessionJSON
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Access != "profile" || view.Email != "admin@example.com" || view.Role != "admin" {
		t.Fatalf("expected remembered admin profile, got %+v", view)
	}

	if _, _, err := env.run(t, "logout", "--forget"); err != nil {
		t.Fatalf("logout --forget: %v", err)
	}
	out, _, err = env.run(t, "session", "--json")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	view = sessionJSON{}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Granted || view.Email != "" || view.Token {
		t.Fatalf("expected everything forgotten, got %+v", view)
	}
}

func isAuthFailure(err error) bool {
	return services.Kind(err) == "auth"
}
