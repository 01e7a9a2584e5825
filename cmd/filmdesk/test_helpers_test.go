package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmdesk/internal/config"
	"filmdesk/internal/session"
	"filmdesk/internal/testsupport"
)

const (
	testEmail    = "editor@example.com"
	testPassword = "hunter2"
)

type cliTestEnv struct {
	api        *testsupport.FakeAPI
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(session.IDEnv, "cli-test-session")
	for _, name := range []string{
		"FILMDESK_API_URL", "FILMDESK_SIGNIN_URL", "FILMDESK_API_TOKEN", "FILMDESK_LANG",
		"FILMDESK_STATE_DIR", "FILMDESK_NTFY_TOPIC", "FILMDESK_LOG_LEVEL",
		"FILMDESK_EMAIL", "FILMDESK_PASSWORD",
	} {
		t.Setenv(name, "")
	}

	api := testsupport.NewFakeAPI(t)
	api.AddAccount(testEmail, testsupport.Account{Password: testPassword, Token: "tok-editor", Role: "editor"})
	cfg := testsupport.NewConfig(t, testsupport.WithAPI(api))

	configPath := filepath.Join(base, "filmdesk.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		api:        api,
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

func (e *cliTestEnv) login(t *testing.T) {
	t.Helper()
	out, _, err := e.run(t, "login", "--email", testEmail, "--password", testPassword)
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[api]
base_url = %q
requests_per_second = 1000

[session]
state_dir = %q
runtime_dir = %q

[locale]
language = %q

[logging]
dir = ""
level = "error"
`,
		cfg.API.BaseURL,
		cfg.Session.StateDir,
		cfg.Session.RuntimeDir,
		cfg.Locale.Language,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
