package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"promptdeck/internal/apikey"
)

func setupSQLiteEnv(t *testing.T) (downloadDir string) {
	t.Helper()
	dir := t.TempDir()
	downloadDir = filepath.Join(dir, "downloads")
	t.Setenv("BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "promptdeck.db"))
	t.Setenv("DOWNLOAD_DIR", downloadDir)
	t.Setenv("DESCRIPTION_MODE", "required")
	t.Setenv("REQUEST_TIMEOUT", "")
	return downloadDir
}

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_SQLiteLifecycle(t *testing.T) {
	downloadDir := setupSQLiteEnv(t)

	out, err := execute(t, "", "categories")
	if err != nil {
		t.Fatalf("categories: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Coding") || !strings.Contains(out, "Midjourney") {
		t.Fatalf("expected seeded categories, got:\n%s", out)
	}

	out, err = execute(t, "", "submit",
		"--title", "Bug hunt",
		"--description", "Find bugs",
		"--text", "Find the bug in this code",
		"--category", "coding",
	)
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}
	m := regexp.MustCompile(`Created prompt #(\d+)`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected created id, got:\n%s", out)
	}
	promptID := m[1]
	if !strings.Contains(out, "Prompt submitted!") {
		t.Errorf("expected submit notification, got:\n%s", out)
	}

	out, err = execute(t, "", "prompts", "Coding", "--search", "BUG")
	if err != nil {
		t.Fatalf("prompts: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Bug hunt") {
		t.Errorf("expected the new prompt, got:\n%s", out)
	}

	out, err = execute(t, "", "search", "the bug")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if !strings.Contains(out, "in Coding") {
		t.Errorf("expected search hit, got:\n%s", out)
	}

	out, err = execute(t, "", "show", promptID)
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Find the bug in this code") {
		t.Errorf("expected prompt text, got:\n%s", out)
	}

	if out, err = execute(t, "", "download", promptID); err != nil {
		t.Fatalf("download: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(downloadDir, "Bug_hunt.txt")); err != nil {
		t.Errorf("expected Bug_hunt.txt: %v", err)
	}

	out, err = execute(t, "n\n", "delete", promptID)
	if err != nil {
		t.Fatalf("delete (declined): %v\n%s", err, out)
	}
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("expected cancellation, got:\n%s", out)
	}

	if out, err = execute(t, "", "delete", "--yes", promptID); err != nil {
		t.Fatalf("delete: %v\n%s", err, out)
	}

	out, err = execute(t, "", "show", promptID)
	if err == nil {
		t.Fatalf("expected show of a deleted prompt to fail, got:\n%s", out)
	}
}

func TestRootCmd_SubmitMissingFields(t *testing.T) {
	setupSQLiteEnv(t)

	out, err := execute(t, "", "submit", "--title", "Half done", "--category", "Art")
	if !AlreadyShown(err) {
		t.Fatalf("expected a shown validation error, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "Missing fields") {
		t.Errorf("expected missing fields notification, got:\n%s", out)
	}
}

func TestRootCmd_Shell(t *testing.T) {
	setupSQLiteEnv(t)

	out, err := execute(t, "cd Art\nls\ncd ..\nls\nexit\n")
	if err != nil {
		t.Fatalf("shell: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No prompts found.") {
		t.Errorf("expected empty Art list, got:\n%s", out)
	}
	if !strings.Contains(out, "Storytelling") {
		t.Errorf("expected the category grid, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "Bye!\n") {
		t.Errorf("expected goodbye, got:\n%s", out)
	}
}

func TestRootCmd_InvalidBackend(t *testing.T) {
	t.Setenv("BACKEND", "mongo")

	if _, err := execute(t, "", "categories"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestKeygenCmd(t *testing.T) {
	out, err := execute(t, "", "keygen", "--secret", "dev-secret", "--role", "service_role")
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	claims, err := apikey.Verify(strings.TrimSpace(out), []byte("dev-secret"))
	if err != nil {
		t.Fatalf("generated key does not verify: %v", err)
	}
	if claims.Role != apikey.RoleServiceRole || claims.Ref != "local" {
		t.Errorf("unexpected claims %+v", claims)
	}

	t.Setenv("JWT_SECRET", "")
	if _, err := execute(t, "", "keygen"); err == nil {
		t.Error("expected an error without a secret")
	}

	if _, err := execute(t, "", "keygen", "--secret", "s", "--role", "admin"); err == nil {
		t.Error("expected an error for an unknown role")
	}
}
