package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  inline-secret  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if secret != "inline-secret" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	secret, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if secret != "file-secret" {
		t.Fatalf("expected file secret, got %q", secret)
	}
}

func TestLoadFilePrecedesValueAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	t.Setenv("LOADER_TEST_KEY", "from-env")

	secret, err := Load(Source{
		Name:  "api key",
		Value: "from-value",
		File:  path,
		Env:   "LOADER_TEST_KEY",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("file must take precedence, got %q", secret)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("LOADER_TEST_KEY", "  env-secret  ")

	secret, err := Load(Source{Name: "api key", Env: "LOADER_TEST_KEY"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if secret != "env-secret" {
		t.Fatalf("expected env secret, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil {
		t.Fatal("expected error for empty source")
	}

	if _, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}
	if _, err := Load(Source{Name: "api key", File: empty}); err == nil {
		t.Fatal("expected error for empty secret file")
	}

	t.Setenv("LOADER_TEST_UNSET", "")
	_, err := Load(Source{Name: "api key", Env: "LOADER_TEST_UNSET"})
	if err == nil {
		t.Fatal("expected error for unset env variable")
	}
	if !strings.Contains(err.Error(), "LOADER_TEST_UNSET") {
		t.Fatalf("error must name the env variable, got %v", err)
	}
}
