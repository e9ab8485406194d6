package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Name: "adzuna app id", Value: "  my-id  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "my-id" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	secret, err := Load(Source{Name: "adzuna app key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("expected file content to win, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "adzuna app id"}); err == nil {
		t.Fatal("expected error for unconfigured secret")
	} else if !strings.Contains(err.Error(), "adzuna app id") {
		t.Fatalf("expected the secret name in the error, got %v", err)
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for unreadable file")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(Source{Name: "token", File: empty}); err == nil {
		t.Fatal("expected error for empty secret file")
	}
}
