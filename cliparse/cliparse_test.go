// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("PSEUDONYM_SALT", "test-pseudonym")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "@Example.EDU")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.AllowedEmailDomain != "example.edu" {
		t.Errorf("expected normalized domain example.edu, got %s", cfg.AllowedEmailDomain)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-pseudonym-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.AllowedEmailDomain != DefaultEmailDomain {
		t.Errorf("expected default domain, got %s", cfg.AllowedEmailDomain)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "")

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-admin-salt", "s1", "-pseudonym-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "missing database url",
			args: []string{"-admin-salt", "s1", "-pseudonym-salt", "s2"},
		},
		{
			name: "missing admin salt",
			args: []string{"-d", "file:test.db", "-pseudonym-salt", "s2"},
		},
		{
			name: "missing pseudonym salt",
			args: []string{"-d", "file:test.db", "-admin-salt", "s1"},
		},
		{
			name: "bad port env",
			env:  map[string]string{"PORT": "abc"},
			args: []string{"-d", "file:test.db", "-admin-salt", "s1", "-pseudonym-salt", "s2"},
		},
		{
			name: "unknown database type",
			args: []string{"-d", "file:test.db", "-t", "mysql", "-admin-salt", "s1", "-pseudonym-salt", "s2"},
		},
		{
			name: "unknown flag",
			args: []string{"-nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "ADMIN_KEY_SALT", "PSEUDONYM_SALT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PSEUDONYM_SALT=from-file\nADMIN_KEY_SALT=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PSEUDONYM_SALT", "")
	os.Unsetenv("PSEUDONYM_SALT")
	t.Setenv("ADMIN_KEY_SALT", "already-set")

	if err := LoadEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if got := os.Getenv("PSEUDONYM_SALT"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	// godotenv.Load never overrides existing variables
	if got := os.Getenv("ADMIN_KEY_SALT"); got != "already-set" {
		t.Errorf("expected existing value kept, got %q", got)
	}
}
