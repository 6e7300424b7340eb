package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/legalscan/legalscan/internal/config"
	"github.com/legalscan/legalscan/internal/model"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [site-url]" {
			t.Errorf("expected use 'crawl [site-url]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"timeout", "types", "max-per-type", "concurrency",
			"session-timeout", "force-refresh", "user", "admins",
			"fallback-limit", "config", "json", "markdown", "output", "db-dir",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig: %v", err)
		}

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
		}
		if cfg.MaxPerType != config.DefaultMaxPerType {
			t.Errorf("MaxPerType = %d, want %d", cfg.MaxPerType, config.DefaultMaxPerType)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "example.com" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
		if cfg.UserID != "cli" {
			t.Errorf("UserID = %q, want %q", cfg.UserID, "cli")
		}
		if cfg.ForceRefresh {
			t.Error("ForceRefresh should default to false")
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{
			"--timeout", "10s",
			"--types", "privacy,tos",
			"--user", "alice",
			"--force-refresh",
			"--json",
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig: %v", err)
		}

		if cfg.Timeout.Seconds() != 10 {
			t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
		}
		if len(cfg.DocumentTypes) != 2 {
			t.Errorf("DocumentTypes = %v, want 2 entries", cfg.DocumentTypes)
		}
		if cfg.UserID != "alice" {
			t.Errorf("UserID = %q, want %q", cfg.UserID, "alice")
		}
		if !cfg.ForceRefresh {
			t.Error("expected ForceRefresh true")
		}
		if !cfg.JSONReport {
			t.Error("expected JSONReport true")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/config.yaml"}); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, []string{"example.com"})
		if err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("validation catches conflicting formats", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig: %v", err)
		}
		if err := cfg.Validate(); !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("Validate() = %v, want ErrConflictingReportFormats", err)
		}
	})
}

// TestParseDocumentTypes tests document type flag parsing.
func TestParseDocumentTypes(t *testing.T) {
	t.Parallel()

	t.Run("valid types", func(t *testing.T) {
		t.Parallel()

		types, err := parseDocumentTypes([]string{"privacy", "tos"})
		if err != nil {
			t.Fatalf("parseDocumentTypes: %v", err)
		}
		if len(types) != 2 || types[0] != model.DocTypePrivacy || types[1] != model.DocTypeTOS {
			t.Errorf("unexpected types: %v", types)
		}
	})

	t.Run("empty means all", func(t *testing.T) {
		t.Parallel()

		types, err := parseDocumentTypes(nil)
		if err != nil {
			t.Fatalf("parseDocumentTypes: %v", err)
		}
		if len(types) != 0 {
			t.Errorf("expected empty slice, got %v", types)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := parseDocumentTypes([]string{"newsletter"})
		if err == nil {
			t.Fatal("expected error for unknown type")
		}
		if !strings.Contains(err.Error(), "newsletter") {
			t.Errorf("error should name the bad type: %v", err)
		}
	})
}
