package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/fisacferrandez/contactform/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		LandingURL:     "/contacto.html",
		RecipientEmail: "info@example.com",
		CompanyName:    "Clínica de prueba",
		FromAddress:    "noreply@example.com",
		LogDir:         dir,
		MaxAttempts:    5,
		LockoutWindow:  time.Hour,
		MinFormTime:    3 * time.Second,
		RequiredFields: []string{"nombre", "email"},
		RateStore:      config.StoreMemory,
	}
}

func TestBuildDependenciesMemoryStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps, cleanup, err := buildDependencies(context.Background(), testConfig(t), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleanup == nil {
		t.Fatal("expected cleanup function")
	}
	defer cleanup()

	if deps.Processor == nil {
		t.Fatal("expected submission processor to be configured")
	}
	if deps.Tokens == nil {
		t.Fatal("expected token issuer to be configured")
	}
	if deps.Audit == nil {
		t.Fatal("expected audit logger to be configured")
	}
	if deps.LandingURL != "/contacto.html" {
		t.Fatalf("unexpected landing URL %q", deps.LandingURL)
	}
}

func TestBuildDependenciesFileStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t)
	cfg.RateStore = config.StoreFile
	cfg.RateStorePath = filepath.Join(t.TempDir(), "rate_limit.json")

	deps, cleanup, err := buildDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if deps.Processor == nil {
		t.Fatal("expected submission processor to be configured")
	}
}

func TestBuildDependenciesRejectsUnknownStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t)
	cfg.RateStore = "etcd"

	if _, _, err := buildDependencies(context.Background(), cfg, logger); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}
