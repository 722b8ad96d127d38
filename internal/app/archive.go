package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fisacferrandez/contactform/internal/audit"
	"github.com/fisacferrandez/contactform/internal/config"
	"github.com/fisacferrandez/contactform/internal/storage"
)

// runArchive uploads the current audit log to the configured object store
// and truncates the local copy, rotating the trail off the host.
func runArchive(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logPath := audit.New(cfg.LogDir, logger).Path()

	file, err := os.Open(logPath)
	if os.IsNotExist(err) {
		fmt.Println("no audit log to archive")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat audit log: %w", err)
	}
	if info.Size() == 0 {
		fmt.Println("audit log is empty, nothing to archive")
		return nil
	}

	archive, err := storage.NewS3Archive(ctx, cfg.ObjectStore)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("audit/%s-%s", time.Now().UTC().Format("20060102T150405"), filepath.Base(logPath))
	location, err := archive.Save(ctx, name, file)
	if err != nil {
		return err
	}

	if err := os.Truncate(logPath, 0); err != nil {
		return fmt.Errorf("truncate audit log after archive: %w", err)
	}

	fmt.Printf("archived audit log to %s\n", location)
	return nil
}
