// Package audit provides the append-only security event log. Entries are
// best effort: a full disk or bad permissions must never break submission
// processing, so write failures are only reported to the structured logger.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger appends timestamped, IP-tagged lines to a log file.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Logger writing to dir/eventos.log. The directory is
// created lazily on first write.
func New(dir string, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		path:   filepath.Join(dir, "eventos.log"),
		logger: logger,
		now:    time.Now,
	}
}

// Record appends one event line tagged with the client identity.
func (l *Logger) Record(identity, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] IP: %s - %s\n", l.now().Format(timeLayout), identity, message)
	if err := l.append(line); err != nil {
		l.logger.Warn("audit log write failed", "error", err, "path", l.path)
	}
}

func (l *Logger) append(line string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}

// Path returns the location of the log file, for archival.
func (l *Logger) Path() string {
	return l.path
}

// WithNowFunc allows tests to override the time source.
func (l *Logger) WithNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
