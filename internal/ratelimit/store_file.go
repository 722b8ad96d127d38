package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// FileStore persists the record set as a single JSON document. An OS file
// lock is held for the whole read-modify-write, so concurrent processes
// cannot lose increments.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore constructs a Store persisting to the given path. The lock
// file lives next to the data file.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// fileRecord is the on-disk shape, kept compatible with the historical
// store: one attempt counter and a unix-seconds window anchor per IP.
type fileRecord struct {
	Count       int   `json:"contador"`
	WindowStart int64 `json:"tiempo"`
}

// Update applies fn to the persisted record set under the file lock.
func (s *FileStore) Update(ctx context.Context, fn func(records map[string]Record) error) error {
	// The lock file lives next to the data file, so the directory must
	// exist before the lock can be created.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create rate limit store directory: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire rate limit lock: %w", err)
	}
	if !locked {
		return errors.New("rate limit lock not acquired")
	}
	defer s.lock.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(records); err != nil {
		return err
	}

	return s.save(records)
}

func (s *FileStore) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rate limit store: %w", err)
	}

	raw := make(map[string]fileRecord)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode rate limit store: %w", err)
		}
	}

	records := make(map[string]Record, len(raw))
	for id, r := range raw {
		records[id] = Record{Count: r.Count, WindowStart: time.Unix(r.WindowStart, 0)}
	}
	return records, nil
}

func (s *FileStore) save(records map[string]Record) error {
	raw := make(map[string]fileRecord, len(records))
	for id, r := range records {
		raw[id] = fileRecord{Count: r.Count, WindowStart: r.WindowStart.Unix()}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode rate limit store: %w", err)
	}

	// Write-then-rename keeps readers from observing a torn document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write rate limit store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace rate limit store: %w", err)
	}
	return nil
}
