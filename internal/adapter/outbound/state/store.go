// Package state persists console key/value state in a single JSON file.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/snapbook/opsconsole/internal/domain/session"
)

var _ session.Persistence = (*FileStore)(nil)

// FileStore keeps the session keys in a JSON file.
// Writes are atomic (write-tmp-then-rename), keep one backup, and are
// serialized by a mutex in-process and flock across processes, so the CLI and
// a running console can share the file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given file path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load returns the value stored under key.
func (s *FileStore) Load(_ context.Context, key string) (string, bool, error) {
	contents, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := contents.Values[key]
	return v, ok, nil
}

// Save merges values into the file.
func (s *FileStore) Save(_ context.Context, values map[string]string) error {
	return s.mutate(func(c *fileContents) {
		for k, v := range values {
			c.Values[k] = v
		}
	})
}

// Remove deletes keys from the file. Removing from a missing file is a no-op.
func (s *FileStore) Remove(_ context.Context, keys ...string) error {
	if !s.Exists() {
		return nil
	}
	return s.mutate(func(c *fileContents) {
		for _, k := range keys {
			delete(c.Values, k)
		}
	})
}

// read parses the file. A missing file reads as empty.
// Warns if the file has permissions more open than 0600.
func (s *FileStore) read() (*fileContents, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyContents(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	// Unix permission bits are not meaningful on Windows.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode := info.Mode().Perm()
			if mode&0077 != 0 {
				s.logger.Warn("state file has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if contents.Values == nil {
		contents.Values = make(map[string]string)
	}
	return &contents, nil
}

// mutate applies fn to the current contents and writes the result.
//
// The write sequence is:
//  1. Acquire in-process mutex
//  2. Acquire flock on path+".lock"
//  3. Read current contents (a corrupt file is replaced, its bytes kept in .bak)
//  4. Copy current file to path+".bak"
//  5. Write path+".tmp" with 0600, fsync, rename over path
//  6. Release flock and mutex
func (s *FileStore) mutate(fn func(*fileContents)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	contents, err := s.read()
	if err != nil {
		s.logger.Warn("replacing unreadable state file", "path", s.path, "error", err)
		contents = emptyContents()
	}

	if currentData, readErr := os.ReadFile(s.path); readErr == nil {
		if writeErr := os.WriteFile(s.path+".bak", currentData, 0600); writeErr != nil {
			s.logger.Warn("failed to create backup", "error", writeErr)
		}
	}

	fn(contents)
	contents.Version = fileVersion
	contents.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	if err := os.Chmod(s.path, 0600); err != nil {
		s.logger.Warn("failed to set permissions on state file", "error", err)
	}

	s.logger.Debug("state saved", "path", s.path)
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it
// over the target path. On any error the temp file is cleaned up.
func (s *FileStore) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp to state: %w", err)
	}
	return nil
}

// Exists returns true if the state file exists on disk.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the configured file path.
func (s *FileStore) Path() string {
	return s.path
}

func emptyContents() *fileContents {
	return &fileContents{
		Version: fileVersion,
		Values:  make(map[string]string),
	}
}
