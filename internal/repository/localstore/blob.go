// Package localstore persists application state as flat files under a data
// directory. It stands in for the browser's local storage: one blob per
// well-known key, whole-value reads and writes.
package localstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"medidoc/internal/domain"
	"medidoc/internal/domain/repositories"
)

const lockRetryDelay = 100 * time.Millisecond

// BlobRepository stores each key as a file in dir, guarded by an advisory
// file lock so a second process cannot interleave partial writes.
type BlobRepository struct {
	dir      string
	fileLock *flock.Flock
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewBlobRepository creates the data directory if needed and returns a
// repository rooted there.
func NewBlobRepository(dir string, logger *slog.Logger) (*BlobRepository, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &domain.PersistenceError{Message: "create data directory", Err: err}
	}

	return &BlobRepository{
		dir:      dir,
		fileLock: flock.New(filepath.Join(dir, ".lock")),
		logger:   logger,
	}, nil
}

var _ repositories.BlobRepository = (*BlobRepository)(nil)

// Load returns the blob stored under key, or ok=false if it was never written.
func (r *BlobRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	path, err := r.keyPath(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &domain.PersistenceError{Message: "read blob " + key, Err: err}
	}

	return data, true, nil
}

// Save replaces the blob under key. The write goes to a temp file in the
// same directory followed by a rename, so readers never see a torn blob.
func (r *BlobRepository) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	path, err := r.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, key+".tmp-*")
	if err != nil {
		return &domain.PersistenceError{Message: "create temp file", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.PersistenceError{Message: "write blob " + key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Message: "close temp file", Err: err}
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Message: "chmod temp file", Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Message: "replace blob " + key, Err: err}
	}

	r.logger.Debug("blob saved", "key", key, "bytes", len(data))
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (r *BlobRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	path, err := r.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &domain.PersistenceError{Message: "delete blob " + key, Err: err}
	}
	return nil
}

// acquireLock takes the advisory file lock, bounded by a short timeout so a
// stale lock from a crashed process surfaces as an error instead of a hang.
func (r *BlobRepository) acquireLock(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, 3*time.Second)

	locked, err := r.fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		cancel()
		return nil, &domain.PersistenceError{Message: "acquire file lock", Err: err}
	}
	if !locked {
		cancel()
		return nil, &domain.PersistenceError{Message: "could not acquire file lock"}
	}

	return func() {
		_ = r.fileLock.Unlock()
		cancel()
	}, nil
}

// keyPath maps a key to its backing file. Keys are identifiers, not paths;
// anything resembling traversal is rejected.
func (r *BlobRepository) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", &domain.PersistenceError{Message: fmt.Sprintf("invalid blob key %q", key)}
	}
	return filepath.Join(r.dir, key), nil
}
