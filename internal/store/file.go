package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

var validFileKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// File stores each key as <dir>/<key>.json. Writes go to a temp file that is
// renamed over the target, so a crash never leaves a half-written record.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates dir if needed and returns a Store rooted there.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewFile: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) (string, error) {
	if !validFileKey.MatchString(key) {
		return "", fmt.Errorf("store.File: invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store.File.Get %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.File.Get %s: %w", key, err)
	}
	return b, nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("store.File.Put %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("store.File.Put %s: write: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store.File.Put %s: sync: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.File.Put %s: close: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("store.File.Put %s: rename: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store.File.Delete %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
