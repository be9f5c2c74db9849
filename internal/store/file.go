package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var _ Slot = (*FileSlot)(nil)

// FileSlot stores the entry as <dir>/<key>.json.
//
// Writes go to a temporary file in the same directory which is then
// renamed over the slot, so a reader never sees a partial list.
type FileSlot struct {
	dir  string
	path string
}

// NewFileSlot creates the data directory if needed.
func NewFileSlot(dir, key string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileSlot{
		dir:  dir,
		path: filepath.Join(dir, key+".json"),
	}, nil
}

// Path returns the slot file path.
func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Get(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot file: %w", err)
	}
	return data, nil
}

func (s *FileSlot) Put(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp slot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing slot file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing slot file: %w", err)
	}
	return nil
}

func (s *FileSlot) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing slot file: %w", err)
	}
	return nil
}

func (s *FileSlot) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileSlot) Close() error {
	return nil
}
