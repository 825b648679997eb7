package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var fileKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

// FileStore persists each key as {basePath}/{key}.json.
// Writes go through a temp file and rename so readers never see a partial value.
type FileStore struct {
	basePath string
	mu       sync.Mutex
}

// NewFileStore constructs a file-backed store rooted at basePath.
func NewFileStore(basePath string) *FileStore {
	if basePath == "" {
		basePath = "."
	}
	return &FileStore{basePath: basePath}
}

// BasePath exposes the store root (primarily for testing).
func (s *FileStore) BasePath() string {
	return s.basePath
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, value) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if !fileKeyPattern.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("kv: invalid file key %q", key)
	}
	return filepath.Join(s.basePath, key+".json"), nil
}
