package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps preferences in a small JSON object on disk. Writes go to a
// temporary file that is renamed over the original.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("settings file path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create settings dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	kv := map[string]string{}
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("decode settings file: %w", err)
	}
	return kv, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kv, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kv, err := f.read()
	if err != nil {
		return err
	}
	kv[key] = value

	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
