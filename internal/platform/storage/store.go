package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Store is a file-backed key-value store holding JSON-encoded values, shared
// by the directory cache and the reminder dedup set. The whole store lives in
// a single JSON document rewritten atomically on every mutation.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]json.RawMessage
}

// Open loads the store at path, creating parent directories as needed. A
// missing file yields an empty store; a corrupt file is an error so callers
// can decide whether to discard it.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	s := &Store{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := sonic.Unmarshal(raw, &s.entries); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	if s.entries == nil {
		s.entries = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Get decodes the value under key into target. It returns false when the key
// is absent.
func (s *Store) Get(key string, target any) (bool, error) {
	if key == "" {
		return false, nil
	}

	s.mu.Lock()
	raw, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode value for %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value under key and rewrites the backing file.
func (s *Store) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}

	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = raw
	return s.persistLocked()
}

// Delete removes key and rewrites the backing file. Deleting an absent key is
// a no-op.
func (s *Store) Delete(key string) error {
	if key == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(s.entries); err != nil {
		return fmt.Errorf("encode storage document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
