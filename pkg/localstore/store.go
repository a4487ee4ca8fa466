package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed key-value store with whole-value read-modify-write
// semantics, the server-side stand-in for browser localStorage. Values are
// raw JSON blobs; a single flat JSON object holds every key. Last write wins.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the blob stored under key, or found=false when absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return nil, false, err
	}
	raw, ok := data[key]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set overwrites the blob stored under key.
func (s *Store) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return errors.New("localstore: value is not valid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return err
	}
	data[key] = json.RawMessage(value)
	return s.writeAll(data)
}

// Remove deletes a key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.writeAll(data)
}

func (s *Store) readAll() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	data := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupted file degrades to empty rather than blocking every
		// future save.
		return map[string]json.RawMessage{}, nil
	}
	return data, nil
}

func (s *Store) writeAll(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write-then-rename keeps a crashed write from truncating the store.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
