// Package store provides credential and settings storage for the Auth0
// session: the SecureStore and SettingsStore contracts, file-backed and
// in-memory implementations, and the composite TokenStore that owns the
// session's persisted key namespace.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SecureStore is the contract for secure key/value credential storage.
// On mobile platforms this is backed by the OS keychain; the file
// implementation here is the process-local stand-in for CLI use.
//
// Get returns an empty string (and no error) for absent keys.
// Remove of an absent key is not an error.
type SecureStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// FileSecureStore stores one value per file under a directory.
//
// SECURITY: This store handles OAuth credentials. Files are created with
// 0600 permissions and the directory with 0700 (owner only). Values are
// never logged.
type FileSecureStore struct {
	dir string
}

// NewFileSecureStore creates a file-backed secure store rooted at dir,
// creating the directory if needed.
func NewFileSecureStore(dir string) (*FileSecureStore, error) {
	if dir == "" {
		return nil, errors.New("secure store directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create secure store directory: %w", err)
	}
	return &FileSecureStore{dir: dir}, nil
}

// Get reads the value for key. Absent keys return "", nil.
func (s *FileSecureStore) Get(key string) (string, error) {
	// #nosec G304 -- path is built from a fixed internal key namespace
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential %s: %w", key, err)
	}
	return string(data), nil
}

// Set writes the value for key with owner-only permissions.
func (s *FileSecureStore) Set(key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write credential %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value for key. Absent keys are not an error.
func (s *FileSecureStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential %s: %w", key, err)
	}
	return nil
}

func (s *FileSecureStore) path(key string) string {
	return filepath.Join(s.dir, key+".cred")
}

// MemorySecureStore is an in-memory SecureStore for tests and ephemeral
// sessions.
type MemorySecureStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySecureStore creates an empty in-memory secure store.
func NewMemorySecureStore() *MemorySecureStore {
	return &MemorySecureStore{values: make(map[string]string)}
}

// Get reads the value for key. Absent keys return "", nil.
func (s *MemorySecureStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set writes the value for key.
func (s *MemorySecureStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes the value for key.
func (s *MemorySecureStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
