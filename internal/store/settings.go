package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SettingsStore is the contract for non-secret settings storage: flags,
// timestamps and cached JSON documents that accompany the credentials but
// need no protection.
type SettingsStore interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
	GetInt64(key string) (int64, bool)
	SetInt64(key string, value int64) error
	GetBool(key string) (bool, bool)
	SetBool(key string, value bool) error
	HasKey(key string) bool
	Remove(key string) error
}

// settingsDoc is the on-disk layout of the file settings store.
type settingsDoc struct {
	Strings map[string]string `json:"strings,omitempty"`
	Numbers map[string]int64  `json:"numbers,omitempty"`
	Bools   map[string]bool   `json:"bools,omitempty"`
}

func newSettingsDoc() settingsDoc {
	return settingsDoc{
		Strings: make(map[string]string),
		Numbers: make(map[string]int64),
		Bools:   make(map[string]bool),
	}
}

// FileSettingsStore persists settings as a single JSON document.
// Mutations are read-modify-write under a mutex; the document is written
// with 0600 permissions alongside the credentials it annotates.
type FileSettingsStore struct {
	mu   sync.Mutex
	path string
	doc  settingsDoc
}

// NewFileSettingsStore creates a settings store backed by the JSON file at
// path, loading the existing document if present.
func NewFileSettingsStore(path string) (*FileSettingsStore, error) {
	s := &FileSettingsStore{path: path, doc: newSettingsDoc()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if s.doc.Strings == nil {
		s.doc.Strings = make(map[string]string)
	}
	if s.doc.Numbers == nil {
		s.doc.Numbers = make(map[string]int64)
	}
	if s.doc.Bools == nil {
		s.doc.Bools = make(map[string]bool)
	}
	return s, nil
}

// GetString returns the string value for key and whether it was present.
func (s *FileSettingsStore) GetString(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Strings[key]
	return v, ok
}

// SetString stores a string value and persists the document.
func (s *FileSettingsStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Strings[key] = value
	return s.flushLocked()
}

// GetInt64 returns the numeric value for key and whether it was present.
func (s *FileSettingsStore) GetInt64(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Numbers[key]
	return v, ok
}

// SetInt64 stores a numeric value and persists the document.
func (s *FileSettingsStore) SetInt64(key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Numbers[key] = value
	return s.flushLocked()
}

// GetBool returns the boolean value for key and whether it was present.
func (s *FileSettingsStore) GetBool(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Bools[key]
	return v, ok
}

// SetBool stores a boolean value and persists the document.
func (s *FileSettingsStore) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Bools[key] = value
	return s.flushLocked()
}

// HasKey reports whether key is present in any of the value maps.
func (s *FileSettingsStore) HasKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Strings[key]; ok {
		return true
	}
	if _, ok := s.doc.Numbers[key]; ok {
		return true
	}
	_, ok := s.doc.Bools[key]
	return ok
}

// Remove deletes key from all value maps and persists the document.
func (s *FileSettingsStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Strings, key)
	delete(s.doc.Numbers, key)
	delete(s.doc.Bools, key)
	return s.flushLocked()
}

// flushLocked writes the document to disk. Caller must hold s.mu.
func (s *FileSettingsStore) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// MemorySettingsStore is an in-memory SettingsStore for tests and
// ephemeral sessions.
type MemorySettingsStore struct {
	mu  sync.Mutex
	doc settingsDoc
}

// NewMemorySettingsStore creates an empty in-memory settings store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{doc: newSettingsDoc()}
}

// GetString returns the string value for key and whether it was present.
func (s *MemorySettingsStore) GetString(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Strings[key]
	return v, ok
}

// SetString stores a string value.
func (s *MemorySettingsStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Strings[key] = value
	return nil
}

// GetInt64 returns the numeric value for key and whether it was present.
func (s *MemorySettingsStore) GetInt64(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Numbers[key]
	return v, ok
}

// SetInt64 stores a numeric value.
func (s *MemorySettingsStore) SetInt64(key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Numbers[key] = value
	return nil
}

// GetBool returns the boolean value for key and whether it was present.
func (s *MemorySettingsStore) GetBool(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Bools[key]
	return v, ok
}

// SetBool stores a boolean value.
func (s *MemorySettingsStore) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Bools[key] = value
	return nil
}

// HasKey reports whether key is present in any of the value maps.
func (s *MemorySettingsStore) HasKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Strings[key]; ok {
		return true
	}
	if _, ok := s.doc.Numbers[key]; ok {
		return true
	}
	_, ok := s.doc.Bools[key]
	return ok
}

// Remove deletes key from all value maps.
func (s *MemorySettingsStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Strings, key)
	delete(s.doc.Numbers, key)
	delete(s.doc.Bools, key)
	return nil
}
