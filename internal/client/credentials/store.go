// Package credentials persists the bearer token that authenticates the
// client against the backend. The store is the single source of truth for
// authentication state; no other component caches the token beyond the scope
// of one operation.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// ErrNoCredential is returned by Get when no token is stored.
var ErrNoCredential = errors.New("no credential stored")

// Store persists at most one live bearer token.
type Store interface {
	// Save stores the token, replacing any previous one.
	Save(token string) error
	// Get returns the stored token, or ErrNoCredential when absent.
	Get() (string, error)
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// tokenFile is the on-disk shape. A file rather than a bare string keeps
// room for future fields without breaking stored state.
type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// FileStore keeps the token in a single JSON file, created with 0600.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore builds a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the per-user token file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "palmlink", "token.json"), nil
}

// Save writes the token atomically: a temp file in the same directory is
// renamed over the target so a crash never leaves a half-written token.
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	b, err := json.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Get reads the stored token.
func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("read credential: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}
	if tf.AccessToken == "" {
		return "", ErrNoCredential
	}
	return tf.AccessToken, nil
}

// Clear removes the token file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and embedding.
type MemStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemStore builds an empty MemStore.
func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = token, true
	return nil
}

func (s *MemStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.token == "" {
		return "", ErrNoCredential
	}
	return s.token, nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = "", false
	return nil
}
