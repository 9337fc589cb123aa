// Package session manages the client's authentication lifecycle: durable
// token storage, the anonymous/pending/authenticated state machine and a
// periodic background re-check of the stored token.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the bearer token between runs. Load returns an
// empty string, not an error, when nothing is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file under the user's
// config directory.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore resolves the token path under os.UserConfigDir,
// e.g. ~/.config/devconnector/token.
func NewFileTokenStore(appName string) (*FileTokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{path: filepath.Join(dir, appName, "token")}, nil
}

// NewFileTokenStoreAt uses an explicit file path, mainly for tests.
func NewFileTokenStoreAt(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore holds the token in memory only. Used in tests and for
// one-shot invocations that must not persist credentials.
type MemoryTokenStore struct {
	token string
}

func (s *MemoryTokenStore) Load() (string, error)   { return s.token, nil }
func (s *MemoryTokenStore) Save(token string) error { s.token = token; return nil }
func (s *MemoryTokenStore) Clear() error            { s.token = ""; return nil }
