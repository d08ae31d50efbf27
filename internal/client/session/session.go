// Package session persists the authenticated session between runs of the
// client application. The token and user profile are stored together and
// restored at startup, mirroring how the browser front end keeps them in
// local storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dentallab/internal/core"
)

// Session is the persisted pair: the bearer token and the profile it was
// issued for. Both are written and cleared atomically as one unit.
type Session struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// Store saves and restores a session. Load returns (nil, nil) when no
// session has been saved.
type Store interface {
	Load() (*Session, error)
	Save(s Session) error
	Clear() error
}

// fileStore keeps the session as a JSON file, restricted to the owner.
type fileStore struct {
	path string
}

// NewFileStore returns a Store backed by the given file path. When path is
// empty a default under the user's home directory is used.
func NewFileStore(path string) (Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".dentallab", "session.json")
	}
	return &fileStore{path: path}, nil
}

func (f *fileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt file is treated as no session rather than a hard error;
		// the user just logs in again.
		return nil, nil
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

func (f *fileStore) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

func (f *fileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	session *Session
}

func (m *MemoryStore) Load() (*Session, error) { return m.session, nil }

func (m *MemoryStore) Save(s Session) error {
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.session = nil
	return nil
}
