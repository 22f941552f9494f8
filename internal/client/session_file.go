package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	sessionDirPerm  = 0o700
	sessionFilePerm = 0o600
)

// SavedSession is the on-disk form of the current login.
type SavedSession struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	SavedAt  time.Time `json:"savedAt"`
}

// SessionFile keeps the access token between invocations. The file is only
// readable by its owner.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load returns the saved session or ErrNoSession.
func (s *SessionFile) Load() (SavedSession, error) {
	var session SavedSession

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return session, ErrNoSession
	}
	if err != nil {
		return session, fmt.Errorf("error reading session file: %w", err)
	}

	if err = json.Unmarshal(data, &session); err != nil {
		return session, fmt.Errorf("error decoding session file: %w", err)
	}
	if session.Token == "" {
		return session, ErrNoSession
	}
	return session, nil
}

func (s *SessionFile) Save(token, username string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirPerm); err != nil {
		return fmt.Errorf("error creating session directory: %w", err)
	}

	data, err := json.Marshal(SavedSession{Token: token, Username: username, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}

	// write then rename so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, sessionFilePerm); err != nil {
		return fmt.Errorf("error writing session file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error writing session file: %w", err)
	}
	return nil
}

// Remove deletes the session file. A missing file is not an error.
func (s *SessionFile) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing session file: %w", err)
	}
	return nil
}
