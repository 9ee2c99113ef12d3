package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Session is the client-side auth state. It replaces the original
// frontend's ambient localStorage store with an explicit object whose
// whole lifecycle is load, save, clear.
type Session struct {
	Token        string `json:"token"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// LoadSession reads a session file. A missing file is not an error; it
// yields an empty, unauthenticated session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearSession removes the session file; clearing an absent session is
// a no-op.
func ClearSession(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
