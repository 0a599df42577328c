// Package tokenstore persists the single OAuth token record auox keeps.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record is the token set returned by the token endpoint.
type Record struct {
	AccessToken                   string `json:"access_token"`
	RefreshToken                  string `json:"refresh_token"`
	ExpiresIn                     int64  `json:"expires_in"`
	RefreshTokenExpiresIn         int64  `json:"refresh_token_expires_in"`
	RefreshTokenAbsoluteExpiresIn int64  `json:"refresh_token_absolute_expires_in"`
	TokenType                     string `json:"token_type"`
}

// ErrCorrupt marks a token file that exists but cannot be decoded.
var ErrCorrupt = errors.New("token file is corrupt")

// Store reads and writes a Record at a fixed path.
type Store struct {
	path string
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store uses.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored record. ok is false when no record exists yet.
func (s *Store) Load() (rec Record, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read token: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if strings.TrimSpace(rec.AccessToken) == "" {
		return Record{}, false, fmt.Errorf("%w: access_token missing", ErrCorrupt)
	}
	return rec, true, nil
}

// Save replaces the stored record. The write goes to a temp file in the same
// directory which is then renamed over the target, so readers only ever see
// the old or the new record.
func (s *Store) Save(rec Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth-*.json")
	if err != nil {
		return fmt.Errorf("create temp token: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod token: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace token: %w", err)
	}
	return nil
}
