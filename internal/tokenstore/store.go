package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the persistence boundary for session tokens.
type Store interface {
	// Load returns the persisted token for a username, or "" when none
	// exists.
	Load(username string) (string, error)

	// Save persists a token for a username, overwriting any prior value.
	Save(username, token string) error

	// Delete removes the persisted token. Deleting an absent token is a
	// no-op, not an error.
	Delete(username string) error
}

// FileStore keeps one encrypted token file per username under a profile
// directory.
type FileStore struct {
	dir string
	enc *Encryptor
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first Save.
func NewFileStore(dir, secret string) (*FileStore, error) {
	enc, err := NewEncryptor(secret)
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, enc: enc}, nil
}

// Load reads and decrypts the token file for a username.
func (s *FileStore) Load(username string) (string, error) {
	blob, err := os.ReadFile(s.path(username))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	token, err := s.enc.Open(blob, username)
	if err != nil {
		return "", fmt.Errorf("opening token file: %w", err)
	}
	return token, nil
}

// Save encrypts and writes the token file for a username.
func (s *FileStore) Save(username, token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}

	blob, err := s.enc.Seal(token, username)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(username), blob, 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Delete removes the token file for a username.
func (s *FileStore) Delete(username string) error {
	err := os.Remove(s.path(username))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

func (s *FileStore) path(username string) string {
	return filepath.Join(s.dir, "ft_token_"+sanitize(username)+".dat")
}

// sanitize keeps the filename safe for usernames containing path
// separators or other hostile characters.
func sanitize(username string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, username)
}
