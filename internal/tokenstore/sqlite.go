package tokenstore

import (
	"database/sql"
	"errors"
	"fmt"

	"firstrade_bridge/internal/database"
)

// SQLiteStore keeps session tokens in the session_tokens table. Tokens are
// sealed with the same per-user AES-GCM scheme as the FileStore before they
// reach the database file.
type SQLiteStore struct {
	db  *database.DB
	enc *Encryptor
}

// NewSQLiteStore creates a SQLiteStore on an already-migrated database.
func NewSQLiteStore(db *database.DB, secret string) (*SQLiteStore, error) {
	enc, err := NewEncryptor(secret)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, enc: enc}, nil
}

// Load returns the persisted token for a username, or "" when none exists.
func (s *SQLiteStore) Load(username string) (string, error) {
	var blob []byte
	err := s.db.QueryRow(`
		SELECT token FROM session_tokens WHERE username = ?
	`, username).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}

	token, err := s.enc.Open(blob, username)
	if err != nil {
		return "", fmt.Errorf("opening token: %w", err)
	}
	return token, nil
}

// Save upserts the token for a username.
func (s *SQLiteStore) Save(username, token string) error {
	blob, err := s.enc.Seal(token, username)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO session_tokens (username, token, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
			token = excluded.token,
			updated_at = CURRENT_TIMESTAMP
	`, username, blob)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Delete removes the token row for a username. Deleting an absent row is a
// no-op.
func (s *SQLiteStore) Delete(username string) error {
	if _, err := s.db.Exec(`DELETE FROM session_tokens WHERE username = ?`, username); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
