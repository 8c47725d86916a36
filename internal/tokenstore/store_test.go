package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"firstrade_bridge/internal/database"
)

const testSecret = "this-is-a-valid-32-character-key"

// storeBackends builds every Store implementation against temp storage so
// the contract tests run identically across backends.
func storeBackends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir(), testSecret)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	sqliteStore, err := NewSQLiteStore(db, testSecret)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	return map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save("alice", "token-1"); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			token, err := store.Load("alice")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if token != "token-1" {
				t.Errorf("Load() = %q, want %q", token, "token-1")
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save("alice", "old-token"); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := store.Save("alice", "new-token"); err != nil {
				t.Fatalf("second Save() error = %v", err)
			}

			token, err := store.Load("alice")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if token != "new-token" {
				t.Errorf("Load() = %q, want %q", token, "new-token")
			}
		})
	}
}

func TestStore_LoadAbsentIsEmpty(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			token, err := store.Load("nobody")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if token != "" {
				t.Errorf("Load() = %q, want empty", token)
			}
		})
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save("alice", "token-1"); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := store.Delete("alice"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			token, err := store.Load("alice")
			if err != nil {
				t.Fatalf("Load() after Delete error = %v", err)
			}
			if token != "" {
				t.Errorf("Load() after Delete = %q, want empty", token)
			}

			// Deleting an absent token is a no-op, not an error.
			if err := store.Delete("alice"); err != nil {
				t.Errorf("second Delete() error = %v", err)
			}
		})
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store.Save("alice", "alice-token")
			store.Save("bob", "bob-token")

			if err := store.Delete("alice"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			token, err := store.Load("bob")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if token != "bob-token" {
				t.Errorf("Load(bob) = %q, want %q", token, "bob-token")
			}
		})
	}
}

func TestFileStore_TokenFileNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, testSecret)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	token := "very-secret-session-token"
	if err := store.Save("alice", token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading profile dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("profile dir has %d entries, want 1", len(entries))
	}

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	if string(raw) == token {
		t.Error("token stored in plaintext")
	}
}

func TestFileStore_SanitizesUsername(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, testSecret)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	hostile := "../../etc/passwd"
	if err := store.Save(hostile, "token"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The file must land inside the profile dir, not where the separators
	// point.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading profile dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("profile dir has %d entries, want 1", len(entries))
	}

	token, err := store.Load(hostile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "token" {
		t.Errorf("Load() = %q, want %q", token, "token")
	}
}
