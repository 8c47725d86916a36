// Command login runs the handshake interactively from a terminal. It is
// the one place that can collect a one-time code from the user, so running
// it once seeds the persisted session token the non-interactive binaries
// rely on.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"firstrade_bridge/internal/config"
	"firstrade_bridge/internal/database"
	"firstrade_bridge/internal/firstrade"
	"firstrade_bridge/internal/tokenstore"
)

func main() {
	cfg := config.New()

	creds, err := cfg.LoadCredentials()
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}
	if creds.Password == "" {
		creds.Password, err = promptPassword(creds.Username)
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
	}

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create token store: %v", err)
	}
	defer cleanup()

	client := firstrade.NewClient(creds, store)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	status, err := client.Login(ctx)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	if status == firstrade.LoginCodeRequired {
		code, err := promptLine("Enter the one-time code you received: ")
		if err != nil {
			log.Fatalf("Failed to read code: %v", err)
		}
		if err := client.CompleteLogin(ctx, code); err != nil {
			log.Fatalf("Code verification failed: %v", err)
		}
	}

	fmt.Printf("Logged in as %s\n", client.Username())

	accounts, err := client.Accounts(ctx)
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}
	fmt.Println("Accounts:")
	for _, item := range accounts.Items {
		fmt.Printf("  %s  (%s)  total value %.2f\n", item.Account, item.Type, item.TotalValue)
	}
}

// promptPassword reads the password without echo when stdin is a terminal.
func promptPassword(username string) (string, error) {
	fmt.Printf("Password for %s: ", username)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return promptLine("")
}

func promptLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Print(prompt)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// buildStore picks the token store backend from the configuration.
func buildStore(cfg *config.Config) (tokenstore.Store, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreSQLite:
		db, err := database.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, err
		}
		store, err := tokenstore.NewSQLiteStore(db, cfg.EncryptionSecret)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	case config.TokenStoreFile:
		store, err := tokenstore.NewFileStore(cfg.ProfileDir, cfg.EncryptionSecret)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown TOKEN_STORE value: %q", cfg.TokenStore)
	}
}
