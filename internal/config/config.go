// Package config provides application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"firstrade_bridge/internal/firstrade"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string
	Host string

	// Path to the JSON credentials file
	CredentialsPath string

	// Token persistence settings
	TokenStore string // "file" or "sqlite"
	ProfileDir string
	DBPath     string

	// EncryptionSecret seals persisted session tokens at rest
	EncryptionSecret string

	// Environment
	IsDevelopment bool
}

// New creates a new Config with values from environment variables or
// defaults. A .env file in the working directory is loaded first when
// present.
func New() *Config {
	// Missing .env is the normal production case
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Host:             getEnv("HOST", "localhost"),
		CredentialsPath:  getEnv("FT_CREDENTIALS", filepath.Join("config", "credentials.json")),
		TokenStore:       getEnv("TOKEN_STORE", TokenStoreFile),
		ProfileDir:       getEnv("PROFILE_DIR", "data"),
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "bridge.db")),
		EncryptionSecret: getEnv("ENCRYPTION_SECRET", "change-me-in-production-32chars!"),
		IsDevelopment:    getEnv("ENV", "development") == "development",
	}
}

// Address returns the full address to bind the server to.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// credentialsFile is the on-disk shape of the credentials JSON.
type credentialsFile struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	PIN       string `json:"pin"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	MFASecret string `json:"mfa_secret"`
}

// LoadCredentials reads the brokerage credentials from the configured JSON
// file.
func (c *Config) LoadCredentials() (firstrade.Credentials, error) {
	data, err := os.ReadFile(c.CredentialsPath)
	if err != nil {
		return firstrade.Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return firstrade.Credentials{}, fmt.Errorf("parsing credentials file: %w", err)
	}
	if file.Username == "" || file.Password == "" {
		return firstrade.Credentials{}, fmt.Errorf("credentials file must set username and password")
	}

	return firstrade.Credentials{
		Username:  file.Username,
		Password:  file.Password,
		PIN:       file.PIN,
		Email:     file.Email,
		Phone:     file.Phone,
		MFASecret: file.MFASecret,
	}, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
