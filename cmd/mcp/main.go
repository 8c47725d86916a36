// Command mcp serves the brokerage session as an MCP tool server, over
// stdio for local agent hosts or over streamable HTTP for remote ones.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"firstrade_bridge/internal/config"
	"firstrade_bridge/internal/database"
	"firstrade_bridge/internal/firstrade"
	"firstrade_bridge/internal/mcptools"
	"firstrade_bridge/internal/tokenstore"
)

func main() {
	transport := flag.String("transport", "stdio", "transport to serve on: stdio or http")
	addr := flag.String("addr", "localhost:8081", "listen address for the http transport")
	flag.Parse()

	// Tool handlers log to stderr; stdout belongs to the stdio transport.
	log.SetOutput(os.Stderr)

	cfg := config.New()

	creds, err := cfg.LoadCredentials()
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create token store: %v", err)
	}
	defer cleanup()

	// The tool server has no way to collect a one-time code from the agent
	// host, so the login must complete in one shot: a persisted session
	// token, a PIN, or a shared-secret code. Run the login command once to
	// seed the token for the email/phone flow.
	client := firstrade.NewClient(creds, store)

	loginCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	status, err := client.Login(loginCtx)
	cancel()
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	if status == firstrade.LoginCodeRequired {
		log.Fatalf("Login needs a one-time code; run the login command first to seed a session token")
	}
	log.Printf("[MCP] session authenticated for %s", client.Username())

	server := mcptools.NewServer(mcptools.NewService(client))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *transport {
	case "stdio":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
	case "http":
		if err := serveHTTP(ctx, server, *addr); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport: %q", *transport)
	}
}

// buildStore picks the token store backend from the configuration. The
// returned cleanup closes the database when the sqlite backend is in use.
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
		return nil, nil, errors.New("unknown TOKEN_STORE value: " + cfg.TokenStore)
	}
}

// serveHTTP runs the MCP server behind the streamable HTTP transport with a
// plain health endpoint alongside it.
func serveHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mux,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[MCP] serving streamable HTTP on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
