package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"firstrade_bridge/internal/config"
	"firstrade_bridge/internal/database"
	"firstrade_bridge/internal/firstrade"
	"firstrade_bridge/internal/handlers"
	"firstrade_bridge/internal/middleware"
	"firstrade_bridge/internal/tokenstore"
)

// App holds the application dependencies.
type App struct {
	config *config.Config
	db     *database.DB
	client *firstrade.Client
	deps   *handlers.Deps
	router *chi.Mux
}

func main() {
	// Load configuration
	cfg := config.New()

	creds, err := cfg.LoadCredentials()
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}

	// Pick the token store backend
	var (
		store tokenstore.Store
		db    *database.DB
	)
	switch cfg.TokenStore {
	case config.TokenStoreSQLite:
		db, err = database.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations completed")

		store, err = tokenstore.NewSQLiteStore(db, cfg.EncryptionSecret)
		if err != nil {
			log.Fatalf("Failed to create token store: %v", err)
		}
	case config.TokenStoreFile:
		store, err = tokenstore.NewFileStore(cfg.ProfileDir, cfg.EncryptionSecret)
		if err != nil {
			log.Fatalf("Failed to create token store: %v", err)
		}
	default:
		log.Fatalf("Unknown TOKEN_STORE value: %q", cfg.TokenStore)
	}

	// Create the brokerage client and log in. The server starts either way;
	// data routes answer 503 until the session is authenticated.
	client := firstrade.NewClient(creds, store)

	loginCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	status, err := client.Login(loginCtx)
	cancel()
	switch {
	case err != nil:
		log.Printf("[Server] login failed: %v", err)
		recordLogin(db, creds.Username, "failure")
	case status == firstrade.LoginCodeRequired:
		log.Printf("[Server] one-time code sent; POST /login/mfa to finish the login")
	default:
		log.Printf("[Server] session authenticated for %s", client.Username())
		recordLogin(db, creds.Username, "success")
	}

	// Create application
	app := &App{
		config: cfg,
		db:     db,
		client: client,
		deps:   handlers.NewDeps(client),
	}

	// Setup router
	app.setupRouter()

	// Create server
	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://%s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func (app *App) setupRouter() {
	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Compress(5))

	// Security headers for all responses
	r.Use(middleware.SecurityHeaders)

	// Health check
	r.Get("/health", app.deps.Health)

	// Login completion. Rate limited to prevent code guessing.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitAuth)
		r.Post("/login/mfa", app.deps.CompleteMFA)
	})

	// Account data
	r.Get("/accounts", app.deps.Accounts)
	r.Get("/accounts/{accountID}/balances", app.deps.Balances)
	r.Get("/accounts/{accountID}/positions", app.deps.Positions)
	r.Get("/accounts/{accountID}/orders", app.deps.Orders)
	r.Get("/accounts/{accountID}/history", app.deps.History)

	// Market data
	r.Get("/quote/{accountID}/{symbol}", app.deps.Quote)
	r.Get("/options/{symbol}/dates", app.deps.OptionDates)
	r.Get("/options/{symbol}/chain/{date}", app.deps.OptionChain)
	r.Get("/options/{symbol}/greeks/{date}", app.deps.OptionGreeks)

	// Order entry. Rate limited separately from the data routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitOrders)
		r.Post("/orders", app.deps.PlaceOrder)
		r.Post("/orders/options", app.deps.PlaceOptionOrder)
		r.Post("/orders/cancel", app.deps.CancelOrder)
	})

	app.router = r
}

// recordLogin appends to the login history when the sqlite backend is in
// use. A nil db (file backend) is a no-op.
func recordLogin(db *database.DB, username, outcome string) {
	if db == nil {
		return
	}
	if err := db.RecordLogin(username, outcome); err != nil {
		log.Printf("[Server] recording login: %v", err)
	}
}
