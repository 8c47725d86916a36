// Package mcptools exposes one brokerage session as a set of MCP tools so
// LLM agents can query accounts, quotes, and orders over the Model Context
// Protocol.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"firstrade_bridge/internal/firstrade"
)

const (
	serverName    = "firstrade-bridge"
	serverVersion = "1.0.0"
)

// Service wraps the shared brokerage client for all tool handlers. The
// client is not safe for concurrent use, so every handler takes the mutex
// for the duration of its upstream call.
type Service struct {
	mu     sync.Mutex
	client *firstrade.Client

	// defaultAccount is resolved lazily from the account list and used
	// whenever a tool call omits account_id.
	defaultAccount string
}

// NewService creates a Service around an already-authenticated client.
func NewService(client *firstrade.Client) *Service {
	return &Service{client: client}
}

// NewServer builds the MCP server with every tool registered.
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_accounts",
		Description: "Lists all brokerage account numbers and their total values",
	}, svc.GetAccounts)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_account_balances",
		Description: "Returns the detailed balance breakdown for one account",
	}, svc.GetBalances)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_positions",
		Description: "Returns the currently held positions for one account",
	}, svc.GetPositions)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_orders",
		Description: "Returns pending and recent orders for one account",
	}, svc.GetOrders)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_account_history",
		Description: "Returns the transaction history for one account",
	}, svc.GetHistory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_quote",
		Description: "Returns the current quote for a stock symbol",
	}, svc.GetQuote)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_option_dates",
		Description: "Lists the option expiration dates for an underlying symbol",
	}, svc.GetOptionDates)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_option_chain",
		Description: "Returns the option chain for a symbol and expiration date",
	}, svc.GetOptionChain)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_option_greeks",
		Description: "Returns the option greeks for a symbol and expiration date",
	}, svc.GetOptionGreeks)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "place_order",
		Description: "Places or previews a stock order; set dry_run to preview without committing",
	}, svc.PlaceOrder)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_order",
		Description: "Cancels one working order by its order id",
	}, svc.CancelOrder)

	return server
}

// lock acquires the session and returns the client plus an unlock func.
func (s *Service) lock() (*firstrade.Client, func()) {
	s.mu.Lock()
	return s.client, s.mu.Unlock
}

// resolveAccount returns the given account id, or the first account on the
// profile when the tool call omitted it. Caller holds the lock.
func (s *Service) resolveAccount(ctx context.Context, client *firstrade.Client, account string) (string, error) {
	if account != "" {
		return account, nil
	}
	if s.defaultAccount != "" {
		return s.defaultAccount, nil
	}

	list, err := client.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving default account: %w", err)
	}
	numbers := list.AccountNumbers()
	if len(numbers) == 0 {
		return "", fmt.Errorf("no accounts on this profile")
	}
	s.defaultAccount = numbers[0]
	return s.defaultAccount, nil
}

// decodeBlob converts an upstream JSON blob into a generic map so the tool
// result schema stays a plain object.
func decodeBlob(blob json.RawMessage) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}
	return out, nil
}
