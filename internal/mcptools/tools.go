package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"firstrade_bridge/internal/firstrade"
)

// AccountsInput has no fields; the tool takes no arguments.
type AccountsInput struct{}

// AccountsResult lists the profile's accounts.
type AccountsResult struct {
	AccountNumbers  []string           `json:"account_numbers" jsonschema:"all account numbers on the profile"`
	AccountBalances map[string]float64 `json:"account_balances" jsonschema:"total value per account number"`
}

// GetAccounts lists all accounts with their total values.
func (s *Service) GetAccounts(ctx context.Context, _ *mcp.CallToolRequest, _ AccountsInput) (*mcp.CallToolResult, AccountsResult, error) {
	client, unlock := s.lock()
	defer unlock()

	list, err := client.Accounts(ctx)
	if err != nil {
		return nil, AccountsResult{}, err
	}

	balances := make(map[string]float64, len(list.Items))
	for _, item := range list.Items {
		balances[item.Account] = item.TotalValue
	}
	return nil, AccountsResult{
		AccountNumbers:  list.AccountNumbers(),
		AccountBalances: balances,
	}, nil
}

// AccountInput selects one account; account_id defaults to the first
// account on the profile.
type AccountInput struct {
	AccountID string `json:"account_id,omitempty" jsonschema:"account number; defaults to the first account"`
}

// AccountDataResult carries one account-scoped upstream response.
type AccountDataResult struct {
	AccountID string         `json:"account_id" jsonschema:"account number the data belongs to"`
	Data      map[string]any `json:"data" jsonschema:"upstream response payload"`
}

// GetBalances returns the detailed balances for one account.
func (s *Service) GetBalances(ctx context.Context, _ *mcp.CallToolRequest, input AccountInput) (*mcp.CallToolResult, AccountDataResult, error) {
	return s.accountCall(ctx, input, func(ctx context.Context, client *firstrade.Client, account string) ([]byte, error) {
		return client.Balances(ctx, account)
	})
}

// GetPositions returns the positions for one account.
func (s *Service) GetPositions(ctx context.Context, _ *mcp.CallToolRequest, input AccountInput) (*mcp.CallToolResult, AccountDataResult, error) {
	return s.accountCall(ctx, input, func(ctx context.Context, client *firstrade.Client, account string) ([]byte, error) {
		return client.Positions(ctx, account)
	})
}

// GetOrders returns the orders for one account.
func (s *Service) GetOrders(ctx context.Context, _ *mcp.CallToolRequest, input AccountInput) (*mcp.CallToolResult, AccountDataResult, error) {
	return s.accountCall(ctx, input, func(ctx context.Context, client *firstrade.Client, account string) ([]byte, error) {
		return client.Orders(ctx, account)
	})
}

// HistoryInput selects an account and a date range.
type HistoryInput struct {
	AccountID string `json:"account_id,omitempty" jsonschema:"account number; defaults to the first account"`
	DateRange string `json:"date_range,omitempty" jsonschema:"one of today, 1w, 1m, 2m, mtd, ytd, ly, cust; defaults to ytd"`
	StartDate string `json:"start_date,omitempty" jsonschema:"YYYY-MM-DD, required when date_range is cust"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"YYYY-MM-DD, required when date_range is cust"`
}

// GetHistory returns the transaction history for one account.
func (s *Service) GetHistory(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, AccountDataResult, error) {
	dateRange := input.DateRange
	if dateRange == "" {
		dateRange = firstrade.HistoryRangeYTD
	}

	return s.accountCall(ctx, AccountInput{AccountID: input.AccountID},
		func(ctx context.Context, client *firstrade.Client, account string) ([]byte, error) {
			return client.History(ctx, account, dateRange, input.StartDate, input.EndDate)
		})
}

// accountCall resolves the account, runs one account-scoped client call,
// and decodes the blob into a generic result.
func (s *Service) accountCall(ctx context.Context, input AccountInput, call func(context.Context, *firstrade.Client, string) ([]byte, error)) (*mcp.CallToolResult, AccountDataResult, error) {
	client, unlock := s.lock()
	defer unlock()

	account, err := s.resolveAccount(ctx, client, input.AccountID)
	if err != nil {
		return nil, AccountDataResult{}, err
	}

	blob, err := call(ctx, client, account)
	if err != nil {
		return nil, AccountDataResult{}, err
	}
	data, err := decodeBlob(blob)
	if err != nil {
		return nil, AccountDataResult{}, err
	}
	return nil, AccountDataResult{AccountID: account, Data: data}, nil
}

// QuoteInput selects one symbol, optionally scoping to an account.
type QuoteInput struct {
	Symbol    string `json:"symbol" jsonschema:"stock ticker symbol"`
	AccountID string `json:"account_id,omitempty" jsonschema:"account number; defaults to the first account"`
}

// GetQuote returns the current quote for a symbol.
func (s *Service) GetQuote(ctx context.Context, _ *mcp.CallToolRequest, input QuoteInput) (*mcp.CallToolResult, firstrade.Quote, error) {
	if input.Symbol == "" {
		return nil, firstrade.Quote{}, fmt.Errorf("symbol is required")
	}

	client, unlock := s.lock()
	defer unlock()

	account, err := s.resolveAccount(ctx, client, input.AccountID)
	if err != nil {
		return nil, firstrade.Quote{}, err
	}

	quote, err := client.GetQuote(ctx, account, input.Symbol)
	if err != nil {
		return nil, firstrade.Quote{}, err
	}
	return nil, *quote, nil
}

// SymbolInput selects one underlying symbol.
type SymbolInput struct {
	Symbol string `json:"symbol" jsonschema:"underlying stock ticker symbol"`
}

// OptionDatesResult lists the expiration dates for an underlying.
type OptionDatesResult struct {
	Symbol          string   `json:"symbol" jsonschema:"underlying symbol"`
	ExpirationDates []string `json:"expiration_dates" jsonschema:"available expiration dates, nearest first"`
}

// GetOptionDates lists the expiration dates for an underlying.
func (s *Service) GetOptionDates(ctx context.Context, _ *mcp.CallToolRequest, input SymbolInput) (*mcp.CallToolResult, OptionDatesResult, error) {
	if input.Symbol == "" {
		return nil, OptionDatesResult{}, fmt.Errorf("symbol is required")
	}

	client, unlock := s.lock()
	defer unlock()

	dates, err := client.OptionExpirations(ctx, input.Symbol)
	if err != nil {
		return nil, OptionDatesResult{}, err
	}
	return nil, OptionDatesResult{Symbol: input.Symbol, ExpirationDates: dates}, nil
}

// OptionChainInput selects one underlying and expiration date.
type OptionChainInput struct {
	Symbol  string `json:"symbol" jsonschema:"underlying stock ticker symbol"`
	ExpDate string `json:"exp_date" jsonschema:"expiration date, YYYY-MM-DD"`
}

// OptionDataResult carries one option-scoped upstream response.
type OptionDataResult struct {
	Symbol  string         `json:"symbol" jsonschema:"underlying symbol"`
	ExpDate string         `json:"exp_date" jsonschema:"expiration date"`
	Data    map[string]any `json:"data" jsonschema:"upstream response payload"`
}

// GetOptionChain returns the option chain for one expiration.
func (s *Service) GetOptionChain(ctx context.Context, _ *mcp.CallToolRequest, input OptionChainInput) (*mcp.CallToolResult, OptionDataResult, error) {
	return s.optionCall(ctx, input, (*firstrade.Client).OptionChain)
}

// GetOptionGreeks returns the greeks for one expiration.
func (s *Service) GetOptionGreeks(ctx context.Context, _ *mcp.CallToolRequest, input OptionChainInput) (*mcp.CallToolResult, OptionDataResult, error) {
	return s.optionCall(ctx, input, (*firstrade.Client).OptionGreeks)
}

func (s *Service) optionCall(ctx context.Context, input OptionChainInput, call func(*firstrade.Client, context.Context, string, string) (json.RawMessage, error)) (*mcp.CallToolResult, OptionDataResult, error) {
	if input.Symbol == "" || input.ExpDate == "" {
		return nil, OptionDataResult{}, fmt.Errorf("symbol and exp_date are required")
	}

	client, unlock := s.lock()
	defer unlock()

	blob, err := call(client, ctx, input.Symbol, input.ExpDate)
	if err != nil {
		return nil, OptionDataResult{}, err
	}
	data, err := decodeBlob(blob)
	if err != nil {
		return nil, OptionDataResult{}, err
	}
	return nil, OptionDataResult{Symbol: input.Symbol, ExpDate: input.ExpDate, Data: data}, nil
}

// PlaceOrderInput describes one stock order.
type PlaceOrderInput struct {
	AccountID string  `json:"account_id,omitempty" jsonschema:"account number; defaults to the first account"`
	Symbol    string  `json:"symbol" jsonschema:"stock ticker symbol"`
	Side      string  `json:"side" jsonschema:"BUY, SELL, SELL_SHORT, or BUY_TO_COVER"`
	PriceType string  `json:"price_type" jsonschema:"MARKET, LIMIT, STOP, STOP_LIMIT, TRAILING_STOP_DOLLAR, or TRAILING_STOP_PERCENT"`
	Duration  string  `json:"duration,omitempty" jsonschema:"DAY, GT90, PRE_MARKET, AFTER_MARKET, or DAY_EXT; defaults to DAY"`
	Quantity  float64 `json:"quantity" jsonschema:"number of shares, or a dollar amount when notional is true"`
	Price     float64 `json:"price,omitempty" jsonschema:"limit price; ignored for market orders"`
	StopPrice float64 `json:"stop_price,omitempty" jsonschema:"stop trigger price for stop orders"`
	DryRun    bool    `json:"dry_run,omitempty" jsonschema:"preview the order without committing it"`
	Notional  bool    `json:"notional,omitempty" jsonschema:"interpret quantity as a dollar amount"`
}

// OrderResult carries the service's order confirmation.
type OrderResult struct {
	AccountID string         `json:"account_id" jsonschema:"account the order was placed on"`
	Data      map[string]any `json:"data" jsonschema:"order confirmation payload"`
}

// PlaceOrder submits or previews one stock order.
func (s *Service) PlaceOrder(ctx context.Context, _ *mcp.CallToolRequest, input PlaceOrderInput) (*mcp.CallToolResult, OrderResult, error) {
	if input.Symbol == "" {
		return nil, OrderResult{}, fmt.Errorf("symbol is required")
	}
	if input.Quantity <= 0 {
		return nil, OrderResult{}, fmt.Errorf("quantity must be positive")
	}

	priceType, err := firstrade.ParsePriceType(input.PriceType)
	if err != nil {
		return nil, OrderResult{}, err
	}
	side, err := firstrade.ParseOrderSide(input.Side)
	if err != nil {
		return nil, OrderResult{}, err
	}
	duration := input.Duration
	if duration == "" {
		duration = "DAY"
	}
	dur, err := firstrade.ParseDuration(duration)
	if err != nil {
		return nil, OrderResult{}, err
	}

	client, unlock := s.lock()
	defer unlock()

	account, err := s.resolveAccount(ctx, client, input.AccountID)
	if err != nil {
		return nil, OrderResult{}, err
	}

	blob, err := client.PlaceOrder(ctx, firstrade.OrderRequest{
		Account:   account,
		Symbol:    input.Symbol,
		PriceType: priceType,
		Side:      side,
		Duration:  dur,
		Quantity:  input.Quantity,
		Price:     input.Price,
		StopPrice: input.StopPrice,
		DryRun:    input.DryRun,
		Notional:  input.Notional,
	})
	if err != nil {
		return nil, OrderResult{}, err
	}
	data, err := decodeBlob(blob)
	if err != nil {
		return nil, OrderResult{}, err
	}
	return nil, OrderResult{AccountID: account, Data: data}, nil
}

// CancelOrderInput names one working order.
type CancelOrderInput struct {
	OrderID string `json:"order_id" jsonschema:"order id from get_orders"`
}

// CancelOrderResult carries the cancellation confirmation.
type CancelOrderResult struct {
	OrderID string         `json:"order_id" jsonschema:"order id that was cancelled"`
	Data    map[string]any `json:"data" jsonschema:"cancellation confirmation payload"`
}

// CancelOrder cancels one working order.
func (s *Service) CancelOrder(ctx context.Context, _ *mcp.CallToolRequest, input CancelOrderInput) (*mcp.CallToolResult, CancelOrderResult, error) {
	if input.OrderID == "" {
		return nil, CancelOrderResult{}, fmt.Errorf("order_id is required")
	}

	client, unlock := s.lock()
	defer unlock()

	blob, err := client.CancelOrder(ctx, input.OrderID)
	if err != nil {
		return nil, CancelOrderResult{}, err
	}
	data, err := decodeBlob(blob)
	if err != nil {
		return nil, CancelOrderResult{}, err
	}
	return nil, CancelOrderResult{OrderID: input.OrderID, Data: data}, nil
}
