package firstrade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// GetQuote returns the quote for one symbol. The account number scopes the
// request; quote entitlements differ per account.
func (c *Client) GetQuote(ctx context.Context, account, symbol string) (*Quote, error) {
	query := url.Values{
		"account": {account},
		"symbol":  {strings.ToUpper(symbol)},
	}
	body, err := c.apiCall(ctx, pathQuote, query)
	if err != nil {
		return nil, err
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return &quote, nil
}

// OptionExpirations returns the available option expiration dates for a
// symbol, in service order (nearest first).
func (c *Client) OptionExpirations(ctx context.Context, symbol string) ([]string, error) {
	query := url.Values{"symbol": {strings.ToUpper(symbol)}}
	body, err := c.apiCall(ctx, pathOptionDates, query)
	if err != nil {
		return nil, err
	}

	var dates OptionDates
	if err := json.Unmarshal(body, &dates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return dates.Dates, nil
}

// OptionChain returns the option chain for a symbol and expiration date.
func (c *Client) OptionChain(ctx context.Context, symbol, expDate string) (json.RawMessage, error) {
	return c.apiCall(ctx, pathOptionChain, url.Values{
		"symbol":   {strings.ToUpper(symbol)},
		"exp_date": {expDate},
	})
}

// OptionGreeks returns the greeks for a symbol and expiration date.
func (c *Client) OptionGreeks(ctx context.Context, symbol, expDate string) (json.RawMessage, error) {
	return c.apiCall(ctx, pathOptionGreeks, url.Values{
		"symbol":   {strings.ToUpper(symbol)},
		"exp_date": {expDate},
	})
}
