package firstrade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// History date ranges accepted by the service.
const (
	HistoryRangeToday  = "today"
	HistoryRange1W     = "1w"
	HistoryRange1M     = "1m"
	HistoryRange2M     = "2m"
	HistoryRangeMTD    = "mtd"
	HistoryRangeYTD    = "ytd"
	HistoryRangeLY     = "ly"
	HistoryRangeCustom = "cust"
)

// UserInfo returns the profile blob for the logged-in user.
func (c *Client) UserInfo(ctx context.Context) (json.RawMessage, error) {
	return c.apiCall(ctx, pathUserInfo, nil)
}

// Accounts lists all brokerage accounts with their total values.
func (c *Client) Accounts(ctx context.Context) (*AccountList, error) {
	body, err := c.apiCall(ctx, pathAccountList, nil)
	if err != nil {
		return nil, err
	}

	var list AccountList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return &list, nil
}

// Balances returns the detailed balance breakdown for one account.
func (c *Client) Balances(ctx context.Context, account string) (json.RawMessage, error) {
	return c.apiCall(ctx, pathBalances, url.Values{"account": {account}})
}

// Positions returns the currently held positions for one account.
func (c *Client) Positions(ctx context.Context, account string) (json.RawMessage, error) {
	return c.apiCall(ctx, pathPositions, url.Values{"account": {account}})
}

// History returns the transaction history for one account. dateRange is one
// of the HistoryRange constants; start and end (YYYY-MM-DD) are required
// only for HistoryRangeCustom.
func (c *Client) History(ctx context.Context, account, dateRange, start, end string) (json.RawMessage, error) {
	query := url.Values{
		"account":    {account},
		"date_range": {dateRange},
	}
	if dateRange == HistoryRangeCustom {
		if start == "" || end == "" {
			return nil, fmt.Errorf("custom date range requires start and end dates")
		}
		query.Set("start_date", start)
		query.Set("end_date", end)
	}
	return c.apiCall(ctx, pathHistory, query)
}

// Orders returns pending and recent orders for one account.
func (c *Client) Orders(ctx context.Context, account string) (json.RawMessage, error) {
	return c.apiCall(ctx, pathOrderList, url.Values{"account": {account}})
}

// CancelOrder cancels an existing order by id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	if c.state.phase != StateAuthenticated {
		return nil, ErrNotAuthenticated
	}

	body, status, err := c.postJSON(ctx, pathCancelOrder, map[string]string{
		"order_id": orderID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, status)
	}
	if err := checkEnvelope(body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
