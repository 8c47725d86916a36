package firstrade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// PriceType is the wire value for an order's pricing mode.
type PriceType string

const (
	PriceTypeMarket              PriceType = "1"
	PriceTypeLimit               PriceType = "2"
	PriceTypeStop                PriceType = "3"
	PriceTypeStopLimit           PriceType = "4"
	PriceTypeTrailingStopDollar  PriceType = "5"
	PriceTypeTrailingStopPercent PriceType = "6"
)

// OrderSide is the wire value for an order's transaction type.
type OrderSide string

const (
	OrderSideBuy        OrderSide = "B"
	OrderSideSell       OrderSide = "S"
	OrderSideSellShort  OrderSide = "SS"
	OrderSideBuyToCover OrderSide = "BC"
	OrderSideBuyOption  OrderSide = "BO"
	OrderSideSellOption OrderSide = "SO"
)

// Duration is the wire value for how long an order stays working.
type Duration string

const (
	DurationDay         Duration = "0"
	DurationGT90        Duration = "1"
	DurationPreMarket   Duration = "A"
	DurationAfterMarket Duration = "P"
	DurationDayExt      Duration = "D"
)

// ParsePriceType maps a human-readable name (MARKET, LIMIT, ...) to its
// wire value. The façades use these to translate request fields.
func ParsePriceType(s string) (PriceType, error) {
	switch strings.ToUpper(s) {
	case "MARKET":
		return PriceTypeMarket, nil
	case "LIMIT":
		return PriceTypeLimit, nil
	case "STOP":
		return PriceTypeStop, nil
	case "STOP_LIMIT":
		return PriceTypeStopLimit, nil
	case "TRAILING_STOP_DOLLAR":
		return PriceTypeTrailingStopDollar, nil
	case "TRAILING_STOP_PERCENT":
		return PriceTypeTrailingStopPercent, nil
	default:
		return "", fmt.Errorf("invalid price type: %s", s)
	}
}

// ParseOrderSide maps a human-readable name (BUY, SELL, ...) to its wire
// value.
func ParseOrderSide(s string) (OrderSide, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return OrderSideBuy, nil
	case "SELL":
		return OrderSideSell, nil
	case "SELL_SHORT":
		return OrderSideSellShort, nil
	case "BUY_TO_COVER":
		return OrderSideBuyToCover, nil
	case "BUY_OPTION":
		return OrderSideBuyOption, nil
	case "SELL_OPTION":
		return OrderSideSellOption, nil
	default:
		return "", fmt.Errorf("invalid order side: %s", s)
	}
}

// ParseDuration maps a human-readable name (DAY, GT90, ...) to its wire
// value.
func ParseDuration(s string) (Duration, error) {
	switch strings.ToUpper(s) {
	case "DAY":
		return DurationDay, nil
	case "GT90":
		return DurationGT90, nil
	case "PRE_MARKET":
		return DurationPreMarket, nil
	case "AFTER_MARKET":
		return DurationAfterMarket, nil
	case "DAY_EXT":
		return DurationDayExt, nil
	default:
		return "", fmt.Errorf("invalid duration: %s", s)
	}
}

// OrderRequest describes one stock order. DryRun previews the order without
// committing it; Notional interprets Quantity as a dollar amount for
// fractional orders.
type OrderRequest struct {
	Account   string
	Symbol    string
	PriceType PriceType
	Side      OrderSide
	Duration  Duration
	Quantity  float64
	Price     float64
	StopPrice float64
	DryRun    bool
	Notional  bool
}

// OptionOrderRequest describes one option order.
type OptionOrderRequest struct {
	Account      string
	OptionSymbol string
	PriceType    PriceType
	Side         OrderSide
	Duration     Duration
	Contracts    int
	Price        float64
	StopPrice    float64
	DryRun       bool
}

// orderPayload is the JSON body of the stock order endpoint. Market orders
// must not carry a limit price.
type orderPayload struct {
	Account         string    `json:"accountId"`
	Symbol          string    `json:"symbol"`
	TransactionType OrderSide `json:"transactionType"`
	PriceType       PriceType `json:"priceType"`
	Duration        Duration  `json:"duration"`
	Quantity        float64   `json:"quantity"`
	LimitPrice      *float64  `json:"limitPrice,omitempty"`
	StopPrice       *float64  `json:"stopPrice,omitempty"`
	PreviewOrders   string    `json:"previewOrders"`
	Notional        bool      `json:"notional"`
}

// PlaceOrder submits or previews a stock order and returns the service's
// confirmation blob.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	payload := orderPayload{
		Account:         req.Account,
		Symbol:          strings.ToUpper(req.Symbol),
		TransactionType: req.Side,
		PriceType:       req.PriceType,
		Duration:        req.Duration,
		Quantity:        req.Quantity,
		Notional:        req.Notional,
	}
	if req.DryRun {
		payload.PreviewOrders = "1"
	}
	if req.PriceType != PriceTypeMarket && req.Price != 0 {
		price := req.Price
		payload.LimitPrice = &price
	}
	if req.StopPrice != 0 {
		stop := req.StopPrice
		payload.StopPrice = &stop
	}

	return c.submitOrder(ctx, pathOrderBar, payload)
}

// optionOrderPayload is the JSON body of the option order endpoint.
type optionOrderPayload struct {
	Account         string    `json:"accountId"`
	OptionSymbol    string    `json:"optionSymbol"`
	TransactionType OrderSide `json:"transactionType"`
	PriceType       PriceType `json:"priceType"`
	Duration        Duration  `json:"duration"`
	Contracts       int       `json:"contracts"`
	LimitPrice      *float64  `json:"limitPrice,omitempty"`
	StopPrice       *float64  `json:"stopPrice,omitempty"`
	PreviewOrders   string    `json:"previewOrders"`
}

// PlaceOptionOrder submits or previews an option order.
func (c *Client) PlaceOptionOrder(ctx context.Context, req OptionOrderRequest) (json.RawMessage, error) {
	payload := optionOrderPayload{
		Account:         req.Account,
		OptionSymbol:    strings.ToUpper(req.OptionSymbol),
		TransactionType: req.Side,
		PriceType:       req.PriceType,
		Duration:        req.Duration,
		Contracts:       req.Contracts,
	}
	if req.DryRun {
		payload.PreviewOrders = "1"
	}
	if req.PriceType != PriceTypeMarket && req.Price != 0 {
		price := req.Price
		payload.LimitPrice = &price
	}
	if req.StopPrice != 0 {
		stop := req.StopPrice
		payload.StopPrice = &stop
	}

	return c.submitOrder(ctx, pathOptionOrder, payload)
}

func (c *Client) submitOrder(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	if c.state.phase != StateAuthenticated {
		return nil, ErrNotAuthenticated
	}

	body, status, err := c.postJSON(ctx, path, payload)
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
