package handlers

import (
	"net/http"

	apperrors "firstrade_bridge/internal/errors"
	"firstrade_bridge/internal/firstrade"
)

// orderRequest is the body of POST /orders. Price types, sides and
// durations use their human-readable names (LIMIT, BUY, DAY, ...).
type orderRequest struct {
	Account   string  `json:"account"`
	Symbol    string  `json:"symbol"`
	PriceType string  `json:"price_type"`
	Side      string  `json:"side"`
	Duration  string  `json:"duration"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
	StopPrice float64 `json:"stop_price,omitempty"`
	DryRun    bool    `json:"dry_run,omitempty"`
	Notional  bool    `json:"notional,omitempty"`
}

// PlaceOrder submits or previews one stock order.
func (d *Deps) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Account == "" || req.Symbol == "" {
		writeError(w, apperrors.Validation("account and symbol are required"))
		return
	}
	if req.Quantity <= 0 {
		writeError(w, apperrors.Validation("quantity must be positive"))
		return
	}

	priceType, side, duration, err := parseOrderEnums(req.PriceType, req.Side, req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	result, err := client.PlaceOrder(r.Context(), firstrade.OrderRequest{
		Account:   req.Account,
		Symbol:    req.Symbol,
		PriceType: priceType,
		Side:      side,
		Duration:  duration,
		Quantity:  req.Quantity,
		Price:     req.Price,
		StopPrice: req.StopPrice,
		DryRun:    req.DryRun,
		Notional:  req.Notional,
	})
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeRaw(w, result)
}

// optionOrderRequest is the body of POST /orders/options.
type optionOrderRequest struct {
	Account      string  `json:"account"`
	OptionSymbol string  `json:"option_symbol"`
	PriceType    string  `json:"price_type"`
	Side         string  `json:"side"`
	Duration     string  `json:"duration"`
	Contracts    int     `json:"contracts"`
	Price        float64 `json:"price,omitempty"`
	StopPrice    float64 `json:"stop_price,omitempty"`
	DryRun       bool    `json:"dry_run,omitempty"`
}

// PlaceOptionOrder submits or previews one option order.
func (d *Deps) PlaceOptionOrder(w http.ResponseWriter, r *http.Request) {
	var req optionOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Account == "" || req.OptionSymbol == "" {
		writeError(w, apperrors.Validation("account and option_symbol are required"))
		return
	}
	if req.Contracts <= 0 {
		writeError(w, apperrors.Validation("contracts must be positive"))
		return
	}

	priceType, side, duration, err := parseOrderEnums(req.PriceType, req.Side, req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	result, err := client.PlaceOptionOrder(r.Context(), firstrade.OptionOrderRequest{
		Account:      req.Account,
		OptionSymbol: req.OptionSymbol,
		PriceType:    priceType,
		Side:         side,
		Duration:     duration,
		Contracts:    req.Contracts,
		Price:        req.Price,
		StopPrice:    req.StopPrice,
		DryRun:       req.DryRun,
	})
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeRaw(w, result)
}

// cancelRequest is the body of POST /orders/cancel.
type cancelRequest struct {
	OrderID string `json:"order_id"`
}

// CancelOrder cancels one working order by its id.
func (d *Deps) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OrderID == "" {
		writeError(w, apperrors.Validation("order_id is required"))
		return
	}
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	result, err := client.CancelOrder(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeRaw(w, result)
}

func parseOrderEnums(priceType, side, duration string) (firstrade.PriceType, firstrade.OrderSide, firstrade.Duration, error) {
	pt, err := firstrade.ParsePriceType(priceType)
	if err != nil {
		return "", "", "", apperrors.Validation(err.Error())
	}
	os, err := firstrade.ParseOrderSide(side)
	if err != nil {
		return "", "", "", apperrors.Validation(err.Error())
	}
	if duration == "" {
		duration = "DAY"
	}
	dur, err := firstrade.ParseDuration(duration)
	if err != nil {
		return "", "", "", apperrors.Validation(err.Error())
	}
	return pt, os, dur, nil
}
