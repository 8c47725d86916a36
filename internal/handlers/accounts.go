package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "firstrade_bridge/internal/errors"
	"firstrade_bridge/internal/firstrade"
)

// Accounts lists all account numbers and their total values.
func (d *Deps) Accounts(w http.ResponseWriter, r *http.Request) {
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	list, err := client.Accounts(r.Context())
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}

	balances := make(map[string]float64, len(list.Items))
	for _, item := range list.Items {
		balances[item.Account] = item.TotalValue
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account_numbers":  list.AccountNumbers(),
		"account_balances": balances,
	})
}

// Balances returns the detailed balances for one account.
func (d *Deps) Balances(w http.ResponseWriter, r *http.Request) {
	d.proxyAccountCall(w, r, func(client *firstrade.Client, account string) (any, error) {
		return client.Balances(r.Context(), account)
	})
}

// Positions returns the positions for one account.
func (d *Deps) Positions(w http.ResponseWriter, r *http.Request) {
	d.proxyAccountCall(w, r, func(client *firstrade.Client, account string) (any, error) {
		return client.Positions(r.Context(), account)
	})
}

// Orders returns the orders for one account.
func (d *Deps) Orders(w http.ResponseWriter, r *http.Request) {
	d.proxyAccountCall(w, r, func(client *firstrade.Client, account string) (any, error) {
		return client.Orders(r.Context(), account)
	})
}

// History returns the transaction history for one account. Query params:
// date_range (default ytd) plus start_date/end_date for the custom range.
func (d *Deps) History(w http.ResponseWriter, r *http.Request) {
	dateRange := r.URL.Query().Get("date_range")
	if dateRange == "" {
		dateRange = firstrade.HistoryRangeYTD
	}
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if dateRange == firstrade.HistoryRangeCustom && (start == "" || end == "") {
		writeError(w, apperrors.Validation("start_date and end_date required when date_range is 'cust'"))
		return
	}

	d.proxyAccountCall(w, r, func(client *firstrade.Client, account string) (any, error) {
		return client.History(r.Context(), account, dateRange, start, end)
	})
}

// proxyAccountCall runs one account-scoped client call and writes its raw
// JSON result through.
func (d *Deps) proxyAccountCall(w http.ResponseWriter, r *http.Request, call func(*firstrade.Client, string) (any, error)) {
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}
	account := chi.URLParam(r, "accountID")
	if account == "" {
		writeError(w, apperrors.Validation("account id is required"))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	result, err := call(client, account)
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
