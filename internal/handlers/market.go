package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "firstrade_bridge/internal/errors"
)

// Quote returns the current quote for one symbol, scoped to an account.
func (d *Deps) Quote(w http.ResponseWriter, r *http.Request) {
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}
	account := chi.URLParam(r, "accountID")
	symbol := chi.URLParam(r, "symbol")
	if account == "" || symbol == "" {
		writeError(w, apperrors.Validation("account id and symbol are required"))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	quote, err := client.GetQuote(r.Context(), account, symbol)
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// OptionDates returns the expiration dates available for one underlying.
func (d *Deps) OptionDates(w http.ResponseWriter, r *http.Request) {
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, apperrors.Validation("symbol is required"))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	dates, err := client.OptionExpirations(r.Context(), symbol)
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":           symbol,
		"expiration_dates": dates,
	})
}

// OptionChain returns the full chain for one underlying and expiration.
func (d *Deps) OptionChain(w http.ResponseWriter, r *http.Request) {
	d.proxyOptionCall(w, r, "chain")
}

// OptionGreeks returns the greeks for one underlying and expiration.
func (d *Deps) OptionGreeks(w http.ResponseWriter, r *http.Request) {
	d.proxyOptionCall(w, r, "greeks")
}

func (d *Deps) proxyOptionCall(w http.ResponseWriter, r *http.Request, kind string) {
	if !d.ready() {
		writeError(w, apperrors.Unavailable(""))
		return
	}
	symbol := chi.URLParam(r, "symbol")
	expDate := chi.URLParam(r, "date")
	if symbol == "" || expDate == "" {
		writeError(w, apperrors.Validation("symbol and expiration date are required"))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	call := client.OptionChain
	if kind == "greeks" {
		call = client.OptionGreeks
	}
	body, err := call(r.Context(), symbol, expDate)
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}
	writeRaw(w, body)
}
