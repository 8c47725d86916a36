package handlers

import (
	"net/http"

	apperrors "firstrade_bridge/internal/errors"
)

// Health reports process liveness and session readiness.
func (d *Deps) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"session_active": d.ready(),
	})
}

// mfaRequest is the body of POST /login/mfa.
type mfaRequest struct {
	Code string `json:"code"`
}

// CompleteMFA finishes an email/phone login with the code the user received
// out-of-band. Only valid while the handshake is parked on the second
// factor.
func (d *Deps) CompleteMFA(w http.ResponseWriter, r *http.Request) {
	var req mfaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" {
		writeError(w, apperrors.Validation("code is required"))
		return
	}
	if !d.awaitingCode() {
		writeError(w, apperrors.Validation("no login awaiting a code"))
		return
	}

	client, unlock := d.lock()
	defer unlock()

	if err := client.CompleteLogin(r.Context(), req.Code); err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}

	accounts, err := client.Accounts(r.Context())
	if err != nil {
		writeError(w, apperrors.Upstream(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"accounts": accounts.AccountNumbers(),
	})
}
