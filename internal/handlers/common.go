package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "firstrade_bridge/internal/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] encoding response: %v", err)
	}
}

// writeRaw writes an upstream JSON blob through unchanged.
func writeRaw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// writeError maps an error to its HTTP status and writes a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[Server] internal error: %v", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation("invalid request body: " + err.Error())
	}
	return nil
}
