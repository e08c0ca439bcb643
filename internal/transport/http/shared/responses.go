// Package shared holds the JSON response helpers used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"cisattest/internal/anchor"
	dErrors "cisattest/pkg/domain-errors"
	"cisattest/pkg/platform/sentinel"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorEnvelope is the uniform error body.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates domain and ledger errors to a consistent JSON error
// envelope. Connectivity failures map to 502 so callers can distinguish an
// unreachable ledger from a rejected request.
func WriteError(w http.ResponseWriter, err error) {
	var connErr *anchor.ConnectivityError
	switch {
	case errors.As(err, &connErr):
		WriteJSON(w, http.StatusBadGateway, errorEnvelope{
			Error:   string(dErrors.CodeUnavailable),
			Message: "ledger unreachable",
		})
		return
	case errors.Is(err, sentinel.ErrUnsupported):
		WriteJSON(w, http.StatusNotImplemented, errorEnvelope{
			Error:   string(dErrors.CodeUnsupported),
			Message: "operation not supported by the deployed contract",
		})
		return
	}

	code := dErrors.CodeOf(err)
	envelope := errorEnvelope{Error: string(code)}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		envelope.Message = domainErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), envelope)
}
