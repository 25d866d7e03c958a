package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medledger/gateway/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeFailure(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"success": false, "error": message}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeDomainError maps a domain outcome to its status code.
// fallbackStatus applies to ledger and other unclassified failures, since
// the per-route contracts differ there (400 on single-record routes, 500
// on the aggregate listing).
func writeDomainError(w http.ResponseWriter, err error, fallbackStatus int) {
	var unknown *common.UnknownIdentityError
	switch {
	case errors.As(err, &unknown):
		writeFailure(w, http.StatusBadRequest, unknown.Error(), map[string]any{
			"availableAccounts": unknown.Known,
		})
	case errors.Is(err, common.ErrorInvalidAddress):
		writeFailure(w, http.StatusBadRequest, "Invalid ledger address format", nil)
	case errors.Is(err, common.ErrorMissingField), errors.Is(err, common.ErrorInvalidInput):
		writeFailure(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, common.ErrorNotFound):
		writeFailure(w, http.StatusNotFound, "Patient not found", nil)
	default:
		// ledger failures keep the node's message verbatim
		writeFailure(w, fallbackStatus, err.Error(), nil)
	}
}
