package handler

// RESPONSE HELPERS:
// Every body this package writes is JSON. Failures that happen before the
// GraphQL engine runs (unreadable body, missing query) use the same
// {"errors":[...]} envelope the engine produces, so clients parse a single
// shape regardless of where the request stopped.

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes for transport-level failures. Resolver errors carry their own
// codes from apperror.
const (
	codeBadRequest   = "BAD_REQUEST"
	codeQueryMissing = "QUERY_MISSING"
)

type errorEntry struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions"`
}

// ErrorResponse mirrors the error half of a GraphQL response.
type ErrorResponse struct {
	Errors []errorEntry `json:"errors"`
}

func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Errors: []errorEntry{{
		Message:    message,
		Extensions: map[string]string{"code": code},
	}}}
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set before the body: once Encode writes, the
// header block is already on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; the only thing left is to log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError sends a single-entry GraphQL error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, newErrorResponse(code, message))
}
