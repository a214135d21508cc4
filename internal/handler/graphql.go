// Package handler contains the HTTP handlers of the journal API.
//
// There is one real endpoint: the GraphQL handler. It decodes the request
// body, hands the operation to the schema and writes whatever the engine
// returns. Authentication has already happened by the time a request gets
// here (see auth.Gate), so the handler never looks at headers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
)

// maxBodyBytes caps the request body. The largest legitimate request is an
// entry with 50 000 characters of content and a 200 character title. Escaped
// as JSON, a character outside the BMP costs at most 12 bytes (a \uXXXX
// surrogate pair), so that entry stays under 612 000 bytes.
const maxBodyBytes = 1 << 20

// graphqlRequest is the standard GraphQL-over-HTTP POST body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves POST /graphql.
type GraphQLHandler struct {
	schema *graphql.Schema
	logger *slog.Logger
}

func NewGraphQLHandler(schema *graphql.Schema, logger *slog.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, logger: logger}
}

// ServeHTTP executes one GraphQL operation.
//
// HTTP: POST /graphql
// REQUEST BODY: {"query": "...", "variables": {...}, "operationName": "..."}
//
// Status is 200 whenever the engine ran, including when the result holds
// resolver errors. Only a body that cannot be decoded gets a 400.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "Request body too large")
			return
		}
		h.logger.Debug("invalid GraphQL request body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON body")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusOK, codeQueryMissing, "GraphQL query is required")
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth reports liveness.
//
// HTTP: GET /healthz
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
