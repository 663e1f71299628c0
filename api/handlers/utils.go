package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// errorResponse is the payload of every non-2xx answer
type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON encodes body as the response with the given status
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError answers with the service's error shape
func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeJSON(w, r, status, errorResponse{Detail: detail})
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
