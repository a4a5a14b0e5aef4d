package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/server/presign"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// StatusCode maps a service error onto the HTTP status of the
// authorization contract.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe text for err. Only messages produced by the
// presign service are passed through.
func Message(err error) string {
	var pe *presign.Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	if errors.Is(err, common.ErrInvalidToken) {
		return "Invalid token"
	}
	return "Internal server error"
}
