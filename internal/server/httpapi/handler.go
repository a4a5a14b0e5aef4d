package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/server/presign"
)

// maxBodySize bounds the authorization request body; it only carries
// file metadata.
const maxBodySize = 64 * 1024

// Authorizer issues upload grants.
type Authorizer interface {
	Authorize(ctx context.Context, req presign.Request) (*presign.Grant, error)
}

type Handler struct {
	svc Authorizer
	log logging.Logger
}

func NewHandler(svc Authorizer, log logging.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// PresignedURL handles POST /api/upload/presigned-url.
func (h *Handler) PresignedURL(w http.ResponseWriter, r *http.Request) {
	var req presign.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		h.log.Warn(r.Context(), "malformed authorization request", "error", err)
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	grant, err := h.svc.Authorize(r.Context(), req)
	if err != nil {
		writeError(w, StatusCode(err), Message(err))
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
