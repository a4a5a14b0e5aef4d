// Package lambda serves the upload authorization contract from an AWS
// Lambda function behind an API Gateway HTTP API.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/server/auth"
	"github.com/shipseva/docupload/internal/server/httpapi"
	"github.com/shipseva/docupload/internal/server/presign"
)

type Handler struct {
	svc    httpapi.Authorizer
	secret []byte
	log    logging.Logger
}

// NewHandler returns a handler; an empty secret disables token checks.
func NewHandler(svc httpapi.Authorizer, secret string, log logging.Logger) *Handler {
	h := &Handler{svc: svc, log: log}
	if secret != "" {
		h.secret = []byte(secret)
	}
	return h
}

// Handle is registered with lambda.Start.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := req.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := h.log.With("request_id", requestID)

	method := req.RequestContext.HTTP.Method
	if method != http.MethodPost {
		return response(http.StatusMethodNotAllowed, requestID, map[string]string{"error": "Method not allowed"}), nil
	}

	if h.secret != nil {
		if resp, ok := h.authenticate(ctx, log, req, requestID); !ok {
			return resp, nil
		}
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return response(http.StatusBadRequest, requestID, map[string]string{"error": "Missing required fields"}), nil
		}
		body = decoded
	}

	var in presign.Request
	if err := json.Unmarshal(body, &in); err != nil {
		log.Warn(ctx, "malformed authorization request", "error", err)
		return response(http.StatusBadRequest, requestID, map[string]string{"error": "Missing required fields"}), nil
	}

	grant, err := h.svc.Authorize(ctx, in)
	if err != nil {
		return response(httpapi.StatusCode(err), requestID, map[string]string{"error": httpapi.Message(err)}), nil
	}

	log.Info(ctx, "grant issued", "document_type", in.DocumentType)
	return response(http.StatusOK, requestID, grant), nil
}

func (h *Handler) authenticate(ctx context.Context, log logging.Logger, req events.APIGatewayV2HTTPRequest, requestID string) (events.APIGatewayV2HTTPResponse, bool) {
	// API Gateway v2 lower-cases header names.
	header := req.Headers[strings.ToLower(common.AuthorizationHeader)]
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || token == "" {
		return response(http.StatusUnauthorized, requestID, map[string]string{"error": "Authorization header required"}), false
	}

	if _, err := auth.UserIDFromToken(token, h.secret); err != nil {
		log.Warn(ctx, "token rejected", "error", err)
		return response(http.StatusUnauthorized, requestID, map[string]string{"error": "Invalid token"}), false
	}

	return events.APIGatewayV2HTTPResponse{}, true
}

func response(status int, requestID string, v any) events.APIGatewayV2HTTPResponse {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Internal server error"}`)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":         "application/json",
			common.RequestIDHeader: requestID,
		},
		Body: string(b),
	}
}
