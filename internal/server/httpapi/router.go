// Package httpapi exposes the upload authorization service over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/server/config"
)

const PresignedURLPath = "/api/upload/presigned-url"

// NewRouter wires routes and middleware. Token auth is only installed when
// cfg.SecretKey is set.
func NewRouter(cfg *config.Config, svc Authorizer, log logging.Logger) http.Handler {
	h := NewHandler(svc, log)

	router := mux.NewRouter()
	router.Use(RequestID, AccessLog(log))
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	if cfg.SecretKey != "" {
		api.Use(Auth([]byte(cfg.SecretKey), log))
	}
	api.HandleFunc("/upload/presigned-url", h.PresignedURL).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			common.RequestIDHeader,
		},
		ExposedHeaders:   []string{common.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
