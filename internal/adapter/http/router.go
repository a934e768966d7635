package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
)

// NewRouter wires the chat API with request ids, logging, panic recovery
// and CORS.
func NewRouter(h *ChatHandler, logger logger.Logger, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware(logger), RecoveryMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	h.Register(r)

	return CORS(allowedOrigins)(r)
}
