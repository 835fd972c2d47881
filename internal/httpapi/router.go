// Package httpapi serves the transcript upload form and extraction API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/service"
)

// RouterConfig holds HTTP surface configuration.
type RouterConfig struct {
	ServiceName    string
	Version        string
	RequestTimeout time.Duration
	MaxUploadSize  int64
}

// NewRouter creates the router with all routes configured.
func NewRouter(svc *service.Service, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	h := NewHandler(svc, logger, cfg)

	r.Get("/", h.Form)
	r.Post("/", h.Extract)
	r.Post("/extract", h.Extract)
	r.Get("/rules", h.Rules)
	r.Get("/health", h.Health)

	return r
}

// requestLogger logs one line per request through zerolog.
func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.WithRequest(chimiddleware.GetReqID(r.Context())).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}
