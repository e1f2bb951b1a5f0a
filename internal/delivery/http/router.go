package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig lists the optional surfaces mounted next to the API.
type RouterConfig struct {
	CORSOrigin string
	Metrics    http.Handler
	Relay      http.Handler
}

// NewRouter builds the service router. h may be nil for a relay-only process.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(EnableCORS(cfg.CORSOrigin, RelayPath))

	if h != nil {
		h.RegisterRoutes(r)
	}
	if cfg.Relay != nil {
		r.Handle(RelayPath, cfg.Relay)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// EnableCORS is a middleware to allow the browser frontend to connect.
// OPTIONS requests to a passthrough path still reach their handler, which
// owns its method policy.
func EnableCORS(origin string, passthrough ...string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	skip := make(map[string]bool, len(passthrough))
	for _, p := range passthrough {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions && !skip[r.URL.Path] {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
