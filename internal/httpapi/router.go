// Package httpapi wires the gateway's outer HTTP surface: the JSON-RPC
// proxy endpoint, the supported-chains listing, health, metrics, and the
// WebSocket upgrade path. It translates between net/http and the
// envelope/gwerr types the selector and adapters speak.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/rpc-gateway/internal/gateway"
	"github.com/synnergy-network/rpc-gateway/internal/metrics"
	"github.com/synnergy-network/rpc-gateway/internal/project"
	"github.com/synnergy-network/rpc-gateway/internal/ratelimit"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
)

// Server bundles the collaborators the outer router needs to handle a
// request: the executor, the registry (for supported-chains), the rate
// limiter, the project validator, and a logger.
type Server struct {
	Executor  *gateway.Executor
	Registry  *registry.Registry
	Limiter   *ratelimit.Limiter
	Validator project.Validator
	Log       *logrus.Logger
	HTTP      *metrics.HTTP // optional; nil disables HTTP-layer metrics
	Gatherer  prometheus.Gatherer // backs GET /metrics; falls back to the default registry if nil

	Version  string
	Commit   string
	Features []string
	started  time.Time
}

// NewRouter builds the chi router serving the gateway's public surface.
func NewRouter(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = logrus.StandardLogger()
	}
	s.started = time.Now()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(s.accessLogMiddleware)
	r.Use(s.rateLimitMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/v1/supported-chains", s.handleSupportedChains)
	r.Post("/v1", s.handleProxy)
	r.Get("/v1", s.handleWebSocketUpgrade)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestIDMiddleware stamps every request with a UUID, echoed back as
// X-Request-Id, so logs and traces can be correlated end to end.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)
		if s.HTTP != nil {
			s.HTTP.Observe(r.URL.Path, r.Method, strconv.Itoa(ww.Status()), elapsed)
		}
		s.Log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": elapsed.Milliseconds(),
			"request_id":  requestIDFrom(r.Context()),
			"client_ip":   ratelimit.ClientIP(r),
		}).Info("request handled")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Limiter == nil || r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		ip := ratelimit.ClientIP(r)
		group := endpointGroup(r)
		if !s.Limiter.Allow(ip, group) {
			w.Header().Set("Retry-After", strconv.Itoa(s.Limiter.RetryAfter(ip, group)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func endpointGroup(r *http.Request) string {
	if r.URL.Path == "/v1" && r.Method == http.MethodPost {
		return "proxy"
	}
	return "misc"
}
