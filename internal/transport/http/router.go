// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the assessment service, and encode; business rules stay in the services.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cisattest/internal/assessment"
	"cisattest/internal/platform/metrics"
	"cisattest/internal/platform/middleware"
	"cisattest/pkg/platform/middleware/metadata"
)

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	svc          *assessment.Service
	log          *slog.Logger
	metrics      *metrics.Metrics
	explorerBase string
}

// NewHandler builds the HTTP handler set.
func NewHandler(svc *assessment.Service, log *slog.Logger, m *metrics.Metrics, explorerBase string) *Handler {
	return &Handler{svc: svc, log: log, metrics: m, explorerBase: explorerBase}
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.log))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(h.log))
	r.Use(middleware.Latency(h.metrics))

	r.Get("/catalog", h.handleCatalog)
	r.Post("/assessments", h.handleSubmit)
	r.Post("/hash", h.handleHash)

	r.Route("/reports/{fingerprint}", func(r chi.Router) {
		r.Get("/", h.handleGetReport)
		r.Post("/pin", h.handlePin)
	})

	r.Post("/attestations", h.handleRegister)
	r.Route("/attestations/{fingerprint}", func(r chi.Router) {
		r.Get("/", h.handleVerify)
		r.Get("/log", h.handleHistory)
	})

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
