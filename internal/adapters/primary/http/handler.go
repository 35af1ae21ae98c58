package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/core/services"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// maxBodyBytes bounds request bodies; answers and references are short texts
const maxBodyBytes = 1 << 20

// Researcher runs the research pipeline for one query
type Researcher interface {
	Execute(ctx context.Context, query string) (services.Run, error)
}

// Evaluator scores an answer against a reference answer
type Evaluator interface {
	Evaluate(ctx context.Context, predicted, reference string) (float64, error)
}

// Handler is the HTTP handler for the research agent
type Handler struct {
	pipeline  Researcher
	evaluator Evaluator
	llm       ports.LLMPort
	config    *config.Config
	gatherer  prometheus.Gatherer
	metrics   *metrics.Metrics
	logger    logger.Logger
	router    *chi.Mux
}

// NewHandler creates a new HTTP handler. evaluator may be nil, in which case
// the evaluate endpoint answers 503.
func NewHandler(pipeline Researcher, evaluator Evaluator, llm ports.LLMPort, cfg *config.Config, gatherer prometheus.Gatherer, m *metrics.Metrics, log logger.Logger) *Handler {
	h := &Handler{
		pipeline:  pipeline,
		evaluator: evaluator,
		llm:       llm,
		config:    cfg,
		gatherer:  gatherer,
		metrics:   m,
		logger:    log,
	}

	h.setupRouter()
	return h
}

// setupRouter sets up the Chi router with middleware and routes
func (h *Handler) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(h.logger, h.metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(config.Timeout(h.config.Server.RequestTimeoutSecs, 120*time.Second)))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	// Generation calls are slow and billed, so they share one limiter
	limiter := rate.NewLimiter(rate.Limit(h.config.Server.RequestsPerSecond), h.config.Server.Burst)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(limiter))
			r.Post("/research", h.Research)
			r.Post("/evaluate", h.Evaluate)
		})
		r.Get("/model", h.GetModelInfo)
	})

	h.router = r
}

// ServeHTTP implements the http.Handler interface
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	RunID        string   `json:"run_id"`
	Query        string   `json:"query"`
	ResearchData []string `json:"research_data"`
	Answer       string   `json:"answer"`
	DurationMS   int64    `json:"duration_ms"`
}

// Research handles the research request
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	run, err := h.pipeline.Execute(r.Context(), req.Query)
	if errors.Is(err, services.ErrEmptyQuery) {
		h.respondWithError(w, http.StatusBadRequest, "Query must not be empty")
		return
	}
	if err != nil {
		h.logger.Error("Research failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Failed to run research")
		return
	}

	h.respondWithJSON(w, http.StatusOK, researchResponse{
		RunID:        run.ID,
		Query:        run.State.Query,
		ResearchData: run.State.ResearchData,
		Answer:       run.Answer,
		DurationMS:   run.Duration.Milliseconds(),
	})
}

type evaluateRequest struct {
	Predicted string `json:"predicted"`
	Reference string `json:"reference"`
}

// Evaluate handles the evaluate request; an empty reference uses the configured one
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.evaluator == nil {
		h.respondWithError(w, http.StatusServiceUnavailable, "Evaluation is not configured")
		return
	}

	var req evaluateRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Predicted == "" {
		h.respondWithError(w, http.StatusBadRequest, "Predicted answer must not be empty")
		return
	}
	if req.Reference == "" {
		req.Reference = h.config.Scoring.ReferenceAnswer
	}

	score, err := h.evaluator.Evaluate(r.Context(), req.Predicted, req.Reference)
	if err != nil {
		h.logger.Error("Evaluation failed", "error", err)
		h.respondWithError(w, http.StatusBadGateway, "Failed to score answer")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]float64{"score": score})
}

// GetModelInfo handles the get model info request
func (h *Handler) GetModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.llm.GetModelInfo(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to get model info")
		return
	}
	info["variant"] = h.config.Pipeline.Variant

	h.respondWithJSON(w, http.StatusOK, info)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// respondWithError sends an error response
func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
