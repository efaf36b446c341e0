// Package chi wires the retrieval services into an HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/metrics"
	"github.com/askora-ai/askora/internal/usecase/answer"
	"github.com/askora-ai/askora/internal/usecase/health"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

// Error response codes.
const (
	codeBadRequest            = "bad_request"
	codeInvalidQuery          = "invalid_query"
	codeVectorDimMismatch     = "vector_dim_mismatch"
	codeNotFound              = "not_found"
	codeRateLimited           = "rate_limited"
	codeEncoderUnavailable    = "encoder_unavailable"
	codeGenerationUnavailable = "generation_unavailable"
	codeInternalError         = "internal_error"
)

// Answerer runs the full question answering pipeline.
type Answerer interface {
	Answer(ctx context.Context, q query.Query) (answer.Result, error)
}

// Searcher retrieves candidates for one modality.
type Searcher interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

// ReviewSearcher serves standalone review search.
type ReviewSearcher interface {
	SearchReviews(ctx context.Context, q query.Query, verifiedOnly bool) ([]reviewintel.Match, error)
}

// HealthChecker probes dependencies for readiness.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	answerer      Answerer
	textSearch    Searcher
	imageSearch   Searcher
	reviewSearch  ReviewSearcher
	health        HealthChecker
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	answerer Answerer,
	textSearch, imageSearch Searcher,
	reviewSearch ReviewSearcher,
	healthSvc HealthChecker,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		answerer:     answerer,
		textSearch:   textSearch,
		imageSearch:  imageSearch,
		reviewSearch: reviewSearch,
		health:       healthSvc,
		apiKeys:      apiKeys,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEncoderUnavailable, http.StatusBadGateway, codeEncoderUnavailable),
		sentinelHandler(domain.ErrGenerationUnavailable, http.StatusBadGateway, codeGenerationUnavailable),
	}
	return s
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(middleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(s.apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/answer", s.handleAnswer)
		r.Post("/search/text", s.handleSearchText)
		r.Post("/search/image", s.handleSearchImage)
		r.Post("/search/reviews", s.handleSearchReviews)
	})

	return r
}

// handleAnswer handles POST /api/v1/answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	res, err := s.answerer.Answer(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(res))
}

// handleSearchText handles POST /api/v1/search/text.
func (s *Server) handleSearchText(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	cands, err := s.textSearch.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items: candidatesToResponse(cands),
		Total: len(cands),
	})
}

// handleSearchImage handles POST /api/v1/search/image.
func (s *Server) handleSearchImage(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	cands, err := s.imageSearch.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items: candidatesToResponse(cands),
		Total: len(cands),
	})
}

// handleSearchReviews handles POST /api/v1/search/reviews.
func (s *Server) handleSearchReviews(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := req.toQuery()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matches, err := s.reviewSearch.SearchReviews(r.Context(), q, req.VerifiedOnly)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewSearchResponse{
		Items: reviewMatchesToResponse(matches),
		Total: len(matches),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	overall := "healthy"
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	writeJSON(w, status, map[string]any{
		"status": overall,
		"checks": report,
	})
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (query.Query, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return query.Query{}, false
	}

	q, err := req.toQuery()
	if err != nil {
		s.handleDomainError(w, err)
		return query.Query{}, false
	}
	return q, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrVectorDimMismatch,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEncoderUnavailable,
		domain.ErrGenerationUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
