package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
	healthuc "github.com/kailas-cloud/topicd/internal/usecase/health"
)

const defaultMaxBodyBytes = 1 << 20

// Server serves the topic endpoints.
type Server struct {
	documents     DocumentFetcher
	topics        TopicAnalyzer
	usage         UsageReporter
	health        HealthChecker
	candidates    []string
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithCandidates sets the candidate topics used by /match_topics when the caller sends none.
func WithCandidates(candidates []string) Option {
	return func(s *Server) { s.candidates = candidates }
}

// WithMaxBodyBytes caps request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(
	documents DocumentFetcher,
	topics TopicAnalyzer,
	usage UsageReporter,
	health HealthChecker,
	opts ...Option,
) *Server {
	s := &Server{
		documents:     documents,
		topics:        topics,
		usage:         usage,
		health:        health,
		maxBodyBytes:  defaultMaxBodyBytes,
		errorHandlers: defaultErrorHandlers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/topics", s.ExtractTopics)
	r.Post("/match_topics", s.MatchTopics)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
}

// ExtractTopics handles POST /topics.
func (s *Server) ExtractTopics(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	docs, err := s.fetch(r, req.FileIDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	analysis, err := s.topics.Analyze(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, topicsResponse{
		Topics:    analysis.Topics,
		FileCount: analysis.FileCount,
	})
}

// MatchTopics handles POST /match_topics.
func (s *Server) MatchTopics(w http.ResponseWriter, r *http.Request) {
	var req matchTopicsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	docs, err := s.fetch(r, req.FileIDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	candidates := s.candidates
	if req.Topics != nil {
		candidates = *req.Topics
	}

	analysis, err := s.topics.AnalyzeMatch(r.Context(), docs, candidates)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, matchTopicsResponse{
		MatchedTopics: analysis.Topics,
		FileCount:     analysis.FileCount,
	})
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// fetch validates the requested ids and retrieves their documents.
// Returns ErrNoDocuments when nothing could be fetched.
func (s *Server) fetch(r *http.Request, ids []string) (domain.Documents, error) {
	if len(ids) == 0 {
		return domain.Documents{}, fmt.Errorf("%w: file_ids must not be empty", domain.ErrBadRequest)
	}

	docs := s.documents.Fetch(r.Context(), ids)
	logger.FromContext(r.Context()).Debug("Documents fetched",
		zap.Int("requested", len(ids)),
		zap.Int("fetched", docs.Count()),
	)
	if docs.Empty() {
		return domain.Documents{}, domain.ErrNoDocuments
	}
	return docs, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrBadRequest, tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", domain.ErrBadRequest)
		default:
			return fmt.Errorf("%w: invalid request body: %v", domain.ErrBadRequest, err)
		}
	}
	return nil
}
