// Package api exposes the search pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/krevetko/job-scout/internal/cv"
	"github.com/krevetko/job-scout/internal/jobs"
	"github.com/krevetko/job-scout/internal/search"

	"go.uber.org/zap"
)

const (
	// Minimum CV length worth analyzing.
	minCVLength = 50

	codeInvalidInput = "INVALID_INPUT"
	codeServerError  = "SERVER_ERROR"

	// Each fact list in the response is cut to this many entries.
	maxDetailItems = 5
)

// Runner executes the end-to-end search operation.
type Runner interface {
	Run(ctx context.Context, cvText, location string) search.Result
}

// Server handles HTTP requests.
type Server struct {
	runner Runner
	logger *zap.Logger
}

// NewServer creates the API server around a search runner.
func NewServer(runner Runner, logger *zap.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/jobs/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.loggingMiddleware(mux)
}

type searchRequest struct {
	CVText   string `json:"cvText"`
	Location string `json:"location"`
}

type searchResponse struct {
	Success       bool           `json:"success"`
	Jobs          jobs.Postings  `json:"jobs"`
	CVDetails     cvDetails      `json:"cvDetails"`
	SearchSummary search.Summary `json:"searchSummary"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Code       string `json:"code"`
	Suggestion string `json:"suggestion"`
}

// cvDetails mirrors the extracted facts with list fields truncated, keeping
// the response payload small.
type cvDetails struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears"`
	JobTitles       []string `json:"jobTitles"`
	Industries      []string `json:"industries"`
	Education       string   `json:"education"`
	SearchKeywords  []string `json:"searchKeywords"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	// Internal failures must never leak detail to the caller; the external
	// contract is a fixed message under a stable code.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("search handler panicked", zap.Any("panic", rec))
			s.respondError(w, http.StatusInternalServerError, codeServerError,
				"Something went wrong while searching for jobs",
				"Try again in a few minutes")
		}
	}()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidInput,
			"Request body must be valid JSON",
			"Send a JSON object with a cvText field")
		return
	}

	if utf8.RuneCountInString(req.CVText) < minCVLength {
		s.respondError(w, http.StatusBadRequest, codeInvalidInput,
			"CV text is required and must be at least 50 characters",
			"Provide the full plain-text CV in the cvText field")
		return
	}

	result := s.runner.Run(r.Context(), req.CVText, req.Location)

	s.respondJSON(w, http.StatusOK, searchResponse{
		Success:       true,
		Jobs:          result.Jobs,
		CVDetails:     truncateDetails(result.Facts),
		SearchSummary: result.Summary,
	})
}

func truncateDetails(facts cv.Facts) cvDetails {
	return cvDetails{
		Skills:          headOf(facts.Skills),
		ExperienceYears: facts.ExperienceYears,
		JobTitles:       headOf(facts.JobTitles),
		Industries:      headOf(facts.Industries),
		Education:       facts.Education,
		SearchKeywords:  headOf(facts.SearchKeywords),
	}
}

func headOf(items []string) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > maxDetailItems {
		return items[:maxDetailItems]
	}
	return items
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("writing response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message, suggestion string) {
	s.respondJSON(w, status, errorResponse{
		Success:    false,
		Error:      message,
		Code:       code,
		Suggestion: suggestion,
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
