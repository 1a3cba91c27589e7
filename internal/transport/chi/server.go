// Package chi exposes the listing searches over HTTP with a chi router.
package chi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nightlife/listings/internal/domain"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
	logpkg "github.com/nightlife/listings/internal/logger"
	healthuc "github.com/nightlife/listings/internal/usecase/health"
	searchuc "github.com/nightlife/listings/internal/usecase/search"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest         = "bad_request"
	CodeInvalidArgument    = "invalid_argument"
	CodePreconditionFailed = "precondition_failed"
	CodeUnauthorized       = "unauthorized"
	CodeRateLimited        = "rate_limited"
	CodeInternalError      = "internal_error"
)

// Searcher lists venues and events (ISP over usecase/search.Service).
type Searcher interface {
	ListVenues(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domvenue.Venue], error)
	ListEvents(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domevent.Event], error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the listings API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{search: search, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		kindHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeInvalidArgument),
		kindHandler(domain.ErrPreconditionFailed, http.StatusPreconditionFailed, CodePreconditionFailed),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/venues", s.ListVenues)
	r.Get("/events", s.ListEvents)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListVenues handles GET /venues.
func (s *Server) ListVenues(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, domain.TypeInvalidPagination, err.Error())
		return
	}

	page, err := s.search.ListVenues(r.Context(), r.URL.Query(), params.page())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse(page, venueToResponse))
}

// ListEvents handles GET /events.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, domain.TypeInvalidPagination, err.Error())
		return
	}

	page, err := s.search.ListEvents(r.Context(), r.URL.Query(), params.page())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse(page, eventToResponse))
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

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, typ, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Type:    typ,
		Message: message,
	})
}

// kindHandler returns an errorHandler for one error kind. Classified domain
// errors carry a client-facing message; anything else gets the kind's text.
func kindHandler(kind error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, kind) {
			return false
		}
		msg := kind.Error()
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			msg = de.Message
		}
		writeError(w, status, code, domain.TypeOf(err), msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request rejected", zap.String("type", domain.TypeOf(err)), zap.Error(err))
			return
		}
	}
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		log.Info("client went away", zap.Error(err))
	} else {
		log.Error("internal error", zap.Error(err))
	}
	// Storage details never reach the client.
	writeError(w, http.StatusInternalServerError, CodeInternalError, "", "internal error")
}
