// Package mockapi is an in-memory fake of the BriteVerify v1 and v3 APIs for tests
// and local development.
package mockapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"briteverify/internal/platform/logger"
	"briteverify/internal/platform/metrics"
	"briteverify/internal/platform/middleware"
	"briteverify/pkg/platform/middleware/requesttime"
	"briteverify/pkg/verification"
)

const (
	defaultPageSize  = 50
	listsPerPage     = 20
	resultsRetention = 7 * 24 * time.Hour
)

type list struct {
	state    verification.VerificationListState
	contacts []verification.VerificationRequest
}

// Server holds the fake API's state. All handlers serialize on mu.
type Server struct {
	mu    sync.Mutex
	lists map[string]*list
	order []string

	apiKey         string
	credits        uint32
	reserve        uint32
	pageSize       int
	rateLimitEvery int
	retryAfter     int
	now            func() time.Time
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Server)

func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithRateLimitEvery answers every nth request with 429 and Retry-After seconds.
func WithRateLimitEvery(n, retryAfter int) Option {
	return func(s *Server) {
		s.rateLimitEvery = n
		s.retryAfter = retryAfter
	}
}

// WithPageSize sets how many results each export page holds.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithCredits(credits, reserve uint32) Option {
	return func(s *Server) {
		s.credits = credits
		s.reserve = reserve
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New constructs an empty fake API.
func New(opts ...Option) *Server {
	s := &Server{
		lists:    make(map[string]*list),
		apiKey:   "mock-api-key",
		credits:  2165,
		reserve:  500,
		pageSize: defaultPageSize,
		now:      time.Now,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router exposes the v1 and v3 routes under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.MiddlewareWithClock(s.now))
	r.Use(s.countRequests)
	r.Use(middleware.RequireAPIKey(s.apiKey, s.logger))
	r.Use(middleware.RateLimitEvery(s.rateLimitEvery, s.retryAfter, s.logger))

	r.Post("/api/v1/fullverify", s.handleFullVerify)

	r.Route("/api/v3", func(r chi.Router) {
		r.Get("/accounts/credits", s.handleCredits)

		r.Get("/lists", s.handleGetLists)
		r.Post("/lists", s.handleCreateList)
		r.Get("/lists/{listID}", s.handleGetList)
		r.Post("/lists/{listID}", s.handleUpdateList)
		r.Delete("/lists/{listID}", s.handleDeleteList)
		r.Get("/lists/{listID}/export/{page}", s.handleExport)

		r.Get("/accounts/{externalID}/lists", s.handleGetLists)
		r.Get("/accounts/{externalID}/lists/{listID}", s.handleGetList)
	})
	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.IncrementMockRequest(route, strconv.Itoa(rec.status))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
