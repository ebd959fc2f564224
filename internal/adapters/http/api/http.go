// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/axioma/trendboard/internal/adapters/identity"
	"github.com/axioma/trendboard/internal/adapters/repository"
	"github.com/axioma/trendboard/internal/domain/types"
	"github.com/axioma/trendboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	InsightDependencies
	AuthDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	insightsHandler    *InsightsHandler
	authHandler        *AuthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(statsProvider),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		insightsHandler:    NewInsightsHandler(deps),
		authHandler:        NewAuthHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/topics", MetricsMiddleware(s.leaderboardHandler.HandleGetTopics, "topics"))

	mux.HandleFunc("/classification", MetricsMiddleware(s.insightsHandler.HandleGetClassification, "classification"))
	mux.HandleFunc("/overlap", MetricsMiddleware(s.insightsHandler.HandleGetOverlap, "overlap"))
	mux.HandleFunc("/influence", MetricsMiddleware(s.insightsHandler.HandleGetInfluence, "influence"))
	mux.HandleFunc("/newsroom", MetricsMiddleware(s.insightsHandler.HandleGetNewsroom, "newsroom"))
	mux.HandleFunc("/distribution", MetricsMiddleware(s.insightsHandler.HandleGetDistribution, "distribution"))
	mux.HandleFunc("/report", MetricsMiddleware(s.insightsHandler.HandleGetReport, "report"))

	mux.HandleFunc("/signup", MetricsMiddleware(s.authHandler.HandleSignup, "signup"))
	mux.HandleFunc("/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps upstream errors to a status and code. Unknown errors are
// logged and reported as 500 without leaking their text.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNoSnapshot), errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, identity.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "conflict", WrapKind(op, ErrConflict, err))
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", WrapKind(op, ErrUnauthorized, err))
	case errors.Is(err, identity.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.NotFound(w, r)
		return false
	}
	return true
}
