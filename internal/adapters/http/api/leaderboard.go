package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/axioma/trendboard/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	DefaultTopN() int
	Leaderboard(ctx context.Context, graph string, limit int) ([]Entry, error)
	Topics(ctx context.Context) ([]model.AggregatedTopic, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N&graph=T requests.
// Without limit the configured default applies.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	n := h.deps.DefaultTopN()
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), q.Get("graph"), n)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetTopics handles GET /topics: every aggregated topic in first-seen order.
func (h *LeaderboardHandler) HandleGetTopics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_topics"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	topics, err := h.deps.Topics(r.Context())
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}
