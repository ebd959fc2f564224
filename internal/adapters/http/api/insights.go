package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/axioma/trendboard/internal/domain/model"
	"github.com/axioma/trendboard/internal/domain/types"
)

// InsightDependencies defines the dashboard panel reads.
type InsightDependencies interface {
	Classification(ctx context.Context) (model.Classification, error)
	Overlap(ctx context.Context) ([]model.OverlapResult, error)
	Influence(ctx context.Context, month string) ([]model.PlatformCount, error)
	Newsroom(ctx context.Context) ([]model.TopicCount, error)
	Distribution(ctx context.Context, graph string) ([]model.TopicObservation, error)
	Report(ctx context.Context) (types.Report, error)
}

// InsightsHandler serves classification, overlap and the secondary panels.
type InsightsHandler struct {
	deps InsightDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandleGetClassification handles GET /classification.
func (h *InsightsHandler) HandleGetClassification(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	respond(w, r, "api.get_classification", func(ctx context.Context) (any, error) {
		return h.deps.Classification(ctx)
	})
}

// HandleGetOverlap handles GET /overlap.
func (h *InsightsHandler) HandleGetOverlap(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	respond(w, r, "api.get_overlap", func(ctx context.Context) (any, error) {
		return h.deps.Overlap(ctx)
	})
}

// HandleGetInfluence handles GET /influence?month=M.
func (h *InsightsHandler) HandleGetInfluence(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	respond(w, r, "api.get_influence", func(ctx context.Context) (any, error) {
		return h.deps.Influence(ctx, month)
	})
}

// HandleGetNewsroom handles GET /newsroom.
func (h *InsightsHandler) HandleGetNewsroom(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	respond(w, r, "api.get_newsroom", func(ctx context.Context) (any, error) {
		return h.deps.Newsroom(ctx)
	})
}

// HandleGetDistribution handles GET /distribution?graph=T. graph is required.
func (h *InsightsHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distribution"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	graph := r.URL.Query().Get("graph")
	if graph == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	respond(w, r, op, func(ctx context.Context) (any, error) {
		return h.deps.Distribution(ctx, graph)
	})
}

// HandleGetReport handles GET /report.
func (h *InsightsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	respond(w, r, "api.get_report", func(ctx context.Context) (any, error) {
		return h.deps.Report(ctx)
	})
}

func respond(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) (any, error)) {
	v, err := fn(r.Context())
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
