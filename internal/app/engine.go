package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axioma/trendboard/internal/domain/aggregate"
	"github.com/axioma/trendboard/internal/domain/classify"
	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/internal/domain/insights"
	"github.com/axioma/trendboard/internal/domain/model"
	"github.com/axioma/trendboard/internal/domain/normalize"
	"github.com/axioma/trendboard/internal/domain/overlap"
	"github.com/axioma/trendboard/internal/domain/ranking"
	"github.com/axioma/trendboard/internal/domain/types"
	"github.com/axioma/trendboard/pkg/metrics"
)

// Every read below takes the current snapshot once and computes from it, so
// a concurrent reload never mixes two datasets in one response.

func (s *Service) dataset() (*dataset.Dataset, uint64, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, 0, err
	}
	return snap.Dataset, snap.Version, nil
}

// DefaultTopN is the leaderboard size used when a caller does not ask for one.
func (s *Service) DefaultTopN() int { return s.defaultTopN }

// Leaderboard ranks topics of graph (all graphs when empty) by total count.
// A negative limit returns every topic.
func (s *Service) Leaderboard(ctx context.Context, graph string, limit int) ([]types.Entry, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return s.leaderboard(ds, graph, limit), ctx.Err()
}

func (s *Service) leaderboard(ds *dataset.Dataset, graph string, limit int) []types.Entry {
	agg := s.aggregate(ds, graph)
	var ranked []model.AggregatedTopic
	timed(metrics.StageRank, func() {
		ranked = ranking.Rank(agg.List(), ranking.ByTotalCount, limit)
	})
	return types.Entries(ranked)
}

// Topics returns every aggregated topic in first-seen order.
func (s *Service) Topics(ctx context.Context) ([]model.AggregatedTopic, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return s.aggregate(ds, "").List(), ctx.Err()
}

func (s *Service) aggregate(ds *dataset.Dataset, graph string) *aggregate.Aggregates {
	var obs []model.TopicObservation
	timed(metrics.StageNormalize, func() {
		if graph == "" {
			obs = normalize.Normalize(ds)
		} else {
			obs = normalize.NormalizeGraph(ds, graph)
		}
	})
	metrics.UpdateObservations(len(obs))

	var agg *aggregate.Aggregates
	timed(metrics.StageAggregate, func() { agg = aggregate.Aggregate(obs) })
	metrics.UpdateDistinctTopics(agg.Len())
	return agg
}

// Classification buckets the graph topics by their cross-platform totals.
func (s *Service) Classification(ctx context.Context) (model.Classification, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return model.Classification{}, err
	}
	return s.classification(ds), ctx.Err()
}

func (s *Service) classification(ds *dataset.Dataset) model.Classification {
	var out model.Classification
	timed(metrics.StageClassify, func() {
		unique := aggregate.FirstSeen(normalize.Normalize(ds))
		out = classify.Classify(unique, classify.CrossPlatformTotals(normalize.NormalizePlatforms(ds)), s.classifyOpts...)
	})
	metrics.UpdateBucketSize(classify.BucketHighDemand, len(out.HighDemand))
	metrics.UpdateBucketSize(classify.BucketUntapped, len(out.Untapped))
	return out
}

// Overlap returns, per platform, the share of its trending topics covered by
// the newsroom reference graph.
func (s *Service) Overlap(ctx context.Context) ([]model.OverlapResult, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return s.overlap(ds), ctx.Err()
}

func (s *Service) overlap(ds *dataset.Dataset) []model.OverlapResult {
	var out []model.OverlapResult
	timed(metrics.StageOverlap, func() {
		out = overlap.PerSource(ds, overlap.ReferenceSet(ds, s.referenceGraph))
	})
	for _, r := range out {
		metrics.UpdateOverlap(r.Source, r.Percentage)
	}
	return out
}

// Influence returns platform engagement for month, or the default month when empty.
func (s *Service) Influence(ctx context.Context, month string) ([]model.PlatformCount, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return s.influence(ds, month), ctx.Err()
}

func (s *Service) influence(ds *dataset.Dataset, month string) []model.PlatformCount {
	if month == "" {
		month = s.defaultMonth
	}
	var out []model.PlatformCount
	timed(metrics.StageInfluence, func() {
		out = insights.Influence(ds, s.influenceGraph, month)
	})
	return out
}

// Months lists the months available in the influence graph.
func (s *Service) Months(ctx context.Context) ([]string, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return insights.Months(ds, s.influenceGraph), ctx.Err()
}

// Newsroom returns article counts per topic from the reference graph.
func (s *Service) Newsroom(ctx context.Context) ([]model.TopicCount, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return insights.NewsroomCounts(ds, s.referenceGraph), ctx.Err()
}

// Distribution returns the unaggregated observations of graph.
func (s *Service) Distribution(ctx context.Context, graph string) ([]model.TopicObservation, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return insights.Distribution(ds, graph), ctx.Err()
}

// Report computes every panel from one snapshot. Sections are independent
// and run concurrently over the shared, read-only dataset.
func (s *Service) Report(ctx context.Context) (types.Report, error) {
	ds, version, err := s.dataset()
	if err != nil {
		return types.Report{}, err
	}
	start := time.Now()

	rep := types.Report{SnapshotVersion: version}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep.Leaderboard = s.leaderboard(ds, "", s.defaultTopN)
		return gctx.Err()
	})
	g.Go(func() error {
		rep.Classification = s.classification(ds)
		return gctx.Err()
	})
	g.Go(func() error {
		rep.Overlap = s.overlap(ds)
		return gctx.Err()
	})
	g.Go(func() error {
		rep.Influence = s.influence(ds, "")
		return gctx.Err()
	})
	g.Go(func() error {
		rep.Newsroom = insights.NewsroomCounts(ds, s.referenceGraph)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return types.Report{}, err
	}

	rep.GeneratedAt = time.Now().UTC()
	metrics.RecordStage(metrics.StageReport, float64(time.Since(start).Microseconds())/1000)
	return rep, nil
}
