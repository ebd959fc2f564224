// Package normalize flattens a dataset into topic observations.
//
// Traversal is depth-first in file order (graph, then source, then topic).
// That order is load-bearing: aggregation keeps the first-seen type and
// ranking breaks ties by encounter order.
package normalize

import (
	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/internal/domain/model"
)

// Normalize flattens every graph of ds. Missing sources or topics yield no
// observations; entries without a topic name are skipped.
func Normalize(ds *dataset.Dataset) []model.TopicObservation {
	if ds == nil {
		return []model.TopicObservation{}
	}
	out := make([]model.TopicObservation, 0, estimate(ds.Graphs))
	for _, g := range ds.Graphs {
		out = appendGraph(out, g)
	}
	return out
}

// NormalizeGraph flattens only graphs titled title.
func NormalizeGraph(ds *dataset.Dataset, title string) []model.TopicObservation {
	out := []model.TopicObservation{}
	if ds == nil {
		return out
	}
	for _, g := range ds.Graphs {
		if g.Title == title {
			out = appendGraph(out, g)
		}
	}
	return out
}

// NormalizePlatforms flattens the top-level trending_topics lists, using the
// platform name as source.
func NormalizePlatforms(ds *dataset.Dataset) []model.TopicObservation {
	out := []model.TopicObservation{}
	if ds == nil {
		return out
	}
	for _, p := range ds.Platforms {
		out = appendTopics(out, p.Name, p.TrendingTopics)
	}
	return out
}

func appendGraph(out []model.TopicObservation, g dataset.Graph) []model.TopicObservation {
	for _, src := range g.Sources {
		out = appendTopics(out, src.Source, src.Topics)
	}
	return out
}

func appendTopics(out []model.TopicObservation, source string, topics []dataset.TopicEntry) []model.TopicObservation {
	for _, t := range topics {
		if t.Topic == "" {
			continue
		}
		count := t.Count
		if count < 0 {
			count = 0
		}
		out = append(out, model.TopicObservation{
			Topic:  t.Topic,
			Count:  count,
			Source: source,
			Type:   t.Type,
		})
	}
	return out
}

func estimate(graphs []dataset.Graph) int {
	n := 0
	for _, g := range graphs {
		for _, s := range g.Sources {
			n += len(s.Topics)
		}
	}
	return n
}
