// Package overlap measures how many of a platform's topics a reference set knows.
package overlap

import (
	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/internal/domain/dedupe"
	"github.com/axioma/trendboard/internal/domain/model"
)

// DefaultReferenceGraph is the newsroom graph whose data keys form the reference set.
const DefaultReferenceGraph = "News Topic Counts of Articles"

// Percentage returns 100 * matched / len(topics). Duplicate entries count
// every time. An empty list yields 0.
func Percentage(topics []dataset.TopicEntry, reference *dedupe.Set) float64 {
	if len(topics) == 0 {
		return 0
	}
	matched := 0
	for _, t := range topics {
		if reference.Contains(t.Topic) {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(topics))
}

// PerSource computes the percentage for every platform, in platform order.
func PerSource(ds *dataset.Dataset, reference *dedupe.Set) []model.OverlapResult {
	out := []model.OverlapResult{}
	if ds == nil {
		return out
	}
	for _, p := range ds.Platforms {
		out = append(out, model.OverlapResult{
			Source:     p.Name,
			Percentage: Percentage(p.TrendingTopics, reference),
		})
	}
	return out
}

// ReferenceSet returns the row keys of the graph titled graphTitle. A missing
// graph yields an empty set.
func ReferenceSet(ds *dataset.Dataset, graphTitle string) *dedupe.Set {
	g, ok := ds.Graph(graphTitle)
	if !ok {
		return dedupe.New(0)
	}
	return dedupe.Of(g.Data.Keys()...)
}
