// Package insights derives the secondary dashboard panels from a dataset:
// platform influence per month, newsroom article counts and the per-source
// topic distribution.
package insights

import (
	"sort"

	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/internal/domain/model"
	"github.com/axioma/trendboard/internal/domain/normalize"
)

// Default panel inputs.
const (
	DefaultInfluenceGraph = "Trending Conversations"
	DefaultMonth          = "Jan"
	newsroomCountKey      = "count"
)

// Influence returns every platform's count for month from the graph titled
// graphTitle, highest first. Platforms without the month count 0.
func Influence(ds *dataset.Dataset, graphTitle, month string) []model.PlatformCount {
	out := []model.PlatformCount{}
	g, ok := ds.Graph(graphTitle)
	if !ok {
		return out
	}
	for _, row := range g.Data.Rows {
		out = append(out, model.PlatformCount{Platform: row.Key, Count: row.Value(month)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Months lists the months present in the influence graph, first-seen order.
func Months(ds *dataset.Dataset, graphTitle string) []string {
	out := []string{}
	g, ok := ds.Graph(graphTitle)
	if !ok {
		return out
	}
	seen := map[string]bool{}
	for _, row := range g.Data.Rows {
		for _, c := range row.Cells {
			if !seen[c.Key] {
				seen[c.Key] = true
				out = append(out, c.Key)
			}
		}
	}
	return out
}

// NewsroomCounts returns the article count of every topic of the graph titled
// title, in file order.
func NewsroomCounts(ds *dataset.Dataset, title string) []model.TopicCount {
	out := []model.TopicCount{}
	g, ok := ds.Graph(title)
	if !ok {
		return out
	}
	for _, row := range g.Data.Rows {
		out = append(out, model.TopicCount{Topic: row.Key, Count: row.Value(newsroomCountKey)})
	}
	return out
}

// Distribution returns the unaggregated observations of one graph, one per
// source/topic pair, for bubble-style panels.
func Distribution(ds *dataset.Dataset, graphTitle string) []model.TopicObservation {
	return normalize.NormalizeGraph(ds, graphTitle)
}
