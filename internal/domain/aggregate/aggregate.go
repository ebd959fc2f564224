// Package aggregate groups topic observations into per-topic totals.
package aggregate

import (
	"github.com/axioma/trendboard/internal/domain/dedupe"
	"github.com/axioma/trendboard/internal/domain/model"
)

// Aggregates is the per-topic result of Aggregate. Iteration order is the
// order in which topics were first observed.
type Aggregates struct {
	keys   *dedupe.Set
	topics []model.AggregatedTopic
	total  int
}

// Aggregate sums counts by topic. The first observation of a topic fixes its
// type, even when its count is zero; later types are ignored.
func Aggregate(obs []model.TopicObservation) *Aggregates {
	a := &Aggregates{
		keys:   dedupe.New(len(obs)),
		topics: make([]model.AggregatedTopic, 0, len(obs)),
	}
	for _, o := range obs {
		a.total += o.Count
		if a.keys.SeenAndRecord(o.Topic) {
			i, _ := a.keys.Index(o.Topic)
			a.topics[i].TotalCount += o.Count
			continue
		}
		a.topics = append(a.topics, model.AggregatedTopic{
			Topic:      o.Topic,
			TotalCount: o.Count,
			Type:       o.Type,
		})
	}
	return a
}

// Len returns the number of distinct topics.
func (a *Aggregates) Len() int { return len(a.topics) }

// Get returns the aggregate for topic.
func (a *Aggregates) Get(topic string) (model.AggregatedTopic, bool) {
	i, ok := a.keys.Index(topic)
	if !ok {
		return model.AggregatedTopic{}, false
	}
	return a.topics[i], true
}

// List returns a copy of all aggregates in first-seen order.
func (a *Aggregates) List() []model.AggregatedTopic {
	out := make([]model.AggregatedTopic, len(a.topics))
	copy(out, a.topics)
	return out
}

// Total returns the sum of all observation counts.
func (a *Aggregates) Total() int { return a.total }

// FirstSeen keeps the first observation of every topic, in input order.
func FirstSeen(obs []model.TopicObservation) []model.TopicObservation {
	seen := dedupe.New(len(obs))
	out := make([]model.TopicObservation, 0, len(obs))
	for _, o := range obs {
		if seen.SeenAndRecord(o.Topic) {
			continue
		}
		out = append(out, o)
	}
	return out
}
