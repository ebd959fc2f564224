// Package model contains domain models passed between layers.
package model

// Topic type tags used by the classifier.
const (
	TypeTrending = "trending"
	TypeRising   = "rising"
)

// TopicObservation is one (source, topic) occurrence in a dataset.
type TopicObservation struct {
	Topic  string `json:"topic"`
	Count  int    `json:"count"`
	Source string `json:"source"`
	Type   string `json:"type,omitempty"`
}

// AggregatedTopic is the cross-source total of a topic. Type is taken from
// the first observation of the topic and never overwritten.
type AggregatedTopic struct {
	Topic      string `json:"topic"`
	TotalCount int    `json:"total_count"`
	Type       string `json:"type,omitempty"`
}

// ClassifiedTopic is a bucket member with the secondary total it was judged by.
type ClassifiedTopic struct {
	Topic              string `json:"topic"`
	Type               string `json:"type"`
	CrossPlatformTotal int    `json:"cross_platform_total"`
}

// Classification holds the two actionable buckets.
type Classification struct {
	HighDemand []ClassifiedTopic `json:"high_demand"`
	Untapped   []ClassifiedTopic `json:"untapped"`
}

// OverlapResult is the share of a source's topics found in a reference set.
type OverlapResult struct {
	Source     string  `json:"source"`
	Percentage float64 `json:"percentage"`
}

// PlatformCount is a platform's engagement for one period.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// TopicCount is a plain topic/count pair, e.g. a newsroom article count.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
