// Package types contains read shapes shared by the API and CLI.
package types

import (
	"time"

	"github.com/axioma/trendboard/internal/domain/model"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank  int    `json:"rank"`
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"`
}

// Entries numbers an already ranked list starting at 1. Equal counts keep
// distinct ranks because order among ties is part of the ranking contract.
func Entries(ranked []model.AggregatedTopic) []Entry {
	out := make([]Entry, len(ranked))
	for i, t := range ranked {
		out[i] = Entry{Rank: i + 1, Topic: t.Topic, Count: t.TotalCount, Type: t.Type}
	}
	return out
}

// Report bundles every dashboard panel computed from one snapshot.
type Report struct {
	SnapshotVersion uint64                `json:"snapshot_version"`
	GeneratedAt     time.Time             `json:"generated_at"`
	Leaderboard     []Entry               `json:"leaderboard"`
	Classification  model.Classification  `json:"classification"`
	Overlap         []model.OverlapResult `json:"overlap"`
	Influence       []model.PlatformCount `json:"influence"`
	Newsroom        []model.TopicCount    `json:"newsroom"`
}
