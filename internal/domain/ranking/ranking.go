// Package ranking orders aggregated topics into leaderboards.
package ranking

import (
	"sort"

	"github.com/axioma/trendboard/internal/domain/model"
)

// Unlimited disables truncation.
const Unlimited = -1

// KeyFunc extracts the sort key of a topic.
type KeyFunc func(model.AggregatedTopic) int

// ByTotalCount ranks by the aggregated total.
func ByTotalCount(t model.AggregatedTopic) int { return t.TotalCount }

// Rank sorts a copy of items by key descending and keeps the first limit
// entries. Equal keys keep their input order. A negative limit keeps all
// entries; a limit larger than the input returns the whole sorted input.
func Rank(items []model.AggregatedTopic, key KeyFunc, limit int) []model.AggregatedTopic {
	if key == nil {
		key = ByTotalCount
	}
	out := make([]model.AggregatedTopic, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })

	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// TopN ranks by total count and keeps n entries.
func TopN(items []model.AggregatedTopic, n int) []model.AggregatedTopic {
	return Rank(items, ByTotalCount, n)
}
