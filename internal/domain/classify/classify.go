// Package classify partitions topics into the high-demand and untapped buckets.
//
// Membership is judged against a cross-platform total computed from the
// platforms' trending_topics lists, not against the graph aggregates the
// topic set was deduplicated from. The two sources are allowed to disagree.
package classify

import (
	"sort"

	"github.com/axioma/trendboard/internal/domain/model"
)

// Bucket names, as used in metrics and reports.
const (
	BucketHighDemand = "high_demand"
	BucketUntapped   = "untapped"
)

// TotalCountFunc returns the cross-platform total of a topic, 0 if unknown.
type TotalCountFunc func(topic string) int

// CrossPlatformTotals indexes the normalized platform observations once and
// returns a lookup summing all observations whose topic matches exactly.
func CrossPlatformTotals(platforms []model.TopicObservation) TotalCountFunc {
	totals := make(map[string]int, len(platforms))
	for _, o := range platforms {
		totals[o.Topic] += o.Count
	}
	return func(topic string) int { return totals[topic] }
}

// Classify filters uniqueTopics into the two buckets. Each bucket is sorted
// by its cross-platform total, descending, ties in input order. A nil
// totalCount treats every total as 0.
func Classify(uniqueTopics []model.TopicObservation, totalCount TotalCountFunc, opts ...Option) model.Classification {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	if totalCount == nil {
		totalCount = func(string) int { return 0 }
	}

	out := model.Classification{
		HighDemand: []model.ClassifiedTopic{},
		Untapped:   []model.ClassifiedTopic{},
	}
	for _, t := range uniqueTopics {
		switch t.Type {
		case model.TypeTrending:
			total := totalCount(t.Topic)
			if s.highDemand(total) {
				out.HighDemand = append(out.HighDemand, classified(t, total))
			}
		case model.TypeRising:
			total := totalCount(t.Topic)
			if total <= s.untappedThreshold {
				out.Untapped = append(out.Untapped, classified(t, total))
			}
		}
	}
	sortByTotal(out.HighDemand)
	sortByTotal(out.Untapped)
	return out
}

func (s settings) highDemand(total int) bool {
	if s.polarity == Above {
		return total > s.highDemandThreshold
	}
	return total < s.highDemandThreshold
}

func classified(t model.TopicObservation, total int) model.ClassifiedTopic {
	return model.ClassifiedTopic{Topic: t.Topic, Type: t.Type, CrossPlatformTotal: total}
}

func sortByTotal(items []model.ClassifiedTopic) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CrossPlatformTotal > items[j].CrossPlatformTotal
	})
}
