package ranking_test

import (
	"testing"

	"github.com/axioma/trendboard/internal/domain/model"
	"github.com/axioma/trendboard/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func topic(name string, count int) model.AggregatedTopic {
	return model.AggregatedTopic{Topic: name, TotalCount: count}
}

func names(items []model.AggregatedTopic) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Topic
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given equal counts", t, func() {
		in := []model.AggregatedTopic{topic("A", 5), topic("B", 5)}

		Convey("When ranking", func() {
			out := ranking.Rank(in, ranking.ByTotalCount, 10)

			Convey("Then input order breaks the tie", func() {
				So(names(out), ShouldResemble, []string{"A", "B"})
			})
		})
	})

	Convey("Given an unsorted list", t, func() {
		in := []model.AggregatedTopic{topic("C", 1), topic("A", 9), topic("D", 4), topic("B", 9), topic("E", 4)}

		Convey("When ranking without a limit", func() {
			out := ranking.Rank(in, nil, ranking.Unlimited)

			Convey("Then it is sorted descending and stable", func() {
				So(names(out), ShouldResemble, []string{"A", "B", "D", "E", "C"})
			})

			Convey("Then ranking again changes nothing", func() {
				So(ranking.Rank(out, nil, ranking.Unlimited), ShouldResemble, out)
			})

			Convey("Then the input is not reordered", func() {
				So(names(in), ShouldResemble, []string{"C", "A", "D", "B", "E"})
			})
		})

		Convey("When the limit exceeds the input size", func() {
			out := ranking.Rank(in, nil, 50)
			So(len(out), ShouldEqual, 5)
		})

		Convey("When the limit is zero", func() {
			So(ranking.Rank(in, nil, 0), ShouldBeEmpty)
		})

		Convey("When taking the top two", func() {
			So(names(ranking.TopN(in, 2)), ShouldResemble, []string{"A", "B"})
		})

		Convey("When ranking by a custom key", func() {
			byName := func(t model.AggregatedTopic) int { return -int(t.Topic[0]) }
			So(names(ranking.Rank(in, byName, 1)), ShouldResemble, []string{"A"})
		})
	})

	Convey("Given the end-to-end aggregates", t, func() {
		in := []model.AggregatedTopic{topic("AI", 17), topic("Crypto", 5)}
		So(names(ranking.Rank(in, nil, 1)), ShouldResemble, []string{"AI"})
	})

	Convey("Given no items", t, func() {
		out := ranking.Rank(nil, nil, 5)
		So(out, ShouldNotBeNil)
		So(out, ShouldBeEmpty)
	})
}
