package types_test

import (
	"testing"

	"github.com/axioma/trendboard/internal/domain/model"
	types "github.com/axioma/trendboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntries(t *testing.T) {
	Convey("Given a ranked list", t, func() {
		ranked := []model.AggregatedTopic{
			{Topic: "AI", TotalCount: 17, Type: model.TypeTrending},
			{Topic: "Crypto", TotalCount: 5, Type: model.TypeRising},
			{Topic: "War", TotalCount: 5},
		}

		Convey("When converting to entries", func() {
			entries := types.Entries(ranked)

			Convey("Then ranks start at one and follow list order", func() {
				So(entries, ShouldHaveLength, 3)
				So(entries[0], ShouldResemble, types.Entry{Rank: 1, Topic: "AI", Count: 17, Type: "trending"})
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[2].Rank, ShouldEqual, 3)
				So(entries[2].Type, ShouldEqual, "")
			})
		})

		Convey("When the list is empty", func() {
			entries := types.Entries(nil)

			Convey("Then an empty, non-nil slice is returned", func() {
				So(entries, ShouldNotBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}
