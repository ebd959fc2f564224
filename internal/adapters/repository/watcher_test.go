package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/axioma/trendboard/internal/adapters/repository"
	"github.com/axioma/trendboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func waitForVersion(store *repository.SnapshotStore, want uint64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cur, err := store.Current(); err == nil && cur.Version >= want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcher(t *testing.T) {
	Convey("Given a loaded dataset file and a watcher", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		path := writeFile(t, t.TempDir(), sampleDataset)
		store := repository.NewSnapshotStore()
		_, err := store.Load(ctx, path)
		So(err, ShouldBeNil)

		reloaded := make(chan *repository.Snapshot, 4)
		w, err := repository.NewWatcher(store, path,
			repository.WithDebounce(20*time.Millisecond),
			repository.WithOnReload(func(s *repository.Snapshot) { reloaded <- s }),
		)
		So(err, ShouldBeNil)
		So(w.Start(ctx), ShouldBeNil)
		So(w.Start(ctx), ShouldBeNil)
		defer func() { _ = w.Stop() }()

		Convey("When the file is rewritten", func() {
			So(os.WriteFile(path, []byte(`{"graphs": [], "Reddit": {"trending_topics": []}}`), 0o600), ShouldBeNil)

			Convey("Then the store picks up the new content", func() {
				So(waitForVersion(store, 2, 3*time.Second), ShouldBeTrue)
				cur, _ := store.Current()
				So(cur.Dataset.Platforms[0].Name, ShouldEqual, "Reddit")

				select {
				case snap := <-reloaded:
					So(snap.Version, ShouldBeGreaterThanOrEqualTo, uint64(2))
				case <-time.After(time.Second):
					So("reload callback", ShouldEqual, "called")
				}
			})
		})

		Convey("When the file is rewritten with invalid JSON", func() {
			So(os.WriteFile(path, []byte(`{"graphs": [`), 0o600), ShouldBeNil)
			time.Sleep(200 * time.Millisecond)

			Convey("Then the previous snapshot stays active", func() {
				cur, err := store.Current()
				So(err, ShouldBeNil)
				So(cur.Version, ShouldEqual, uint64(1))
			})
		})
	})
}

func TestWatcherMissingDirectory(t *testing.T) {
	Convey("Given a path in a missing directory", t, func() {
		So(logger.Init(), ShouldBeNil)
		w, err := repository.NewWatcher(repository.NewSnapshotStore(), "/nonexistent/dir/data.json")
		So(err, ShouldBeNil)

		Convey("Then Start fails and Stop still releases the watcher", func() {
			So(w.Start(context.Background()), ShouldNotBeNil)
			So(w.Stop(), ShouldBeNil)
		})
	})
}
