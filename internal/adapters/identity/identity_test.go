package identity_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/axioma/trendboard/internal/adapters/identity"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

type storeFactory func(t *testing.T) identity.Store

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(_ *testing.T) identity.Store {
			return identity.NewMemoryStore(identity.WithCost(bcrypt.MinCost))
		},
		"sqlite": func(t *testing.T) identity.Store {
			dsn := filepath.Join(t.TempDir(), "identity.db")
			s, err := identity.OpenSQLStore(context.Background(), dsn, identity.WithCost(bcrypt.MinCost))
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			return s
		},
	}
}

func TestStores(t *testing.T) {
	for name, factory := range factories() {
		Convey("Given a "+name+" identity store", t, func() {
			ctx := context.Background()
			store := factory(t)
			defer store.Close()

			Convey("When registering a new user", func() {
				id, err := store.Register(ctx, "ada", "s3cret")

				Convey("Then an ID is returned", func() {
					So(err, ShouldBeNil)
					So(string(id), ShouldNotBeEmpty)
					n, err := store.Count(ctx)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 1)
				})

				Convey("And verifying the right password returns the same ID", func() {
					got, err := store.Verify(ctx, "ada", "s3cret")
					So(err, ShouldBeNil)
					So(got, ShouldEqual, id)
				})

				Convey("And verifying a wrong password fails", func() {
					_, err := store.Verify(ctx, "ada", "nope")
					So(errors.Is(err, identity.ErrInvalidCredentials), ShouldBeTrue)
				})

				Convey("And registering the same username again fails", func() {
					_, err := store.Register(ctx, "ada", "other")
					So(errors.Is(err, identity.ErrDuplicateUsername), ShouldBeTrue)
				})

				Convey("And surrounding whitespace does not create a new user", func() {
					_, err := store.Register(ctx, "  ada ", "other")
					So(errors.Is(err, identity.ErrDuplicateUsername), ShouldBeTrue)
				})
			})

			Convey("When verifying an unknown user", func() {
				_, err := store.Verify(ctx, "ghost", "pw")
				So(errors.Is(err, identity.ErrInvalidCredentials), ShouldBeTrue)
			})

			Convey("When input is empty", func() {
				_, err := store.Register(ctx, "", "pw")
				So(errors.Is(err, identity.ErrInvalidInput), ShouldBeTrue)
				_, err = store.Register(ctx, "bob", "")
				So(errors.Is(err, identity.ErrInvalidInput), ShouldBeTrue)
				_, err = store.Verify(ctx, "", "")
				So(errors.Is(err, identity.ErrInvalidCredentials), ShouldBeTrue)
			})

			Convey("When the password exceeds the bcrypt limit", func() {
				_, err := store.Register(ctx, "ada", strings.Repeat("x", identity.MaxPasswordBytes+1))

				Convey("Then it is rejected as invalid input", func() {
					So(errors.Is(err, identity.ErrInvalidInput), ShouldBeTrue)
					So(errors.Is(err, identity.ErrPasswordTooLong), ShouldBeTrue)
				})

				Convey("And a password of exactly the limit still registers", func() {
					_, err := store.Register(ctx, "ada", strings.Repeat("x", identity.MaxPasswordBytes))
					So(err, ShouldBeNil)
				})

				Convey("And verifying with it reports invalid credentials", func() {
					_, err := store.Verify(ctx, "ada", strings.Repeat("x", identity.MaxPasswordBytes+1))
					So(errors.Is(err, identity.ErrInvalidCredentials), ShouldBeTrue)
				})
			})

			Convey("When usernames differ by case", func() {
				_, err := store.Register(ctx, "Ada", "pw")
				So(err, ShouldBeNil)
				_, err = store.Register(ctx, "ada", "pw")
				So(err, ShouldBeNil)
			})
		})
	}
}

func TestMemoryStoreConcurrentRegister(t *testing.T) {
	Convey("Given many concurrent signups for one username", t, func() {
		store := identity.NewMemoryStore(identity.WithCost(bcrypt.MinCost))
		ctx := context.Background()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Register(ctx, "race", "pw"); err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one succeeds", func() {
			So(success, ShouldEqual, 1)
			n, _ := store.Count(ctx)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		store := identity.NewMemoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Register(ctx, "ada", "pw")
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestWithCost(t *testing.T) {
	Convey("Given an out-of-range cost", t, func() {
		store := identity.NewMemoryStore(identity.WithCost(1000))

		Convey("Then the default is kept and hashing still works", func() {
			_, err := store.Register(context.Background(), "ada", "pw")
			So(err, ShouldBeNil)
		})
	})
}
