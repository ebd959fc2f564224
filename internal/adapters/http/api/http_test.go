package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/axioma/trendboard/internal/adapters/http/api"
	"github.com/axioma/trendboard/internal/adapters/identity"
	"github.com/axioma/trendboard/internal/adapters/repository"
	"github.com/axioma/trendboard/internal/domain/model"
	"github.com/axioma/trendboard/internal/domain/types"
	"github.com/axioma/trendboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps implements api.Dependencies with canned values.
type mockDeps struct {
	entries  []types.Entry
	topics   []model.AggregatedTopic
	class    model.Classification
	overlap  []model.OverlapResult
	months   map[string][]model.PlatformCount
	newsroom []model.TopicCount
	dist     map[string][]model.TopicObservation
	err      error

	lastGraph string
	lastLimit int
	lastMonth string

	users map[string]string
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		entries: []types.Entry{
			{Rank: 1, Topic: "Elections", Count: 127, Type: "trending"},
			{Rank: 2, Topic: "Crypto Rally", Count: 54, Type: "rising"},
			{Rank: 3, Topic: "AI Regulation", Count: 34, Type: "trending"},
		},
		topics: []model.AggregatedTopic{{Topic: "Elections", TotalCount: 127, Type: "trending"}},
		class: model.Classification{
			HighDemand: []model.ClassifiedTopic{{Topic: "AI Regulation", Type: "trending", CrossPlatformTotal: 63}},
			Untapped:   []model.ClassifiedTopic{},
		},
		overlap:  []model.OverlapResult{{Source: "Twitter", Percentage: 50}},
		months:   map[string][]model.PlatformCount{"Jan": {{Platform: "TikTok", Count: 150}}},
		newsroom: []model.TopicCount{{Topic: "Elections", Count: 64}},
		dist:     map[string][]model.TopicObservation{"Social Buzz": {{Topic: "Elections", Count: 55, Source: "Twitter"}}},
		users:    map[string]string{},
	}
}

func (m *mockDeps) DefaultTopN() int { return 2 }

func (m *mockDeps) Leaderboard(_ context.Context, graph string, limit int) ([]types.Entry, error) {
	m.lastGraph, m.lastLimit = graph, limit
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.entries) {
		return m.entries, nil
	}
	return m.entries[:limit], nil
}

func (m *mockDeps) Topics(_ context.Context) ([]model.AggregatedTopic, error) {
	return m.topics, m.err
}

func (m *mockDeps) Classification(_ context.Context) (model.Classification, error) {
	return m.class, m.err
}

func (m *mockDeps) Overlap(_ context.Context) ([]model.OverlapResult, error) {
	return m.overlap, m.err
}

func (m *mockDeps) Influence(_ context.Context, month string) ([]model.PlatformCount, error) {
	m.lastMonth = month
	if month == "" {
		month = "Jan"
	}
	out, ok := m.months[month]
	if !ok {
		out = []model.PlatformCount{}
	}
	return out, m.err
}

func (m *mockDeps) Newsroom(_ context.Context) ([]model.TopicCount, error) {
	return m.newsroom, m.err
}

func (m *mockDeps) Distribution(_ context.Context, graph string) ([]model.TopicObservation, error) {
	out, ok := m.dist[graph]
	if !ok {
		out = []model.TopicObservation{}
	}
	return out, m.err
}

func (m *mockDeps) Report(_ context.Context) (types.Report, error) {
	if m.err != nil {
		return types.Report{}, m.err
	}
	return types.Report{SnapshotVersion: 7, Leaderboard: m.entries, Classification: m.class}, nil
}

func (m *mockDeps) Signup(_ context.Context, username, password string) (identity.UserID, error) {
	if username == "" || password == "" {
		return "", identity.ErrInvalidInput
	}
	if len(password) > identity.MaxPasswordBytes {
		return "", identity.ErrPasswordTooLong
	}
	if _, ok := m.users[username]; ok {
		return "", identity.ErrDuplicateUsername
	}
	m.users[username] = password
	return identity.UserID("id-" + username), nil
}

func (m *mockDeps) Login(_ context.Context, username, password string) (identity.UserID, error) {
	if pw, ok := m.users[username]; !ok || pw != password {
		return "", identity.ErrInvalidCredentials
	}
	return identity.UserID("id-" + username), nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDeps, stats map[string]interface{}) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: stats}, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDeps(), map[string]interface{}{"started": true, "snapshotVersion": 1})

		Convey("Then every GET route answers 200", func() {
			for _, path := range []string{
				"/healthz", "/metrics", "/stats", "/leaderboard", "/topics", "/classification",
				"/overlap", "/influence", "/newsroom", "/distribution?graph=Social+Buzz", "/report",
			} {
				w := do(mux, http.MethodGet, path, "")
				So(w.Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("Then GET on auth routes is not found", func() {
			So(do(mux, http.MethodGet, "/signup", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/login", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then POST on read routes is not found", func() {
			So(do(mux, http.MethodPost, "/leaderboard", "{}").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/report", "{}").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then /metrics exposes the registry", func() {
			do(mux, http.MethodGet, "/leaderboard", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Body.String(), ShouldContainSubstring, "trendboard_engine_http_requests_total")
		})
	})
}

func TestHealthHandler(t *testing.T) {
	Convey("Given a health handler", t, func() {
		Convey("When a snapshot is loaded", func() {
			mux := newMux(newMockDeps(), map[string]interface{}{"snapshotVersion": uint64(3)})
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then it reports ok with the version", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["snapshot_version"], ShouldEqual, float64(3))
			})
		})

		Convey("When no snapshot is loaded", func() {
			mux := newMux(newMockDeps(), map[string]interface{}{"started": false})
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given a leaderboard handler", t, func() {
		deps := newMockDeps()
		mux := newMux(deps, map[string]interface{}{})

		Convey("When requesting top N entries", func() {
			w := do(mux, http.MethodGet, "/leaderboard?limit=3&graph=Social+Buzz", "")

			Convey("Then it returns the ranked entries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var entries []types.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Topic, ShouldEqual, "Elections")
				So(deps.lastGraph, ShouldEqual, "Social Buzz")
				So(deps.lastLimit, ShouldEqual, 3)
			})
		})

		Convey("When no limit is specified", func() {
			w := do(mux, http.MethodGet, "/leaderboard", "")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 2)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-1", "abc", "1.5"} {
				w := do(mux, http.MethodGet, "/leaderboard?limit="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			w := do(mux, http.MethodGet, "/leaderboard?limit=101", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When no snapshot is loaded", func() {
			deps.err = repository.ErrNoSnapshot
			w := do(mux, http.MethodGet, "/leaderboard", "")

			Convey("Then it returns service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "unavailable")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("disk on fire")
			w := do(mux, http.MethodGet, "/leaderboard", "")

			Convey("Then it returns 500 without leaking the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "disk on fire")
			})
		})

		Convey("When listing topics", func() {
			w := do(mux, http.MethodGet, "/topics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"total_count":127`)
		})
	})
}

func TestInsightsHandler(t *testing.T) {
	Convey("Given an insights handler", t, func() {
		deps := newMockDeps()
		mux := newMux(deps, map[string]interface{}{})

		Convey("When requesting the classification", func() {
			w := do(mux, http.MethodGet, "/classification", "")
			var c model.Classification
			So(json.Unmarshal(w.Body.Bytes(), &c), ShouldBeNil)
			So(c.HighDemand[0].Topic, ShouldEqual, "AI Regulation")
			So(c.Untapped, ShouldBeEmpty)
		})

		Convey("When requesting overlap", func() {
			w := do(mux, http.MethodGet, "/overlap", "")
			So(w.Body.String(), ShouldContainSubstring, `"percentage":50`)
		})

		Convey("When requesting influence with a month", func() {
			w := do(mux, http.MethodGet, "/influence?month=%20Feb%20", "")

			Convey("Then the trimmed month is passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMonth, ShouldEqual, "Feb")
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When requesting newsroom counts", func() {
			w := do(mux, http.MethodGet, "/newsroom", "")
			So(w.Body.String(), ShouldContainSubstring, `"count":64`)
		})

		Convey("When requesting a distribution without a graph", func() {
			w := do(mux, http.MethodGet, "/distribution", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting the report", func() {
			w := do(mux, http.MethodGet, "/report", "")
			var rep types.Report
			So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
			So(rep.SnapshotVersion, ShouldEqual, uint64(7))
			So(len(rep.Leaderboard), ShouldEqual, 3)
		})

		Convey("When the request context is cancelled upstream", func() {
			deps.err = context.Canceled
			w := do(mux, http.MethodGet, "/report", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestAuthHandler(t *testing.T) {
	Convey("Given an auth handler", t, func() {
		mux := newMux(newMockDeps(), map[string]interface{}{})

		Convey("When signing up a new user", func() {
			w := do(mux, http.MethodPost, "/signup", `{"username":"ada","password":"pw"}`)

			Convey("Then it returns 201 with the user ID", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(decodeError(w)["user_id"], ShouldEqual, "id-ada")
				So(decodeError(w)["message"], ShouldEqual, "User registered successfully")
			})

			Convey("And signing up again conflicts", func() {
				w := do(mux, http.MethodPost, "/signup", `{"username":"ada","password":"pw"}`)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w)["code"], ShouldEqual, "conflict")
				So(decodeError(w)["message"], ShouldEqual, "api.post_signup: conflict: duplicate username")
			})

			Convey("And logging in succeeds", func() {
				w := do(mux, http.MethodPost, "/login", `{"username":"ada","password":"pw"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeError(w)["message"], ShouldEqual, "Login successful")
			})

			Convey("And logging in with a wrong password is unauthorized", func() {
				w := do(mux, http.MethodPost, "/login", `{"username":"ada","password":"nope"}`)
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeError(w)["code"], ShouldEqual, "unauthorized")
				So(decodeError(w)["message"], ShouldEqual, "api.post_login: unauthorized: invalid credentials")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/signup", `username=ada`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fields are missing", func() {
			w := do(mux, http.MethodPost, "/signup", `{"username":"ada"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the password is longer than bcrypt accepts", func() {
			body := `{"username":"ada","password":"` + strings.Repeat("x", identity.MaxPasswordBytes+1) + `"}`
			w := do(mux, http.MethodPost, "/signup", body)

			Convey("Then it is a bad request, not a server error", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is too large", func() {
			big := `{"username":"` + strings.Repeat("a", 1<<17) + `","password":"pw"}`
			w := do(mux, http.MethodPost, "/signup", big)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the middleware chain", t, func() {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
		h := api.Chain(inner, []string{"http://localhost:5173"})

		Convey("When no request ID is sent", func() {
			w := do(h, http.MethodGet, "/", "")

			Convey("Then one is generated and echoed", func() {
				So(seen, ShouldNotBeEmpty)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When a request ID is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(seen, ShouldEqual, "abc-123")
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("When an allowed origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set("Origin", "http://localhost:5173")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:5173")
		})

		Convey("When an unknown origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set("Origin", "https://evil.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})

		Convey("When a preflight request arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/", http.NoBody)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is answered without reaching the handler", func() {
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, http.MethodPost)
				So(seen, ShouldBeEmpty)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrConflict)
			So(errors.Is(err, api.ErrConflict), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: conflict")
		})

		Convey("Then OpError without a kind reports only the cause", func() {
			err := &api.OpError{Op: "api.op", Err: cause}
			So(err.Error(), ShouldEqual, "api.op: boom")
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})
}
