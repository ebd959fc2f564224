// Package probe drives a running trendboard server with concurrent reads,
// then checks that what it serves is internally consistent.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/axioma/trendboard/internal/domain/types"
	"github.com/axioma/trendboard/pkg/logger"
)

// ErrUnhealthy reports a failed /healthz check.
var ErrUnhealthy = errors.New("service unhealthy")

// readRoutes are cycled through by the load phase.
var readRoutes = []string{ //nolint:gochecknoglobals // fixed route table
	"/leaderboard",
	"/topics",
	"/classification",
	"/overlap",
	"/influence",
	"/newsroom",
	"/report",
}

// Run probes the service at cfg.BaseURL. When expected is non-empty the
// served leaderboard must match it. Consistency failures are collected in
// Stats.Mismatches; transport failures abort the run.
func Run(ctx context.Context, cfg Config, expected []types.Entry) (*Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Named("probe")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{StartTime: time.Now(), StatusCounts: map[string]int{}}

	log.Info(ctx, "starting trendboard probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN))

	// Step 1: Check service health
	var health struct {
		Status          string `json:"status"`
		SnapshotVersion uint64 `json:"snapshot_version"`
	}
	status, err := client.getJSON(ctx, "/healthz", &health)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	stats.SnapshotVersion = health.SnapshotVersion

	// Step 2: Concurrent reads across every panel
	if err := load(ctx, client, cfg, stats); err != nil {
		return nil, err
	}

	// Step 3: Verify the leaderboard and the report agree
	if err := verifyReads(ctx, client, cfg, expected, stats); err != nil {
		return nil, err
	}

	// Step 4: Signup and login round trip
	if !cfg.SkipAuth {
		if err := checkAuth(ctx, client, stats); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	if stats.Duration > 0 {
		stats.RequestsPerSecond = float64(stats.RequestsSent) / stats.Duration.Seconds()
	}

	log.Info(ctx, "probe completed",
		logger.Int("sent", stats.RequestsSent),
		logger.Int("failed", stats.RequestsFailed),
		logger.Int("mismatches", len(stats.Mismatches)),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

func load(ctx context.Context, client *httpClient, cfg Config, stats *Stats) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Requests; i++ {
		route := readRoutes[i%len(readRoutes)]
		g.Go(func() error {
			status, err := client.getJSON(gctx, route, nil)
			mu.Lock()
			defer mu.Unlock()
			stats.RequestsSent++
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.RequestsFailed++
				return nil
			}
			stats.StatusCounts[strconv.Itoa(status)]++
			if status == http.StatusOK {
				stats.RequestsSuccessful++
			} else {
				stats.RequestsFailed++
			}
			return nil
		})
	}
	return g.Wait()
}

func verifyReads(ctx context.Context, client *httpClient, cfg Config, expected []types.Entry, stats *Stats) error {
	var board []types.Entry
	path := "/leaderboard?limit=" + strconv.Itoa(cfg.TopN)
	if _, err := client.getJSON(ctx, path, &board); err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(board)

	var report types.Report
	if _, err := client.getJSON(ctx, "/report", &report); err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	mismatch := func(err error) {
		if err != nil {
			stats.Mismatches = append(stats.Mismatches, err.Error())
		}
	}
	mismatch(verifyLeaderboard(board, cfg.TopN))
	// A reload between the two reads changes the version; only compare
	// leaderboards computed from the same snapshot.
	if report.SnapshotVersion == stats.SnapshotVersion {
		mismatch(verifySame("report", board, report.Leaderboard))
	}
	if len(expected) > 0 {
		mismatch(verifySame("leaderboard", expected, board))
	}
	return nil
}

func checkAuth(ctx context.Context, client *httpClient, stats *Stats) error {
	creds := map[string]string{
		"username": "probe-" + uuid.NewString(),
		"password": uuid.NewString(),
	}
	status, err := client.postJSON(ctx, "/signup", creds, nil)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	if status != http.StatusCreated {
		stats.Mismatches = append(stats.Mismatches, fmt.Sprintf("signup returned %d", status))
		return nil
	}
	if status, err = client.postJSON(ctx, "/signup", creds, nil); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	if status != http.StatusConflict {
		stats.Mismatches = append(stats.Mismatches, fmt.Sprintf("duplicate signup returned %d", status))
	}

	if status, err = client.postJSON(ctx, "/login", creds, nil); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if status != http.StatusOK {
		stats.Mismatches = append(stats.Mismatches, fmt.Sprintf("login returned %d", status))
	}

	creds["password"] += "-wrong"
	if status, err = client.postJSON(ctx, "/login", creds, nil); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if status != http.StatusUnauthorized {
		stats.Mismatches = append(stats.Mismatches, fmt.Sprintf("bad login returned %d", status))
	}
	stats.AuthChecked = true
	return nil
}
