package probe

import (
	"errors"
	"fmt"

	"github.com/axioma/trendboard/internal/domain/types"
)

// ErrInconsistent reports a response that violates the ranking contract.
var ErrInconsistent = errors.New("inconsistent response")

// verifyLeaderboard checks ranks run 1..n and counts never increase.
func verifyLeaderboard(entries []types.Entry, limit int) error {
	if len(entries) > limit {
		return fmt.Errorf("%w: %d entries for limit %d", ErrInconsistent, len(entries), limit)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrInconsistent, i, e.Rank)
		}
		if i > 0 && e.Count > entries[i-1].Count {
			return fmt.Errorf("%w: leaderboard not sorted: %q (%d) after %q (%d)",
				ErrInconsistent, e.Topic, e.Count, entries[i-1].Topic, entries[i-1].Count)
		}
	}
	return nil
}

// verifySame checks two leaderboards agree entry by entry. got may be
// shorter when it was fetched with a smaller limit.
func verifySame(label string, want, got []types.Entry) error {
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if want[i].Topic != got[i].Topic || want[i].Count != got[i].Count {
			return fmt.Errorf("%w: %s entry %d is %q (%d), expected %q (%d)",
				ErrInconsistent, label, i+1, got[i].Topic, got[i].Count, want[i].Topic, want[i].Count)
		}
	}
	return nil
}
