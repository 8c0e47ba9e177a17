// Package dedup suppresses rapid repeat purchase submissions. A mark lives for
// one window; a second identical request inside that window is a duplicate.
package dedup

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWindow    = 5 * time.Second
	minSweepInterval = 2 * time.Second
)

// Store keeps time-windowed marks. MemoryStore serves a single process;
// GormStore lets several processes share marks through the database.
type Store interface {
	Window() time.Duration
	IsDuplicate(ctx context.Context, key string, now time.Time) (bool, error)
	Mark(ctx context.Context, key string, now time.Time) error
	// TryMark marks key unless a live mark exists, in one atomic step.
	// It reports false when the key is a duplicate.
	TryMark(ctx context.Context, key string, now time.Time) (bool, error)
	Release(ctx context.Context, key string) error
	// Sweep evicts marks older than the window and reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// MakeKey is stable under reordering of productIDs. The slice is not modified.
func MakeKey(memberID uint, productIDs []uint) string {
	ids := make([]uint, len(productIDs))
	copy(ids, productIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strconv.FormatUint(uint64(memberID), 10) + "|" + strings.Join(parts, ",")
}

// SweepInterval is max(window, 2s).
func SweepInterval(window time.Duration) time.Duration {
	if window < minSweepInterval {
		return minSweepInterval
	}
	return window
}

func normalizeWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return DefaultWindow
	}
	return window
}
