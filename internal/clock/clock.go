// Package clock produces shop-local civil time strings. The shop runs on a
// fixed UTC+9 offset with no DST, and all persisted timestamps use Layout so
// they compare correctly as plain strings.
package clock

import (
	"fmt"
	"sync"
	"time"
)

const Layout = "2006-01-02 15:04:05"

var ShopZone = time.FixedZone("JST", 9*60*60)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now() }

func Format(t time.Time) string {
	return t.In(ShopZone).Format(Layout)
}

func NowString(c Clock) string {
	return Format(c.Now())
}

// DaysAgo returns the civil time exactly days*24h before now.
func DaysAgo(c Clock, days int) string {
	return Format(c.Now().Add(-time.Duration(days) * 24 * time.Hour))
}

// MonthPrefix is the "YYYY-MM" prefix shared by every timestamp in that month.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Manual is a settable clock for tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
