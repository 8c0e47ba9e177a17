package clock

import (
	"testing"
	"time"
)

func TestFormatUsesFixedOffset(t *testing.T) {
	utc := time.Date(2025, 3, 31, 20, 30, 15, 0, time.UTC)
	if got := Format(utc); got != "2025-04-01 05:30:15" {
		t.Fatalf("Format = %q", got)
	}
}

func TestDaysAgo(t *testing.T) {
	c := NewManual(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	cases := []struct {
		days int
		want string
	}{
		{0, "2025-03-10 09:00:00"},
		{7, "2025-03-03 09:00:00"},
		{30, "2025-02-08 09:00:00"},
	}
	for _, tc := range cases {
		if got := DaysAgo(c, tc.days); got != tc.want {
			t.Errorf("DaysAgo(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestStringsSortChronologically(t *testing.T) {
	c := NewManual(time.Date(2025, 12, 31, 14, 59, 59, 0, time.UTC))
	before := NowString(c)
	c.Advance(time.Second)
	after := NowString(c)
	if !(before < after) {
		t.Fatalf("%q should sort before %q", before, after)
	}
	if after != "2026-01-01 00:00:00" {
		t.Fatalf("year rollover = %q", after)
	}
}

func TestMonthPrefix(t *testing.T) {
	if got := MonthPrefix(2025, 3); got != "2025-03" {
		t.Fatalf("MonthPrefix = %q", got)
	}
}
