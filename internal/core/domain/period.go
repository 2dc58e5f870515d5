package domain

import (
	"strings"
	"time"
)

// Period is a leaderboard window.
type Period string

const (
	PeriodAllTime    Period = "all-time"
	PeriodLast7Days  Period = "last-7-days"
	PeriodLast30Days Period = "last-30-days"
)

var periodWindows = map[Period]time.Duration{
	PeriodLast7Days:  7 * 24 * time.Hour,
	PeriodLast30Days: 30 * 24 * time.Hour,
}

// ParsePeriod accepts the canonical names plus the short 7-day / 30-day forms.
// An empty string means all-time.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all-time", "all":
		return PeriodAllTime, nil
	case "last-7-days", "7-day", "7d":
		return PeriodLast7Days, nil
	case "last-30-days", "30-day", "30d":
		return PeriodLast30Days, nil
	default:
		return "", ValidationError("invalid period", ErrInvalidPeriod)
	}
}

// Window returns the look-back duration of a bounded period. ok is false for
// all-time.
func (p Period) Window() (d time.Duration, ok bool) {
	d, ok = periodWindows[p]
	return d, ok
}
