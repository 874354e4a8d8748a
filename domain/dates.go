package domain

import (
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf returns the calendar day of t (in t's own location) as midnight UTC,
// which is how DATE columns round-trip through pgx.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 input.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// WeekStart returns the most recent Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	day := DateOf(t)
	return day.AddDate(0, 0, -int(t.Weekday()))
}

// DaysBetween returns the number of whole 24h periods from since to now.
func DaysBetween(since, now time.Time) int {
	if now.Before(since) {
		return 0
	}
	return int(now.Sub(since) / (24 * time.Hour))
}

// CompletionRate returns completed/total as a percentage; 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// RoundHalfUp rounds like Math.round in the browser: .5 goes up.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
