package fetch

import "time"

// IsTradingDay reports whether t falls Monday-Friday in UTC.
// US market holidays are not modeled; a holiday run fetches stale quotes,
// which is harmless.
func IsTradingDay(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// NextUpdate returns the next scheduled fetch slot after now: the next
// weekday at hourUTC:00, with a past-deadline day moved forward one day and
// weekend slots rolled to Monday.
func NextUpdate(now time.Time, hourUTC int) time.Time {
	now = now.UTC()

	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	switch next.Weekday() {
	case time.Saturday:
		next = next.AddDate(0, 0, 2)
	case time.Sunday:
		next = next.AddDate(0, 0, 1)
	}

	return next
}
