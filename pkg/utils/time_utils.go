package utils

import "time"

// Clock is injected wherever a rule depends on the current time.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayLabel renders a chart label such as "Jan 2".
func DayLabel(t time.Time) string {
	return t.Format("Jan 2")
}

// DateStamp renders t as YYYY-MM-DD, used in export file names.
func DateStamp(t time.Time) string {
	return t.Format("2006-01-02")
}
