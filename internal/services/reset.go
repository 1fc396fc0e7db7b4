package services

import (
	"fmt"
	"time"
)

// dayKey is the daily reset watermark: the calendar date of the observation.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekKey is the weekly reset watermark: the ISO week (Monday-start) of the
// observation, e.g. "2026-W35". The year is the ISO week-year, which can
// differ from the calendar year around January 1st.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
