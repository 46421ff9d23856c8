package models

import (
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// RawTime is the backend's native timestamp: calendar fields in UTC with
// millisecond resolution.
type RawTime struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	Day         int `json:"day"`
	Hour        int `json:"hour"`
	Minute      int `json:"minute"`
	Second      int `json:"second"`
	Millisecond int `json:"millisecond"`
}

// Compare orders two raw timestamps; it returns -1, 0 or +1.
func (t RawTime) Compare(o RawTime) int {
	a := [...]int{t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millisecond}
	b := [...]int{o.Year, o.Month, o.Day, o.Hour, o.Minute, o.Second, o.Millisecond}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// RawValue is a single value as returned by the data backend.
type RawValue struct {
	Timestamp RawTime `json:"timestamp"`
	Value     any     `json:"value"`
}

// ValueEnvelope wraps a value to be written. A nil Time lets the backend
// pick the current time.
type ValueEnvelope struct {
	Value any
	Time  *timespec.Time
}

// SummaryValues is the backend result of a single-range summary.
type SummaryValues map[query.SummaryType]RawValue

// SummarySeries is the backend result of a per-interval summary.
type SummarySeries map[query.SummaryType][]RawValue
