// Package timespec normalizes the time inputs accepted by series queries.
//
// A Time is either an absolute instant or a backend-relative expression such
// as "*-1d" (one day before now) or "t+8h" (08:00 today). A Range pairs two of
// them. Neither is evaluated here; evaluation of relative expressions is up to
// the data backend, which may use Resolve.
package timespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyTime    = errors.New("empty time specification")
	ErrInvalidTime  = errors.New("invalid time expression")
	ErrInvalidSpan  = errors.New("invalid time span")
	ErrInvalidRange = errors.New("invalid time range")
)

// absoluteLayouts are tried in order by Parse.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time is a point in time as understood by the data backend.
type Time struct {
	abs  time.Time
	expr string
}

// At returns an absolute Time.
func At(t time.Time) Time {
	return Time{abs: t}
}

// Expr returns a relative Time. The expression is passed through unparsed.
func Expr(expr string) Time {
	return Time{expr: strings.TrimSpace(expr)}
}

// Now is the relative expression "*".
func Now() Time {
	return Expr("*")
}

// Parse turns s into an absolute Time when it matches one of the supported
// calendar layouts, and into a relative expression otherwise.
func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, ErrEmptyTime
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}
	return Expr(s), nil
}

// IsZero reports whether t was never set.
func (t Time) IsZero() bool {
	return t.abs.IsZero() && t.expr == ""
}

// IsAbsolute reports whether t holds a calendar instant.
func (t Time) IsAbsolute() bool {
	return t.expr == "" && !t.abs.IsZero()
}

// Absolute returns the calendar instant of an absolute Time.
func (t Time) Absolute() time.Time {
	return t.abs
}

// Expression returns the relative expression of a relative Time.
func (t Time) Expression() string {
	return t.expr
}

// String renders absolute times in ISO 8601 and relative ones verbatim.
func (t Time) String() string {
	if t.expr != "" {
		return t.expr
	}
	if t.abs.IsZero() {
		return ""
	}
	return t.abs.Format(time.RFC3339Nano)
}

// Resolve evaluates t against now. Day-based bases ("t", "y") are computed in
// loc; a nil loc means UTC.
func (t Time) Resolve(now time.Time, loc *time.Location) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrEmptyTime
	}
	if t.IsAbsolute() {
		return t.abs, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return resolveExpr(t.expr, now.In(loc))
}

func resolveExpr(expr string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)
	s := strings.ToLower(trimmed)
	var base time.Time
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.HasPrefix(s, "+"), strings.HasPrefix(s, "-"):
		base = now
	case strings.HasPrefix(s, "*"):
		base, s = now, s[1:]
	case strings.HasPrefix(s, "today"):
		base, s = midnight, s[len("today"):]
	case strings.HasPrefix(s, "yesterday"):
		base, s = midnight.AddDate(0, 0, -1), s[len("yesterday"):]
	case strings.HasPrefix(s, "t"):
		base, s = midnight, s[1:]
	case strings.HasPrefix(s, "y"):
		base, s = midnight.AddDate(0, 0, -1), s[1:]
	default:
		// An absolute literal optionally followed by offsets.
		idx := offsetStart(s)
		abs, err := Parse(trimmed[:idx])
		if err != nil || !abs.IsAbsolute() {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, expr)
		}
		base, s = abs.Absolute(), s[idx:]
	}

	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		sign := 1
		switch s[0] {
		case '+':
		case '-':
			sign = -1
		default:
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, expr)
		}
		s = strings.TrimSpace(s[1:])
		end := 1
		for end < len(s) && s[end] != '+' && s[end] != '-' {
			end++
		}
		d, err := ParseSpan(s[:end])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, expr)
		}
		base = base.Add(time.Duration(sign) * d)
		s = s[end:]
	}
	return base, nil
}

// offsetStart finds where trailing "+1h"/"-2d" offsets begin in an absolute
// literal. Dashes inside the date part are skipped.
func offsetStart(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != '+' && s[i] != '-' {
			continue
		}
		if _, err := ParseSpan(strings.TrimSpace(s[i+1:])); err == nil {
			return offsetStart(s[:i])
		}
		return len(s)
	}
	return len(s)
}

var spanUnits = map[string]time.Duration{
	"ms":      time.Millisecond,
	"s":       time.Second,
	"sec":     time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"w":       7 * 24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
}

// ParseSpan parses interval strings such as "1h", "15m", "1.5d" or "2 weeks".
func ParseSpan(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	unit, ok := spanUnits[strings.TrimSpace(s[i:])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	d := time.Duration(n * float64(unit))
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	return d, nil
}

// Range is a half-open time range as accepted by the backend.
type Range struct {
	Start Time
	End   Time
}

// NewRange pairs start and end. Both must be set.
func NewRange(start, end Time) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	return Range{Start: start, End: end}, nil
}

// Resolve evaluates both bounds against the same now.
func (r Range) Resolve(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := r.Start.Resolve(now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := r.End.Resolve(now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (r Range) String() string {
	return r.Start.String() + " / " + r.End.String()
}
