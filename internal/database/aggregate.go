package database

import (
	"math"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// Time-weighted totals are rates integrated per day.
const totalUnit = 24 * time.Hour

// aggregation calculates summaries of one interval.
type aggregation struct {
	from, to time.Time
	step     bool
	basis    query.CalculationBasis
	timeType query.TimestampCalculation
	// mask restricts the calculation to these spans; nil includes all.
	mask []span
	// lastInterval includes an event at to for event weighting.
	lastInterval bool
}

// stat is a value together with the time it occurred.
type stat struct {
	v  float64
	at time.Time
	ok bool
}

func (s *stat) min(v float64, at time.Time) {
	if !s.ok || v < s.v {
		*s = stat{v: v, at: at, ok: true}
	}
}

func (s *stat) max(v float64, at time.Time) {
	if !s.ok || v > s.v {
		*s = stat{v: v, at: at, ok: true}
	}
}

type accumulated struct {
	total, average, stdDev, popStdDev, count, percentGood stat
	minimum, maximum                                      stat
}

// summarize calculates the requested summaries over samples, which must be
// time ordered and may include the events just outside the interval.
func (a aggregation) summarize(samples []sample, types query.SummaryType) models.SummaryValues {
	var acc accumulated
	if a.basis.IsTimeWeighted() {
		acc = a.timeWeighted(samples)
	} else {
		acc = a.eventWeighted(samples)
	}

	out := make(models.SummaryValues)
	for _, flag := range types.Flags() {
		var st stat
		switch flag {
		case query.SummaryTotal, query.SummaryTotalWithUOM:
			st = acc.total
		case query.SummaryAverage:
			st = acc.average
		case query.SummaryMinimum:
			st = acc.minimum
		case query.SummaryMaximum:
			st = acc.maximum
		case query.SummaryRange:
			if acc.minimum.ok && acc.maximum.ok {
				st = stat{v: acc.maximum.v - acc.minimum.v, ok: true}
			}
		case query.SummaryStdDev:
			st = acc.stdDev
		case query.SummaryPopStdDev:
			st = acc.popStdDev
		case query.SummaryCount:
			st = acc.count
		case query.SummaryPercentGood:
			st = acc.percentGood
		}
		out[flag] = a.value(flag, st)
	}
	return out
}

func (a aggregation) value(flag query.SummaryType, st stat) models.RawValue {
	at := a.from
	switch {
	case a.timeType == query.TimestampMostRecent:
		at = a.to
	case a.timeType == query.TimestampAuto && st.ok && !st.at.IsZero() &&
		(flag == query.SummaryMinimum || flag == query.SummaryMaximum):
		at = st.at
	}
	rv := models.RawValue{Timestamp: timestamp.FromTime(at)}
	if st.ok {
		rv.Value = st.v
	}
	return rv
}

// segment is a piece of the interval over which the value is known.
type segment struct {
	from, to time.Time
	v0, v1   float64
	good     bool
}

func (s segment) dur() float64 { return s.to.Sub(s.from).Seconds() }

// integral of the value over the segment, in value-seconds.
func (s segment) integral() float64 { return (s.v0 + s.v1) / 2 * s.dur() }

// sqDev is the integral of (v - m)^2 over the segment.
func (s segment) sqDev(m float64) float64 {
	a, b := s.v0-m, s.v1-m
	return s.dur() * (a*a + a*b + b*b) / 3
}

func (a aggregation) stepped() bool {
	switch a.basis {
	case query.TimeWeightedDiscrete:
		return true
	case query.TimeWeightedContinuous:
		return false
	}
	return a.step
}

func (a aggregation) segments(samples []sample) []segment {
	step := a.stepped()
	var pts []sample
	if s, ok := valueAt(samples, a.from, step); ok {
		s.t = a.from
		pts = append(pts, s)
	}
	for _, s := range samples {
		if s.t.After(a.from) && s.t.Before(a.to) {
			pts = append(pts, s)
		}
	}
	if s, ok := valueAt(samples, a.to, step); ok && a.to.After(a.from) {
		s.t = a.to
		pts = append(pts, s)
	}

	var segs []segment
	for i := 0; i+1 < len(pts); i++ {
		p, q := pts[i], pts[i+1]
		if !q.t.After(p.t) {
			continue
		}
		for _, c := range clip(a.mask, p.t, q.t) {
			seg := segment{from: c.from, to: c.to, good: p.good}
			if p.good {
				seg.v0, seg.v1 = p.v, p.v
				if !step && q.good {
					seg.v0 = lerp(p, q, c.from)
					seg.v1 = lerp(p, q, c.to)
				}
			}
			segs = append(segs, seg)
		}
	}
	return segs
}

func (a aggregation) timeWeighted(samples []sample) accumulated {
	var acc accumulated
	segs := a.segments(samples)

	var goodDur, integral float64
	for _, s := range segs {
		if !s.good {
			continue
		}
		goodDur += s.dur()
		integral += s.integral()
		acc.minimum.min(s.v0, s.from)
		acc.minimum.min(s.v1, s.to)
		acc.maximum.max(s.v0, s.from)
		acc.maximum.max(s.v1, s.to)
	}

	var n int
	for _, s := range samples {
		if s.good && !s.t.Before(a.from) && !s.t.After(a.to) && inSpans(a.mask, s.t) {
			n++
		}
	}
	acc.count = stat{v: float64(n), ok: true}

	var totalDur float64
	for _, c := range clip(a.mask, a.from, a.to) {
		totalDur += c.to.Sub(c.from).Seconds()
	}
	if totalDur > 0 {
		acc.percentGood = stat{v: goodDur / totalDur * 100, ok: true}
	} else {
		acc.percentGood = stat{v: 0, ok: true}
	}

	if goodDur == 0 {
		return acc
	}
	mean := integral / goodDur
	acc.total = stat{v: integral / totalUnit.Seconds(), ok: true}
	acc.average = stat{v: mean, ok: true}

	var sq float64
	for _, s := range segs {
		if s.good {
			sq += s.sqDev(mean)
		}
	}
	pop := math.Sqrt(sq / goodDur)
	acc.popStdDev = stat{v: pop, ok: true}
	if good := countGood(segs); good > 1 {
		acc.stdDev = stat{v: pop * math.Sqrt(float64(good)/float64(good-1)), ok: true}
	}
	return acc
}

func countGood(segs []segment) int {
	n := 0
	for _, s := range segs {
		if s.good {
			n++
		}
	}
	return n
}

// included reports whether an event at t takes part in an event-weighted
// calculation.
func (a aggregation) included(t time.Time) bool {
	if t.Before(a.from) || t.After(a.to) {
		return false
	}
	atStart, atEnd := t.Equal(a.from), t.Equal(a.to)
	switch a.basis {
	case query.EventWeightedExcludeEarliest:
		if atStart {
			return false
		}
	case query.EventWeightedExcludeMostRecent:
		if atEnd {
			return false
		}
	case query.EventWeighted:
		if atEnd && !a.lastInterval {
			return false
		}
	}
	if a.mask == nil {
		return true
	}
	// the closing instant of a span still belongs to it for events
	for _, s := range a.mask {
		if !t.Before(s.from) && !t.After(s.to) {
			return true
		}
	}
	return false
}

func (a aggregation) eventWeighted(samples []sample) accumulated {
	var (
		acc        accumulated
		vals       []float64
		total, bad int
		sum        float64
	)
	for _, s := range samples {
		if !a.included(s.t) {
			continue
		}
		total++
		if !s.good {
			bad++
			continue
		}
		vals = append(vals, s.v)
		sum += s.v
		acc.minimum.min(s.v, s.t)
		acc.maximum.max(s.v, s.t)
	}

	n := len(vals)
	acc.count = stat{v: float64(n), ok: true}
	acc.percentGood = stat{v: 0, ok: true}
	if total > 0 {
		acc.percentGood.v = float64(total-bad) / float64(total) * 100
	}
	if n == 0 {
		return acc
	}
	mean := sum / float64(n)
	acc.total = stat{v: sum, ok: true}
	acc.average = stat{v: mean, ok: true}

	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	acc.popStdDev = stat{v: math.Sqrt(sq / float64(n)), ok: true}
	if n > 1 {
		acc.stdDev = stat{v: math.Sqrt(sq / float64(n-1)), ok: true}
	}
	return acc
}
