package database

import (
	"sort"
	"time"
)

// span is the half-open interval [from, to).
type span struct {
	from, to time.Time
}

// valueAt returns the value of a time-ordered event sequence at t. An event
// exactly at t is returned as is; between two events the value is linear
// unless step is set or either neighbour is bad, in which case the earlier
// event holds. After the last event its value holds. It reports false when
// there is no event at or before t.
func valueAt(samples []sample, t time.Time, step bool) (sample, bool) {
	i := sort.Search(len(samples), func(i int) bool { return !samples[i].t.Before(t) })
	// the last of several events at t wins
	if i < len(samples) && samples[i].t.Equal(t) {
		for i+1 < len(samples) && samples[i+1].t.Equal(t) {
			i++
		}
		return samples[i], true
	}
	if i == 0 {
		return sample{}, false
	}
	prev := samples[i-1]
	held := sample{t: t, v: prev.v, good: prev.good}
	if step || i == len(samples) || !prev.good || !samples[i].good {
		return held, true
	}
	next := samples[i]
	return sample{t: t, v: lerp(prev, next, t), good: true}, true
}

func lerp(a, b sample, t time.Time) float64 {
	d := b.t.Sub(a.t)
	if d <= 0 {
		return b.v
	}
	frac := float64(t.Sub(a.t)) / float64(d)
	return a.v + (b.v-a.v)*frac
}

// steps returns from, from+interval, ... up to and including to.
func steps(from, to time.Time, interval time.Duration) []time.Time {
	var out []time.Time
	for t := from; !t.After(to); t = t.Add(interval) {
		out = append(out, t)
	}
	return out
}

// inSpans reports whether t lies in one of spans. A nil set contains every
// instant.
func inSpans(spans []span, t time.Time) bool {
	if spans == nil {
		return true
	}
	for _, s := range spans {
		if !t.Before(s.from) && t.Before(s.to) {
			return true
		}
	}
	return false
}

// clip intersects [from, to) with spans.
func clip(spans []span, from, to time.Time) []span {
	if spans == nil {
		return []span{{from, to}}
	}
	var out []span
	for _, s := range spans {
		a, b := s.from, s.to
		if a.Before(from) {
			a = from
		}
		if b.After(to) {
			b = to
		}
		if a.Before(b) {
			out = append(out, span{a, b})
		}
	}
	return out
}
