package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// reader implements the retrieval primitives of one tag. Values pass through
// conv on the way out; filters always see raw values.
type reader struct {
	repo *PostgresRepo
	tag  string
	step bool
	conv conversion
}

func (rd *reader) convert(samples []sample) []sample {
	if rd.conv.identity() {
		return samples
	}
	out := make([]sample, len(samples))
	for i, s := range samples {
		if s.good {
			s.v = rd.conv.apply(s.v)
		}
		out[i] = s
	}
	return out
}

func (rd *reader) raw(samples []sample) []models.RawValue {
	samples = rd.convert(samples)
	out := make([]models.RawValue, len(samples))
	for i, s := range samples {
		out[i] = s.raw()
	}
	return out
}

func (rd *reader) one(s sample) models.RawValue {
	return rd.convert([]sample{s})[0].raw()
}

func (rd *reader) currentValue(ctx context.Context) (models.RawValue, error) {
	s, ok, err := rd.repo.latest(ctx, rd.tag)
	if err != nil {
		return models.RawValue{}, err
	}
	if !ok {
		return models.RawValue{}, fmt.Errorf("%s: %w", rd.tag, ErrNoData)
	}
	return rd.one(s), nil
}

func (rd *reader) recordedValue(ctx context.Context, at timespec.Time, mode query.RetrievalMode) (models.RawValue, error) {
	t, err := rd.repo.resolve(at)
	if err != nil {
		return models.RawValue{}, err
	}

	var (
		s  sample
		ok bool
	)
	switch mode {
	case query.RetrievalAtOrBefore:
		s, ok, err = rd.repo.before(ctx, rd.tag, t, true)
	case query.RetrievalBefore:
		s, ok, err = rd.repo.before(ctx, rd.tag, t, false)
	case query.RetrievalAtOrAfter:
		s, ok, err = rd.repo.after(ctx, rd.tag, t, true)
	case query.RetrievalAfter:
		s, ok, err = rd.repo.after(ctx, rd.tag, t, false)
	case query.RetrievalExact:
		s, ok, err = rd.repo.before(ctx, rd.tag, t, true)
		ok = ok && s.t.Equal(t)
	case query.RetrievalAuto:
		s, ok, err = rd.repo.before(ctx, rd.tag, t, true)
		if err == nil && !ok {
			s, ok, err = rd.repo.after(ctx, rd.tag, t, false)
		}
	default:
		return models.RawValue{}, mode.Validate()
	}
	if err != nil {
		return models.RawValue{}, err
	}
	if !ok {
		return models.RawValue{}, fmt.Errorf("%s at %s (%s): %w", rd.tag, t.Format(time.RFC3339), mode, ErrNoData)
	}
	return rd.one(s), nil
}

func (rd *reader) interpolatedValue(ctx context.Context, at timespec.Time) (models.RawValue, error) {
	t, err := rd.repo.resolve(at)
	if err != nil {
		return models.RawValue{}, err
	}
	samples, err := rd.repo.window(ctx, rd.tag, t, t)
	if err != nil {
		return models.RawValue{}, err
	}
	s, ok := valueAt(samples, t, rd.step)
	if !ok {
		return models.RawValue{}, fmt.Errorf("%s at %s: %w", rd.tag, t.Format(time.RFC3339), ErrNoData)
	}
	s.t = t
	return rd.one(s), nil
}

// ordered resolves tr; reversed ranges are walked forwards and the result
// flipped by the caller.
func (rd *reader) ordered(tr timespec.Range) (from, to time.Time, reversed bool, err error) {
	from, to, err = rd.repo.resolveRange(tr)
	if err != nil {
		return
	}
	if from.After(to) {
		return to, from, true, nil
	}
	return from, to, false, nil
}

// interval parses an interval string and rejects it when [from, to] would be
// cut into more pieces than the repository allows.
func (rd *reader) interval(name, interval string, from, to time.Time) (time.Duration, error) {
	iv, err := timespec.ParseSpan(interval)
	if err != nil {
		return 0, err
	}
	if n := int64(to.Sub(from)/iv) + 1; n > int64(rd.repo.maxIntervals) {
		return 0, fmt.Errorf("%w: %s %q yields %d intervals, the limit is %d",
			query.ErrInvalidParameter, name, interval, n, rd.repo.maxIntervals)
	}
	return iv, nil
}

func (rd *reader) recordedValues(ctx context.Context, tr timespec.Range, boundary query.BoundaryType,
	filter string, includeFiltered bool) ([]models.RawValue, error) {
	from, to, reversed, err := rd.ordered(tr)
	if err != nil {
		return nil, err
	}

	var samples []sample
	switch boundary {
	case query.BoundaryInside:
		samples, err = rd.repo.between(ctx, rd.tag, from, to)
	case query.BoundaryOutside:
		samples, err = rd.repo.window(ctx, rd.tag, from, to)
	case query.BoundaryInterpolated:
		samples, err = rd.interpolatedBounds(ctx, from, to)
	default:
		return nil, boundary.Validate()
	}
	if err != nil {
		return nil, err
	}

	samples, err = rd.applyFilter(ctx, samples, filter, includeFiltered)
	if err != nil {
		return nil, err
	}
	if reversed {
		slices.Reverse(samples)
	}
	return rd.raw(samples), nil
}

func (rd *reader) interpolatedBounds(ctx context.Context, from, to time.Time) ([]sample, error) {
	win, err := rd.repo.window(ctx, rd.tag, from, to)
	if err != nil {
		return nil, err
	}
	var out []sample
	if s, ok := valueAt(win, from, rd.step); ok {
		s.t = from
		out = append(out, s)
	}
	for _, s := range win {
		if s.t.After(from) && s.t.Before(to) {
			out = append(out, s)
		}
	}
	if s, ok := valueAt(win, to, rd.step); ok && to.After(from) {
		s.t = to
		out = append(out, s)
	}
	return out, nil
}

func (rd *reader) interpolatedValues(ctx context.Context, tr timespec.Range, interval, filter string,
	includeFiltered bool) ([]models.RawValue, error) {
	from, to, reversed, err := rd.ordered(tr)
	if err != nil {
		return nil, err
	}
	iv, err := rd.interval("interval", interval, from, to)
	if err != nil {
		return nil, err
	}
	win, err := rd.repo.window(ctx, rd.tag, from, to)
	if err != nil {
		return nil, err
	}

	var samples []sample
	for _, t := range steps(from, to, iv) {
		if s, ok := valueAt(win, t, rd.step); ok {
			s.t = t
			samples = append(samples, s)
		}
	}

	samples, err = rd.applyFilter(ctx, samples, filter, includeFiltered)
	if err != nil {
		return nil, err
	}
	if reversed {
		slices.Reverse(samples)
	}
	return rd.raw(samples), nil
}

// applyFilter drops the samples for which filter does not hold, or marks
// them bad when includeFiltered is set.
func (rd *reader) applyFilter(ctx context.Context, samples []sample, filter string, includeFiltered bool) ([]sample, error) {
	if filter == "" || len(samples) == 0 {
		return samples, nil
	}
	expr, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	env, err := rd.filterEnv(ctx, expr, samples[0].t, samples[len(samples)-1].t)
	if err != nil {
		return nil, err
	}

	out := samples[:0:0]
	for _, s := range samples {
		if expr.eval(env.at(s.t)) {
			out = append(out, s)
		} else if includeFiltered {
			out = append(out, sample{t: s.t})
		}
	}
	return out, nil
}

// filterEnv holds the events of every tag a filter references.
type filterEnv struct {
	series map[string][]sample
	steps  map[string]bool
}

func (rd *reader) filterEnv(ctx context.Context, expr *filterExpr, from, to time.Time) (*filterEnv, error) {
	env := &filterEnv{series: map[string][]sample{}, steps: map[string]bool{}}
	for _, tag := range expr.tags {
		win, err := rd.repo.window(ctx, tag, from, to)
		if err != nil {
			return nil, err
		}
		env.series[tag] = win
		env.steps[tag] = tag == rd.tag && rd.step
	}
	return env, nil
}

func (e *filterEnv) at(t time.Time) filterLookup {
	return func(tag string) (sample, bool) {
		return valueAt(e.series[tag], t, e.steps[tag])
	}
}

func (rd *reader) summary(ctx context.Context, tr timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	from, to, _, err := rd.ordered(tr)
	if err != nil {
		return nil, err
	}
	win, err := rd.repo.window(ctx, rd.tag, from, to)
	if err != nil {
		return nil, err
	}
	agg := aggregation{from: from, to: to, step: rd.step, basis: basis, timeType: timeType, lastInterval: true}
	return agg.summarize(rd.convert(win), types), nil
}

func (rd *reader) summaries(ctx context.Context, tr timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return rd.intervalSummaries(ctx, tr, interval, types, basis, timeType, nil)
}

func (rd *reader) filteredSummaries(ctx context.Context, tr timespec.Range, interval, filter string,
	types query.SummaryType, basis query.CalculationBasis, evaluation query.ExpressionSampleType,
	filterInterval string, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	if filter == "" {
		return rd.summaries(ctx, tr, interval, types, basis, timeType)
	}
	if evaluation == query.ExpressionInterval {
		from, to, _, err := rd.ordered(tr)
		if err != nil {
			return nil, err
		}
		if _, err := rd.interval("filter_interval", filterInterval, from, to); err != nil {
			return nil, err
		}
	}
	mask := func(win []sample, from, to time.Time) ([]span, error) {
		return rd.filterMask(ctx, win, filter, evaluation, filterInterval, from, to)
	}
	return rd.intervalSummaries(ctx, tr, interval, types, basis, timeType, mask)
}

type maskFunc func(win []sample, from, to time.Time) ([]span, error)

func (rd *reader) intervalSummaries(ctx context.Context, tr timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation, mask maskFunc) (models.SummarySeries, error) {
	from, to, _, err := rd.ordered(tr)
	if err != nil {
		return nil, err
	}
	iv, err := rd.interval("interval", interval, from, to)
	if err != nil {
		return nil, err
	}
	win, err := rd.repo.window(ctx, rd.tag, from, to)
	if err != nil {
		return nil, err
	}

	var spans []span
	if mask != nil {
		if spans, err = mask(win, from, to); err != nil {
			return nil, err
		}
		if spans == nil {
			spans = []span{}
		}
	}

	converted := rd.convert(win)
	out := make(models.SummarySeries)
	for start := from; start.Before(to); start = start.Add(iv) {
		end := start.Add(iv)
		if end.After(to) {
			end = to
		}
		agg := aggregation{
			from: start, to: end, step: rd.step, basis: basis, timeType: timeType,
			mask: spans, lastInterval: !end.Before(to),
		}
		for k, v := range agg.summarize(converted, types) {
			out[k] = append(out[k], v)
		}
	}
	return out, nil
}

// filterMask returns the spans of [from, to) during which filter holds. With
// recorded-value evaluation the filter is evaluated at every event of the
// tag; otherwise every filterInterval. A result holds until the next
// evaluation.
func (rd *reader) filterMask(ctx context.Context, win []sample, filter string, evaluation query.ExpressionSampleType,
	filterInterval string, from, to time.Time) ([]span, error) {
	expr, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	env, err := rd.filterEnv(ctx, expr, from, to)
	if err != nil {
		return nil, err
	}

	var at []time.Time
	switch evaluation {
	case query.ExpressionInterval:
		fi, err := rd.interval("filter_interval", filterInterval, from, to)
		if err != nil {
			return nil, err
		}
		at = steps(from, to, fi)
	default:
		at = append(at, from)
		for _, s := range win {
			if s.t.After(from) && s.t.Before(to) {
				at = append(at, s.t)
			}
		}
	}

	var spans []span
	for i, t := range at {
		if t.Equal(to) {
			break
		}
		end := to
		if i+1 < len(at) && at[i+1].Before(to) {
			end = at[i+1]
		}
		if !expr.eval(env.at(t)) {
			continue
		}
		if n := len(spans); n > 0 && spans[n-1].to.Equal(t) {
			spans[n-1].to = end
			continue
		}
		spans = append(spans, span{t, end})
	}
	return spans, nil
}

// updateValue writes v according to mode. Inserts are buffered when the
// buffer mode allows it and the repository has a buffer.
func (rd *reader) updateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	t := rd.repo.now()
	if v.Time != nil {
		var err error
		if t, err = rd.repo.resolve(*v.Time); err != nil {
			return err
		}
	}
	val := v.Value
	if !rd.conv.identity() && val != nil {
		f, err := models.ToFloat(val)
		if err != nil {
			return err
		}
		val = rd.conv.invert(f)
	}
	stored, err := storedValue(val)
	if err != nil {
		return err
	}
	repo := rd.repo

	switch mode {
	case query.UpdateInsert, query.UpdateInsertNoCompression:
		if buffer != query.DoNotBuffer {
			buffered, err := repo.buffer(ctx, rd.tag, models.RawValue{Timestamp: timestamp.FromTime(t), Value: val})
			if err != nil || buffered {
				return err
			}
			if buffer == query.Buffer {
				return ErrBufferUnavailable
			}
		}
		return repo.insert(ctx, rd.tag, t, stored)
	}

	// the remaining modes read existing events, so pending inserts go first
	if err := repo.Flush(ctx); err != nil {
		return err
	}
	switch mode {
	case query.UpdateReplace:
		n, err := repo.replace(ctx, rd.tag, t, stored)
		if err != nil || n > 0 {
			return err
		}
		return repo.insert(ctx, rd.tag, t, stored)
	case query.UpdateNoReplace:
		exists, err := repo.exists(ctx, rd.tag, t)
		if err != nil || exists {
			return err
		}
		return repo.insert(ctx, rd.tag, t, stored)
	case query.UpdateReplaceOnly:
		n, err := repo.replace(ctx, rd.tag, t, stored)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s at %s: %w", rd.tag, t.Format(time.RFC3339), ErrNoData)
		}
		return nil
	case query.UpdateRemove:
		n, err := repo.remove(ctx, rd.tag, t)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s at %s: %w", rd.tag, t.Format(time.RFC3339), ErrNoData)
		}
		return nil
	}
	return mode.Validate()
}
