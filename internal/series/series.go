// Package series defines the contract shared by every time-series-bearing
// entity and the algebra that composes them.
//
// # Contract
//
// A leaf entity (a raw measurement point, an asset attribute) supplies the
// backend Primitives. Container builds the public operations on top of them:
// it resolves boundary keys, normalizes filter expressions, validates
// enumeration values and converts raw backend values into models.Series and
// models.SummaryTable using the process-wide timestamp codec.
//
// Leaf types assert conformance at compile time:
//
//	var _ series.Primitives = (*Point)(nil)
//
// # Composition
//
// Applying an Operator to a Container yields a new Container backed by a
// Virtual. Nothing is evaluated until one of the public operations is
// called; each call then issues the same primitive on both operands and
// combines the results pointwise. Results are never cached.
//
//	flow, err := cat.Point(ctx, "FIC101.PV")
//	if err != nil {
//	    return err
//	}
//	total := flow.Mul(series.Scalar(3.6)).Add(other)
//	v, err := total.CurrentValue(ctx)
package series

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// Primitives is the full set of backend operations a series-bearing entity
// must supply. Time and interval arguments are passed to the backend as-is.
type Primitives interface {
	Name() string
	// UnitsOfMeasurement returns "" when the entity has no unit.
	UnitsOfMeasurement() string

	CurrentValue(ctx context.Context) (models.RawValue, error)
	RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error)
	InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error)
	RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, filter string) ([]models.RawValue, error)
	InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string) ([]models.RawValue, error)
	Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error)
	Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error)
	FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
		basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
		timeType query.TimestampCalculation) (models.SummarySeries, error)
	UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error
}

// FilterNormalizer is implemented by entities that rewrite filter
// expressions before they reach the backend, e.g. to substitute their own
// name for a placeholder.
type FilterNormalizer interface {
	NormalizeFilterExpression(filter string) string
}

// Container exposes the public retrieval and update operations of a
// series-bearing entity.
type Container struct {
	p Primitives
}

// New wraps p. p must not be nil.
func New(p Primitives) *Container {
	return &Container{p: p}
}

// Primitives returns the wrapped entity.
func (c *Container) Primitives() Primitives { return c.p }

func (c *Container) Name() string               { return c.p.Name() }
func (c *Container) UnitsOfMeasurement() string { return c.p.UnitsOfMeasurement() }

func (c *Container) String() string {
	return fmt.Sprintf("Series(%s [%s])", c.p.Name(), c.p.UnitsOfMeasurement())
}

// CurrentValue returns the most recent value.
func (c *Container) CurrentValue(ctx context.Context) (any, error) {
	v, err := c.p.CurrentValue(ctx)
	if err != nil {
		return nil, err
	}
	return v.Value, nil
}

// RecordedValue returns the recorded value at t, or near it as directed by
// mode, as a series of length one.
func (c *Container) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (*models.Series, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	v, err := c.p.RecordedValue(ctx, t, mode)
	if err != nil {
		return nil, err
	}
	return c.toSeries([]models.RawValue{v})
}

// InterpolatedValue returns the value interpolated at t as a series of
// length one.
func (c *Container) InterpolatedValue(ctx context.Context, t timespec.Time) (*models.Series, error) {
	v, err := c.p.InterpolatedValue(ctx, t)
	if err != nil {
		return nil, err
	}
	return c.toSeries([]models.RawValue{v})
}

// RecordedValues returns the recorded values between start and end. boundary
// is one of "inside", "outside" or "interpolate" (any case); filter is a
// backend filter expression, "" for none.
func (c *Container) RecordedValues(ctx context.Context, start, end timespec.Time, boundary, filter string) (*models.Series, error) {
	r, err := timespec.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	b, err := query.ParseBoundaryType(boundary)
	if err != nil {
		return nil, err
	}
	values, err := c.p.RecordedValues(ctx, r, b, c.normalizeFilter(filter))
	if err != nil {
		return nil, err
	}
	return c.toSeries(values)
}

// InterpolatedValues returns values interpolated between start and end at
// every interval, e.g. "1h".
func (c *Container) InterpolatedValues(ctx context.Context, start, end timespec.Time, interval, filter string) (*models.Series, error) {
	r, err := timespec.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireInterval("interval", interval); err != nil {
		return nil, err
	}
	values, err := c.p.InterpolatedValues(ctx, r, interval, c.normalizeFilter(filter))
	if err != nil {
		return nil, err
	}
	return c.toSeries(values)
}

// Summary calculates one or more summaries over the whole range. The table
// has one column per summary type, named after it (e.g. "AVERAGE").
func (c *Container) Summary(ctx context.Context, start, end timespec.Time, types query.SummaryType, opts ...SummaryOption) (*models.SummaryTable, error) {
	r, err := timespec.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	o, err := resolveSummaryOptions(types, opts)
	if err != nil {
		return nil, err
	}
	values, err := c.p.Summary(ctx, r, types, o.basis, o.timeType)
	if err != nil {
		return nil, err
	}

	table := models.NewSummaryTable()
	for _, key := range sortedKeys(values) {
		v := values[key]
		if err := table.Join(key.String(), []time.Time{timestamp.ToIndex(v.Timestamp)}, []any{v.Value}); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Summaries calculates one or more summaries for each interval in the range.
func (c *Container) Summaries(ctx context.Context, start, end timespec.Time, interval string, types query.SummaryType, opts ...SummaryOption) (*models.SummaryTable, error) {
	r, err := timespec.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireInterval("interval", interval); err != nil {
		return nil, err
	}
	o, err := resolveSummaryOptions(types, opts)
	if err != nil {
		return nil, err
	}
	values, err := c.p.Summaries(ctx, r, interval, types, o.basis, o.timeType)
	if err != nil {
		return nil, err
	}
	return summaryTable(values)
}

// FilteredSummaries calculates summaries per interval over the values that
// pass filter. The filter is sampled every filterInterval when evaluation is
// set to query.ExpressionInterval. Unset options default to time weighted,
// recorded-value filter evaluation and automatic timestamps.
func (c *Container) FilteredSummaries(ctx context.Context, start, end timespec.Time, interval, filter string,
	types query.SummaryType, filterInterval string, opts ...SummaryOption) (*models.SummaryTable, error) {
	r, err := timespec.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireInterval("interval", interval); err != nil {
		return nil, err
	}
	if err := requireInterval("filter_interval", filterInterval); err != nil {
		return nil, err
	}
	o, err := resolveSummaryOptions(types, opts)
	if err != nil {
		return nil, err
	}
	values, err := c.p.FilteredSummaries(ctx, r, interval, c.normalizeFilter(filter), types,
		o.basis, o.evaluation, filterInterval, o.timeType)
	if err != nil {
		return nil, err
	}
	return summaryTable(values)
}

// UpdateValue writes value. Without options the backend stamps it with the
// current time, does not replace an existing value and buffers if possible.
func (c *Container) UpdateValue(ctx context.Context, value any, opts ...UpdateOption) error {
	o := updateOptions{mode: query.UpdateNoReplace, buffer: query.BufferIfPossible}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.mode.Validate(); err != nil {
		return err
	}
	if err := o.buffer.Validate(); err != nil {
		return err
	}
	return c.p.UpdateValue(ctx, models.ValueEnvelope{Value: value, Time: o.time}, o.mode, o.buffer)
}

func (c *Container) normalizeFilter(filter string) string {
	if n, ok := c.p.(FilterNormalizer); ok {
		return n.NormalizeFilterExpression(filter)
	}
	return filter
}

func (c *Container) toSeries(values []models.RawValue) (*models.Series, error) {
	timestamps := make([]time.Time, len(values))
	vals := make([]any, len(values))
	for i, v := range values {
		timestamps[i] = timestamp.ToIndex(v.Timestamp)
		vals[i] = v.Value
	}
	return models.NewSeries(c.p.Name(), c.p.UnitsOfMeasurement(), timestamps, vals)
}

func summaryTable(values models.SummarySeries) (*models.SummaryTable, error) {
	table := models.NewSummaryTable()
	for _, key := range sortedKeys(values) {
		raw := values[key]
		timestamps := make([]time.Time, len(raw))
		vals := make([]any, len(raw))
		for i, v := range raw {
			timestamps[i] = timestamp.ToIndex(v.Timestamp)
			vals[i] = v.Value
		}
		if err := table.Join(key.String(), timestamps, vals); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func sortedKeys[V any](m map[query.SummaryType]V) []query.SummaryType {
	keys := make([]query.SummaryType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func requireInterval(name, interval string) error {
	if interval == "" {
		return fmt.Errorf("%w: %s is required", query.ErrInvalidParameter, name)
	}
	return nil
}
