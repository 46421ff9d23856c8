package series

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeLeaf serves a fixed set of recorded values and counts the backend
// calls it receives.
type fakeLeaf struct {
	name   string
	units  string
	values []models.RawValue

	calls      atomic.Int32
	lastFilter string
	updates    []models.ValueEnvelope
	err        error
}

var (
	_ Primitives       = (*fakeLeaf)(nil)
	_ FilterNormalizer = (*fakeLeaf)(nil)
)

// newFakeLeaf returns a leaf with the values 1..n recorded one minute apart.
func newFakeLeaf(name string, n int) *fakeLeaf {
	f := &fakeLeaf{name: name, units: "m3/h"}
	for i := 1; i <= n; i++ {
		f.values = append(f.values, models.RawValue{
			Timestamp: timestamp.FromTime(baseTime.Add(time.Duration(i) * time.Minute)),
			Value:     float64(i),
		})
	}
	return f
}

func (f *fakeLeaf) Name() string               { return f.name }
func (f *fakeLeaf) UnitsOfMeasurement() string { return f.units }

func (f *fakeLeaf) NormalizeFilterExpression(filter string) string {
	return strings.ReplaceAll(filter, "%tag%", f.name)
}

func (f *fakeLeaf) last() models.RawValue { return f.values[len(f.values)-1] }

func (f *fakeLeaf) CurrentValue(context.Context) (models.RawValue, error) {
	f.calls.Add(1)
	if f.err != nil {
		return models.RawValue{}, f.err
	}
	return f.last(), nil
}

func (f *fakeLeaf) RecordedValue(context.Context, timespec.Time, query.RetrievalMode) (models.RawValue, error) {
	f.calls.Add(1)
	return f.values[0], f.err
}

func (f *fakeLeaf) InterpolatedValue(context.Context, timespec.Time) (models.RawValue, error) {
	f.calls.Add(1)
	return f.values[0], f.err
}

func (f *fakeLeaf) RecordedValues(_ context.Context, _ timespec.Range, _ query.BoundaryType, filter string) ([]models.RawValue, error) {
	f.calls.Add(1)
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.RawValue(nil), f.values...), nil
}

func (f *fakeLeaf) InterpolatedValues(_ context.Context, _ timespec.Range, _, filter string) ([]models.RawValue, error) {
	f.calls.Add(1)
	f.lastFilter = filter
	return append([]models.RawValue(nil), f.values...), f.err
}

func (f *fakeLeaf) Summary(_ context.Context, _ timespec.Range, types query.SummaryType,
	_ query.CalculationBasis, _ query.TimestampCalculation) (models.SummaryValues, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := models.SummaryValues{}
	for _, flag := range types.Flags() {
		out[flag] = models.RawValue{Timestamp: f.values[0].Timestamp, Value: f.summarize(flag)}
	}
	return out, nil
}

func (f *fakeLeaf) Summaries(_ context.Context, _ timespec.Range, _ string, types query.SummaryType,
	_ query.CalculationBasis, _ query.TimestampCalculation) (models.SummarySeries, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := models.SummarySeries{}
	for _, flag := range types.Flags() {
		out[flag] = []models.RawValue{
			{Timestamp: f.values[0].Timestamp, Value: f.summarize(flag)},
			{Timestamp: f.last().Timestamp, Value: f.summarize(flag)},
		}
	}
	return out, nil
}

func (f *fakeLeaf) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, _ query.ExpressionSampleType, _ string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	f.lastFilter = filter
	return f.Summaries(ctx, r, interval, types, basis, timeType)
}

func (f *fakeLeaf) UpdateValue(_ context.Context, v models.ValueEnvelope, _ query.UpdateMode, _ query.BufferMode) error {
	f.calls.Add(1)
	f.updates = append(f.updates, v)
	return f.err
}

func (f *fakeLeaf) summarize(flag query.SummaryType) float64 {
	var sum, maxV float64
	for _, v := range f.values {
		x := v.Value.(float64)
		sum += x
		if x > maxV {
			maxV = x
		}
	}
	switch flag {
	case query.SummaryMaximum:
		return maxV
	case query.SummaryCount:
		return float64(len(f.values))
	case query.SummaryAverage:
		return sum / float64(len(f.values))
	default:
		return sum
	}
}
