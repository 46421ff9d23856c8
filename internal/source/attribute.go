package source

import (
	"context"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// Attribute is an attribute of an asset element. Values are reported in the
// attribute's default unit of measure.
type Attribute struct {
	client AttributeClient
}

var _ series.Primitives = (*Attribute)(nil)

func NewAttribute(client AttributeClient) *Attribute {
	return &Attribute{client: client}
}

func (a *Attribute) Name() string               { return a.client.Name() }
func (a *Attribute) Element() string            { return a.client.Element() }
func (a *Attribute) Description() string        { return a.client.Description() }
func (a *Attribute) UnitsOfMeasurement() string { return a.client.DefaultUOM() }

// Parent returns the parent attribute, or nil for a root attribute.
func (a *Attribute) Parent(ctx context.Context) (*Attribute, error) {
	parent, err := a.client.Parent(ctx)
	if err != nil || parent == nil {
		return nil, err
	}
	return NewAttribute(parent), nil
}

// Children returns the direct child attributes keyed by name.
func (a *Attribute) Children(ctx context.Context) (map[string]*Attribute, error) {
	children, err := a.client.Children(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Attribute, len(children))
	for _, c := range children {
		out[c.Name()] = NewAttribute(c)
	}
	return out, nil
}

// LastUpdate returns the time of the current value.
func (a *Attribute) LastUpdate(ctx context.Context) (time.Time, error) {
	v, err := a.client.CurrentValue(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return timestamp.ToIndex(v.Timestamp), nil
}

func (a *Attribute) CurrentValue(ctx context.Context) (models.RawValue, error) {
	return a.client.CurrentValue(ctx)
}

func (a *Attribute) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error) {
	return a.client.RecordedValue(ctx, t, mode, a.client.DefaultUOM())
}

func (a *Attribute) InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error) {
	return a.client.InterpolatedValue(ctx, t, a.client.DefaultUOM())
}

func (a *Attribute) RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, filter string) ([]models.RawValue, error) {
	return a.client.RecordedValues(ctx, r, boundary, a.client.DefaultUOM(), filter, includeFilteredValues)
}

func (a *Attribute) InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string) ([]models.RawValue, error) {
	return a.client.InterpolatedValues(ctx, r, interval, a.client.DefaultUOM(), filter, includeFilteredValues)
}

func (a *Attribute) Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	return a.client.Summary(ctx, r, types, basis, timeType)
}

func (a *Attribute) Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return a.client.Summaries(ctx, r, interval, types, basis, timeType)
}

func (a *Attribute) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return a.client.FilteredSummaries(ctx, r, interval, filter, types, basis, evaluation, filterInterval, timeType)
}

func (a *Attribute) UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	return a.client.UpdateValue(ctx, v, mode, buffer)
}
