package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// filterPlaceholder is replaced by the tag of the point in filter
// expressions.
const filterPlaceholder = "%tag%"

// Point is a raw measurement point.
type Point struct {
	client PointClient
	attrs  map[string]any
}

var (
	_ series.Primitives       = (*Point)(nil)
	_ series.FilterNormalizer = (*Point)(nil)
)

// NewPoint loads the raw attributes of the point behind client.
func NewPoint(ctx context.Context, client PointClient) (*Point, error) {
	attrs, err := client.RawAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes of %s: %w", client.Tag(), err)
	}
	return &Point{client: client, attrs: attrs}, nil
}

// Tag returns the name of the point.
func (p *Point) Tag() string  { return p.client.Tag() }
func (p *Point) Name() string { return p.client.Tag() }

func (p *Point) UnitsOfMeasurement() string { return p.attr(AttrEngUnits) }
func (p *Point) Description() string        { return p.attr(AttrDescriptor) }

// Created returns the creation time of the point, zero when unknown.
func (p *Point) Created() time.Time {
	switch v := p.attrs[AttrCreationDate].(type) {
	case models.RawTime:
		return timestamp.ToIndex(v)
	case time.Time:
		return timestamp.ToIndex(timestamp.FromTime(v))
	}
	return time.Time{}
}

// RawAttributes returns a copy of the attributes loaded from the backend.
func (p *Point) RawAttributes() map[string]any {
	out := make(map[string]any, len(p.attrs))
	for k, v := range p.attrs {
		out[k] = v
	}
	return out
}

// LastUpdate returns the time of the most recent value.
func (p *Point) LastUpdate(ctx context.Context) (time.Time, error) {
	v, err := p.client.CurrentValue(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return timestamp.ToIndex(v.Timestamp), nil
}

func (p *Point) NormalizeFilterExpression(filter string) string {
	return strings.ReplaceAll(filter, filterPlaceholder, p.client.Tag())
}

func (p *Point) CurrentValue(ctx context.Context) (models.RawValue, error) {
	return p.client.CurrentValue(ctx)
}

func (p *Point) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error) {
	return p.client.RecordedValue(ctx, t, mode)
}

func (p *Point) InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error) {
	return p.client.InterpolatedValue(ctx, t)
}

func (p *Point) RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, filter string) ([]models.RawValue, error) {
	return p.client.RecordedValues(ctx, r, boundary, filter, includeFilteredValues)
}

func (p *Point) InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string) ([]models.RawValue, error) {
	return p.client.InterpolatedValues(ctx, r, interval, filter, includeFilteredValues)
}

func (p *Point) Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	return p.client.Summary(ctx, r, types, basis, timeType)
}

func (p *Point) Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return p.client.Summaries(ctx, r, interval, types, basis, timeType)
}

func (p *Point) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return p.client.FilteredSummaries(ctx, r, interval, filter, types, basis, evaluation, filterInterval, timeType)
}

func (p *Point) UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	return p.client.UpdateValue(ctx, v, mode, buffer)
}

func (p *Point) attr(key string) string {
	if v, ok := p.attrs[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
