package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/source"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

type pointMeta struct {
	tag        string
	engUnits   string
	descriptor string
	step       bool
	created    time.Time
}

// pointHandle is the backend handle of a row in points.
type pointHandle struct {
	*reader
	meta pointMeta
}

var _ source.PointClient = (*pointHandle)(nil)

func (h *pointHandle) Tag() string { return h.meta.tag }

func (h *pointHandle) RawAttributes(context.Context) (map[string]any, error) {
	attrs := map[string]any{
		source.AttrEngUnits:   h.meta.engUnits,
		source.AttrDescriptor: h.meta.descriptor,
		"step":                h.meta.step,
	}
	if !h.meta.created.IsZero() {
		attrs[source.AttrCreationDate] = timestamp.FromTime(h.meta.created)
	}
	return attrs, nil
}

func (h *pointHandle) CurrentValue(ctx context.Context) (models.RawValue, error) {
	return h.currentValue(ctx)
}

func (h *pointHandle) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error) {
	return h.recordedValue(ctx, t, mode)
}

func (h *pointHandle) InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error) {
	return h.interpolatedValue(ctx, t)
}

func (h *pointHandle) RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType,
	filter string, includeFiltered bool) ([]models.RawValue, error) {
	return h.recordedValues(ctx, r, boundary, filter, includeFiltered)
}

func (h *pointHandle) InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string,
	includeFiltered bool) ([]models.RawValue, error) {
	return h.interpolatedValues(ctx, r, interval, filter, includeFiltered)
}

func (h *pointHandle) Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	return h.summary(ctx, r, types, basis, timeType)
}

func (h *pointHandle) Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return h.summaries(ctx, r, interval, types, basis, timeType)
}

func (h *pointHandle) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return h.filteredSummaries(ctx, r, interval, filter, types, basis, evaluation, filterInterval, timeType)
}

func (h *pointHandle) UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	return h.updateValue(ctx, v, mode, buffer)
}

type attributeMeta struct {
	element     string
	name        string
	parent      string
	tag         string
	defaultUOM  string
	description string
	pointUnits  string
}

// attributeHandle is the backend handle of a row in attributes. Its data
// comes from the referenced point, converted from the point's engineering
// units.
type attributeHandle struct {
	repo   *PostgresRepo
	reader *reader
	meta   attributeMeta
}

var _ source.AttributeClient = (*attributeHandle)(nil)

func (h *attributeHandle) Element() string     { return h.meta.element }
func (h *attributeHandle) Name() string        { return h.meta.name }
func (h *attributeHandle) Description() string { return h.meta.description }
func (h *attributeHandle) DefaultUOM() string  { return h.meta.defaultUOM }

func (h *attributeHandle) Parent(ctx context.Context) (source.AttributeClient, error) {
	if h.meta.parent == "" {
		return nil, nil
	}
	return h.repo.LookupAttribute(ctx, h.meta.element, h.meta.parent)
}

func (h *attributeHandle) Children(ctx context.Context) ([]source.AttributeClient, error) {
	return h.repo.childAttributes(ctx, h.meta.element, h.meta.name)
}

// data returns a reader reporting values in uom, the default unit when
// empty.
func (h *attributeHandle) data(uom string) (*reader, error) {
	if h.reader == nil {
		return nil, fmt.Errorf("%s|%s: %w", h.meta.element, h.meta.name, ErrNoDataReference)
	}
	if uom == "" {
		uom = h.meta.defaultUOM
	}
	conv, err := newConversion(h.meta.pointUnits, uom)
	if err != nil {
		return nil, err
	}
	rd := *h.reader
	rd.conv = conv
	return &rd, nil
}

func (h *attributeHandle) CurrentValue(ctx context.Context) (models.RawValue, error) {
	rd, err := h.data("")
	if err != nil {
		return models.RawValue{}, err
	}
	return rd.currentValue(ctx)
}

func (h *attributeHandle) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode, uom string) (models.RawValue, error) {
	rd, err := h.data(uom)
	if err != nil {
		return models.RawValue{}, err
	}
	return rd.recordedValue(ctx, t, mode)
}

func (h *attributeHandle) InterpolatedValue(ctx context.Context, t timespec.Time, uom string) (models.RawValue, error) {
	rd, err := h.data(uom)
	if err != nil {
		return models.RawValue{}, err
	}
	return rd.interpolatedValue(ctx, t)
}

func (h *attributeHandle) RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType,
	uom, filter string, includeFiltered bool) ([]models.RawValue, error) {
	rd, err := h.data(uom)
	if err != nil {
		return nil, err
	}
	return rd.recordedValues(ctx, r, boundary, filter, includeFiltered)
}

func (h *attributeHandle) InterpolatedValues(ctx context.Context, r timespec.Range, interval, uom, filter string,
	includeFiltered bool) ([]models.RawValue, error) {
	rd, err := h.data(uom)
	if err != nil {
		return nil, err
	}
	return rd.interpolatedValues(ctx, r, interval, filter, includeFiltered)
}

func (h *attributeHandle) Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	rd, err := h.data("")
	if err != nil {
		return nil, err
	}
	return rd.summary(ctx, r, types, basis, timeType)
}

func (h *attributeHandle) Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	rd, err := h.data("")
	if err != nil {
		return nil, err
	}
	return rd.summaries(ctx, r, interval, types, basis, timeType)
}

func (h *attributeHandle) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	rd, err := h.data("")
	if err != nil {
		return nil, err
	}
	return rd.filteredSummaries(ctx, r, interval, filter, types, basis, evaluation, filterInterval, timeType)
}

func (h *attributeHandle) UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	rd, err := h.data("")
	if err != nil {
		return err
	}
	return rd.updateValue(ctx, v, mode, buffer)
}
