//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/source.go -package=mocks . PointClient,AttributeClient

// Package source implements the leaf series of the historian: raw
// measurement points and asset attributes. Both wrap a backend handle and
// satisfy series.Primitives, so they can be used directly or composed.
package source

import (
	"context"
	"errors"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// ErrNotFound is returned by backends when a point or attribute does not
// exist.
var ErrNotFound = errors.New("not found")

// Values rejected by a filter expression are never returned.
const includeFilteredValues = false

// Raw attribute keys every point carries.
const (
	AttrEngUnits     = "engunits"
	AttrDescriptor   = "descriptor"
	AttrCreationDate = "creationdate"
)

// PointClient is the backend handle of a raw measurement point.
type PointClient interface {
	Tag() string
	RawAttributes(ctx context.Context) (map[string]any, error)

	CurrentValue(ctx context.Context) (models.RawValue, error)
	RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error)
	InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error)
	RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, filter string, includeFiltered bool) ([]models.RawValue, error)
	InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string, includeFiltered bool) ([]models.RawValue, error)
	Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error)
	Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error)
	FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
		basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
		timeType query.TimestampCalculation) (models.SummarySeries, error)
	UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error
}

// AttributeClient is the backend handle of an attribute of an asset
// element. Value retrieval takes the unit of measure the values are
// converted to.
type AttributeClient interface {
	Element() string
	Name() string
	Description() string
	DefaultUOM() string
	// Parent returns nil when the attribute is a root attribute.
	Parent(ctx context.Context) (AttributeClient, error)
	Children(ctx context.Context) ([]AttributeClient, error)

	CurrentValue(ctx context.Context) (models.RawValue, error)
	RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode, uom string) (models.RawValue, error)
	InterpolatedValue(ctx context.Context, t timespec.Time, uom string) (models.RawValue, error)
	RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, uom, filter string, includeFiltered bool) ([]models.RawValue, error)
	InterpolatedValues(ctx context.Context, r timespec.Range, interval, uom, filter string, includeFiltered bool) ([]models.RawValue, error)
	Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error)
	Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
		basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error)
	FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
		basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
		timeType query.TimestampCalculation) (models.SummarySeries, error)
	UpdateValue(ctx context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error
}
