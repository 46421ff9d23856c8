package series

import (
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// SummaryOption adjusts a summary request. Only options that are passed
// override the defaults; an explicit zero value is honored as such.
type SummaryOption func(*summaryOptions)

type summaryOptions struct {
	basis      query.CalculationBasis
	timeType   query.TimestampCalculation
	evaluation query.ExpressionSampleType
}

func WithCalculationBasis(b query.CalculationBasis) SummaryOption {
	return func(o *summaryOptions) { o.basis = b }
}

func WithTimestampCalculation(t query.TimestampCalculation) SummaryOption {
	return func(o *summaryOptions) { o.timeType = t }
}

// WithFilterEvaluation only affects FilteredSummaries.
func WithFilterEvaluation(e query.ExpressionSampleType) SummaryOption {
	return func(o *summaryOptions) { o.evaluation = e }
}

func resolveSummaryOptions(types query.SummaryType, opts []SummaryOption) (summaryOptions, error) {
	o := summaryOptions{
		basis:      query.TimeWeighted,
		timeType:   query.TimestampAuto,
		evaluation: query.ExpressionRecordedValues,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := types.Validate(); err != nil {
		return o, err
	}
	if err := o.basis.Validate(); err != nil {
		return o, err
	}
	if err := o.timeType.Validate(); err != nil {
		return o, err
	}
	if err := o.evaluation.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

// UpdateOption adjusts UpdateValue.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	time   *timespec.Time
	mode   query.UpdateMode
	buffer query.BufferMode
}

// WithTime stamps the written value with t instead of the current time.
func WithTime(t timespec.Time) UpdateOption {
	return func(o *updateOptions) { o.time = &t }
}

func WithUpdateMode(m query.UpdateMode) UpdateOption {
	return func(o *updateOptions) { o.mode = m }
}

func WithBufferMode(b query.BufferMode) UpdateOption {
	return func(o *updateOptions) { o.buffer = b }
}
