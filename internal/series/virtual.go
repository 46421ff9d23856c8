package series

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// Virtual is a series-bearing entity produced by composition. Each retrieval
// primitive calls the same primitive on self and, when the operand is a
// series, on the operand, and combines both results with the operator. A
// Scalar operand is broadcast instead. Identity, filter normalization and
// UpdateValue are those of self.
type Virtual struct {
	self     Primitives
	other    Primitives // nil for a constant operand
	constant float64
	op       Operator
}

var (
	_ Primitives       = (*Virtual)(nil)
	_ FilterNormalizer = (*Virtual)(nil)
)

func newVirtual(self Primitives, operand Operand, op Operator) *Virtual {
	v := &Virtual{self: self, op: op}
	switch o := operand.(type) {
	case *Container:
		v.other = o.p
	case Scalar:
		v.constant = float64(o)
	}
	return v
}

// Operator returns the operator applied by v.
func (v *Virtual) Operator() Operator { return v.op }

func (v *Virtual) Name() string               { return v.self.Name() }
func (v *Virtual) UnitsOfMeasurement() string { return v.self.UnitsOfMeasurement() }

func (v *Virtual) NormalizeFilterExpression(filter string) string {
	if n, ok := v.self.(FilterNormalizer); ok {
		return n.NormalizeFilterExpression(filter)
	}
	return filter
}

func (v *Virtual) CurrentValue(ctx context.Context) (models.RawValue, error) {
	return v.single(ctx, func(p Primitives) (models.RawValue, error) {
		return p.CurrentValue(ctx)
	})
}

func (v *Virtual) RecordedValue(ctx context.Context, t timespec.Time, mode query.RetrievalMode) (models.RawValue, error) {
	return v.single(ctx, func(p Primitives) (models.RawValue, error) {
		return p.RecordedValue(ctx, t, mode)
	})
}

func (v *Virtual) InterpolatedValue(ctx context.Context, t timespec.Time) (models.RawValue, error) {
	return v.single(ctx, func(p Primitives) (models.RawValue, error) {
		return p.InterpolatedValue(ctx, t)
	})
}

func (v *Virtual) RecordedValues(ctx context.Context, r timespec.Range, boundary query.BoundaryType, filter string) ([]models.RawValue, error) {
	return v.ranged(ctx, func(p Primitives) ([]models.RawValue, error) {
		return p.RecordedValues(ctx, r, boundary, filter)
	})
}

func (v *Virtual) InterpolatedValues(ctx context.Context, r timespec.Range, interval, filter string) ([]models.RawValue, error) {
	return v.ranged(ctx, func(p Primitives) ([]models.RawValue, error) {
		return p.InterpolatedValues(ctx, r, interval, filter)
	})
}

func (v *Virtual) Summary(ctx context.Context, r timespec.Range, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummaryValues, error) {
	left, err := v.self.Summary(ctx, r, types, basis, timeType)
	if err != nil {
		return nil, err
	}
	if v.other == nil {
		out := make(models.SummaryValues, len(left))
		for k, lv := range left {
			if out[k], err = v.combineConstant(lv); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	right, err := v.other.Summary(ctx, r, types, basis, timeType)
	if err != nil {
		return nil, err
	}
	out := make(models.SummaryValues, len(left))
	for _, k := range unionKeys(left, right) {
		lv, lok := left[k]
		rv, rok := right[k]
		switch {
		case lok && rok:
			out[k], err = v.combinePair(lv, rv)
		case lok:
			out[k] = models.RawValue{Timestamp: lv.Timestamp, Value: math.NaN()}
		default:
			out[k] = models.RawValue{Timestamp: rv.Timestamp, Value: math.NaN()}
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (v *Virtual) Summaries(ctx context.Context, r timespec.Range, interval string, types query.SummaryType,
	basis query.CalculationBasis, timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return v.summarySeries(func(p Primitives) (models.SummarySeries, error) {
		return p.Summaries(ctx, r, interval, types, basis, timeType)
	})
}

func (v *Virtual) FilteredSummaries(ctx context.Context, r timespec.Range, interval, filter string, types query.SummaryType,
	basis query.CalculationBasis, evaluation query.ExpressionSampleType, filterInterval string,
	timeType query.TimestampCalculation) (models.SummarySeries, error) {
	return v.summarySeries(func(p Primitives) (models.SummarySeries, error) {
		return p.FilteredSummaries(ctx, r, interval, filter, types, basis, evaluation, filterInterval, timeType)
	})
}

// UpdateValue writes to self; the operand is not involved.
func (v *Virtual) UpdateValue(ctx context.Context, value models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	return v.self.UpdateValue(ctx, value, mode, buffer)
}

func (v *Virtual) single(_ context.Context, call func(Primitives) (models.RawValue, error)) (models.RawValue, error) {
	left, err := call(v.self)
	if err != nil {
		return models.RawValue{}, err
	}
	if v.other == nil {
		return v.combineConstant(left)
	}
	right, err := call(v.other)
	if err != nil {
		return models.RawValue{}, err
	}
	return v.combinePair(left, right)
}

func (v *Virtual) ranged(_ context.Context, call func(Primitives) ([]models.RawValue, error)) ([]models.RawValue, error) {
	left, err := call(v.self)
	if err != nil {
		return nil, err
	}
	if v.other == nil {
		return v.combineConstantSeq(left)
	}
	right, err := call(v.other)
	if err != nil {
		return nil, err
	}
	return v.combineSeq(left, right)
}

func (v *Virtual) summarySeries(call func(Primitives) (models.SummarySeries, error)) (models.SummarySeries, error) {
	left, err := call(v.self)
	if err != nil {
		return nil, err
	}
	out := make(models.SummarySeries, len(left))
	if v.other == nil {
		for k, seq := range left {
			if out[k], err = v.combineConstantSeq(seq); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	right, err := call(v.other)
	if err != nil {
		return nil, err
	}
	for _, k := range unionKeys(left, right) {
		if out[k], err = v.combineSeq(left[k], right[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// combinePair keeps the left timestamp; single values are combined whatever
// their timestamps.
func (v *Virtual) combinePair(left, right models.RawValue) (models.RawValue, error) {
	x, err := models.ToFloat(left.Value)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("%s: %w", v.op.Name, err)
	}
	y, err := models.ToFloat(right.Value)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("%s: %w", v.op.Name, err)
	}
	return models.RawValue{Timestamp: left.Timestamp, Value: v.op.Apply(x, y)}, nil
}

func (v *Virtual) combineConstant(left models.RawValue) (models.RawValue, error) {
	x, err := models.ToFloat(left.Value)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("%s: %w", v.op.Name, err)
	}
	return models.RawValue{Timestamp: left.Timestamp, Value: v.op.Apply(x, v.constant)}, nil
}

func (v *Virtual) combineConstantSeq(left []models.RawValue) ([]models.RawValue, error) {
	out := make([]models.RawValue, len(left))
	for i, lv := range left {
		combined, err := v.combineConstant(lv)
		if err != nil {
			return nil, err
		}
		out[i] = combined
	}
	return out, nil
}

// combineSeq merge-joins two non-decreasing sequences on timestamp. Points
// present on one side only are combined with NaN.
func (v *Virtual) combineSeq(left, right []models.RawValue) ([]models.RawValue, error) {
	missing := models.RawValue{Value: math.NaN()}
	out := make([]models.RawValue, 0, max(len(left), len(right)))
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		var (
			pair models.RawValue
			err  error
		)
		switch {
		case j >= len(right) || (i < len(left) && left[i].Timestamp.Compare(right[j].Timestamp) < 0):
			missing.Timestamp = left[i].Timestamp
			pair, err = v.combinePair(left[i], missing)
			i++
		case i >= len(left) || left[i].Timestamp.Compare(right[j].Timestamp) > 0:
			missing.Timestamp = right[j].Timestamp
			pair, err = v.combinePair(missing, right[j])
			j++
		default:
			pair, err = v.combinePair(left[i], right[j])
			i++
			j++
		}
		if err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, nil
}

func unionKeys[V any](a, b map[query.SummaryType]V) []query.SummaryType {
	seen := make(map[query.SummaryType]bool, len(a)+len(b))
	keys := make([]query.SummaryType, 0, len(a)+len(b))
	for _, m := range []map[query.SummaryType]V{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
