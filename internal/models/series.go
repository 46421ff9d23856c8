package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrLengthMismatch = errors.New("timestamps and values differ in length")
	ErrNonNumeric     = errors.New("value is not numeric")
)

// Series is a named, unit-tagged sequence of timestamped values. It is
// immutable; accessors return copies.
type Series struct {
	name       string
	units      string
	timestamps []time.Time
	values     []any
}

// NewSeries builds a Series. The order of timestamps is kept as given.
func NewSeries(name, units string, timestamps []time.Time, values []any) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(timestamps), len(values))
	}
	s := &Series{
		name:       name,
		units:      units,
		timestamps: make([]time.Time, len(timestamps)),
		values:     make([]any, len(values)),
	}
	copy(s.timestamps, timestamps)
	copy(s.values, values)
	return s, nil
}

func (s *Series) Name() string               { return s.name }
func (s *Series) UnitsOfMeasurement() string { return s.units }
func (s *Series) Len() int                   { return len(s.values) }

// At returns the i-th timestamp and value.
func (s *Series) At(i int) (time.Time, any) {
	return s.timestamps[i], s.values[i]
}

func (s *Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s.timestamps))
	copy(out, s.timestamps)
	return out
}

func (s *Series) Values() []any {
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// Floats returns the values as float64, failing on the first value that is
// not a number.
func (s *Series) Floats() ([]float64, error) {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		f, err := ToFloat(v)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// ToFloat converts the numeric kinds a backend may return into float64.
// A nil value is treated as missing and becomes NaN.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNonNumeric, v, v)
	}
}
