// Package query holds the closed enumerations that parameterize series
// retrieval: boundary handling, summary types, calculation basis, timestamp
// policy, retrieval mode, filter evaluation, update mode and buffer mode.
//
// The integer values match the historian's own enumerations, so a value can
// be handed to the data backend unchanged. Every type validates itself and
// can be parsed from its name; failures wrap ErrInvalidParameter and name both
// the offending value and the valid set.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// enumeration is the lookup table shared by the simple (non-flag) enums.
type enumeration[T ~int] struct {
	kind  string
	names map[T]string
	order []T
}

func (e enumeration[T]) name(v T) string {
	if n, ok := e.names[v]; ok {
		return n
	}
	return fmt.Sprintf("%s(%d)", e.kind, int(v))
}

func (e enumeration[T]) validate(v T) error {
	if _, ok := e.names[v]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s %d is not one of %s", ErrInvalidParameter, e.kind, int(v), e.valid())
}

func (e enumeration[T]) parse(s string) (T, error) {
	key := normalize(s)
	for _, v := range e.order {
		if normalize(e.names[v]) == key {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q is not one of %s", ErrInvalidParameter, e.kind, s, e.valid())
}

func (e enumeration[T]) valid() string {
	out := make([]string, len(e.order))
	for i, v := range e.order {
		out[i] = e.names[v]
	}
	return strings.Join(out, ", ")
}

// normalize makes "at_or_before", "AtOrBefore" and "at-or-before" compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// BoundaryType decides which values a ranged recorded query returns at the
// edges of the range.
type BoundaryType int

const (
	// BoundaryInside returns the first value at or after the start through
	// the last value at or before the end.
	BoundaryInside BoundaryType = 0
	// BoundaryOutside adds the value just before the start and the value just
	// after the end, when present.
	BoundaryOutside BoundaryType = 1
	// BoundaryInterpolated interpolates values exactly at start and end.
	BoundaryInterpolated BoundaryType = 2
)

var boundaryTypes = enumeration[BoundaryType]{
	kind: "boundary type",
	names: map[BoundaryType]string{
		BoundaryInside:       "INSIDE",
		BoundaryOutside:      "OUTSIDE",
		BoundaryInterpolated: "INTERPOLATED",
	},
	order: []BoundaryType{BoundaryInside, BoundaryOutside, BoundaryInterpolated},
}

// boundaryKeys are the user facing keys accepted by ParseBoundaryType.
var boundaryKeys = map[string]BoundaryType{
	"inside":      BoundaryInside,
	"outside":     BoundaryOutside,
	"interpolate": BoundaryInterpolated,
}

// ParseBoundaryType resolves one of the keys "inside", "outside" or
// "interpolate", ignoring case.
func ParseBoundaryType(key string) (BoundaryType, error) {
	if b, ok := boundaryKeys[strings.ToLower(strings.TrimSpace(key))]; ok {
		return b, nil
	}
	keys := make([]string, 0, len(boundaryKeys))
	for k := range boundaryKeys {
		keys = append(keys, fmt.Sprintf("%q", k))
	}
	sort.Strings(keys)
	return 0, fmt.Errorf("%w: boundary_type %q must be one of %s", ErrInvalidParameter, key, strings.Join(keys, ", "))
}

func (b BoundaryType) String() string  { return boundaryTypes.name(b) }
func (b BoundaryType) Validate() error { return boundaryTypes.validate(b) }

// CalculationBasis controls how events are weighted in a summary.
type CalculationBasis int

const (
	TimeWeighted                   CalculationBasis = 0
	EventWeighted                  CalculationBasis = 1
	TimeWeightedContinuous         CalculationBasis = 2
	TimeWeightedDiscrete           CalculationBasis = 3
	EventWeightedExcludeMostRecent CalculationBasis = 4
	EventWeightedExcludeEarliest   CalculationBasis = 5
	EventWeightedIncludeBothEnds   CalculationBasis = 6
)

var calculationBases = enumeration[CalculationBasis]{
	kind: "calculation basis",
	names: map[CalculationBasis]string{
		TimeWeighted:                   "TIME_WEIGHTED",
		EventWeighted:                  "EVENT_WEIGHTED",
		TimeWeightedContinuous:         "TIME_WEIGHTED_CONTINUOUS",
		TimeWeightedDiscrete:           "TIME_WEIGHTED_DISCRETE",
		EventWeightedExcludeMostRecent: "EVENT_WEIGHTED_EXCLUDE_MOST_RECENT",
		EventWeightedExcludeEarliest:   "EVENT_WEIGHTED_EXCLUDE_EARLIEST",
		EventWeightedIncludeBothEnds:   "EVENT_WEIGHTED_INCLUDE_BOTH_ENDS",
	},
	order: []CalculationBasis{
		TimeWeighted, EventWeighted, TimeWeightedContinuous, TimeWeightedDiscrete,
		EventWeightedExcludeMostRecent, EventWeightedExcludeEarliest, EventWeightedIncludeBothEnds,
	},
}

func (c CalculationBasis) String() string  { return calculationBases.name(c) }
func (c CalculationBasis) Validate() error { return calculationBases.validate(c) }

// IsTimeWeighted reports whether events are weighted by duration.
func (c CalculationBasis) IsTimeWeighted() bool {
	return c == TimeWeighted || c == TimeWeightedContinuous || c == TimeWeightedDiscrete
}

func ParseCalculationBasis(s string) (CalculationBasis, error) { return calculationBases.parse(s) }

// ExpressionSampleType decides where a summary filter is evaluated.
type ExpressionSampleType int

const (
	// ExpressionRecordedValues evaluates the filter at each recorded event.
	ExpressionRecordedValues ExpressionSampleType = 0
	// ExpressionInterval evaluates the filter on a regular grid whose
	// spacing is the filter interval.
	ExpressionInterval ExpressionSampleType = 1
)

var expressionSampleTypes = enumeration[ExpressionSampleType]{
	kind: "expression sample type",
	names: map[ExpressionSampleType]string{
		ExpressionRecordedValues: "EXPRESSION_RECORDED_VALUES",
		ExpressionInterval:       "INTERVAL",
	},
	order: []ExpressionSampleType{ExpressionRecordedValues, ExpressionInterval},
}

func (e ExpressionSampleType) String() string  { return expressionSampleTypes.name(e) }
func (e ExpressionSampleType) Validate() error { return expressionSampleTypes.validate(e) }

func ParseExpressionSampleType(s string) (ExpressionSampleType, error) {
	return expressionSampleTypes.parse(s)
}

// TimestampCalculation picks the timestamp reported for a summary value.
type TimestampCalculation int

const (
	// TimestampAuto uses the event time for minimum and maximum and the
	// start of the interval otherwise.
	TimestampAuto TimestampCalculation = 0
	// TimestampEarliest always uses the start of the interval.
	TimestampEarliest TimestampCalculation = 1
	// TimestampMostRecent always uses the end of the interval.
	TimestampMostRecent TimestampCalculation = 2
)

var timestampCalculations = enumeration[TimestampCalculation]{
	kind: "timestamp calculation",
	names: map[TimestampCalculation]string{
		TimestampAuto:       "AUTO",
		TimestampEarliest:   "EARLIEST_TIME",
		TimestampMostRecent: "MOST_RECENT_TIME",
	},
	order: []TimestampCalculation{TimestampAuto, TimestampEarliest, TimestampMostRecent},
}

func (t TimestampCalculation) String() string  { return timestampCalculations.name(t) }
func (t TimestampCalculation) Validate() error { return timestampCalculations.validate(t) }

func ParseTimestampCalculation(s string) (TimestampCalculation, error) {
	return timestampCalculations.parse(s)
}

// RetrievalMode selects which recorded value is returned when none exists at
// the exact requested time.
type RetrievalMode int

const (
	RetrievalAuto       RetrievalMode = 0
	RetrievalAtOrBefore RetrievalMode = 1
	RetrievalAtOrAfter  RetrievalMode = 2
	RetrievalExact      RetrievalMode = 4
	RetrievalBefore     RetrievalMode = 6
	RetrievalAfter      RetrievalMode = 7
)

var retrievalModes = enumeration[RetrievalMode]{
	kind: "retrieval mode",
	names: map[RetrievalMode]string{
		RetrievalAuto:       "AUTO",
		RetrievalAtOrBefore: "AT_OR_BEFORE",
		RetrievalAtOrAfter:  "AT_OR_AFTER",
		RetrievalExact:      "EXACT",
		RetrievalBefore:     "BEFORE",
		RetrievalAfter:      "AFTER",
	},
	order: []RetrievalMode{
		RetrievalAuto, RetrievalAtOrBefore, RetrievalBefore, RetrievalAtOrAfter, RetrievalAfter, RetrievalExact,
	},
}

func (r RetrievalMode) String() string  { return retrievalModes.name(r) }
func (r RetrievalMode) Validate() error { return retrievalModes.validate(r) }

func ParseRetrievalMode(s string) (RetrievalMode, error) { return retrievalModes.parse(s) }

// UpdateMode controls how a written value interacts with existing data.
type UpdateMode int

const (
	UpdateReplace             UpdateMode = 0
	UpdateNoReplace           UpdateMode = 2
	UpdateReplaceOnly         UpdateMode = 3
	UpdateInsert              UpdateMode = 4
	UpdateInsertNoCompression UpdateMode = 5
	UpdateRemove              UpdateMode = 6
)

var updateModes = enumeration[UpdateMode]{
	kind: "update mode",
	names: map[UpdateMode]string{
		UpdateReplace:             "REPLACE",
		UpdateNoReplace:           "NO_REPLACE",
		UpdateReplaceOnly:         "REPLACE_ONLY",
		UpdateInsert:              "INSERT",
		UpdateInsertNoCompression: "INSERT_NO_COMPRESSION",
		UpdateRemove:              "REMOVE",
	},
	order: []UpdateMode{
		UpdateReplace, UpdateInsert, UpdateNoReplace, UpdateReplaceOnly, UpdateInsertNoCompression, UpdateRemove,
	},
}

func (u UpdateMode) String() string  { return updateModes.name(u) }
func (u UpdateMode) Validate() error { return updateModes.validate(u) }

func ParseUpdateMode(s string) (UpdateMode, error) { return updateModes.parse(s) }

// BufferMode controls whether a write may go through the backend's buffer.
type BufferMode int

const (
	DoNotBuffer      BufferMode = 0
	BufferIfPossible BufferMode = 1
	Buffer           BufferMode = 2
)

var bufferModes = enumeration[BufferMode]{
	kind: "buffer mode",
	names: map[BufferMode]string{
		DoNotBuffer:      "DO_NOT_BUFFER",
		BufferIfPossible: "BUFFER_IF_POSSIBLE",
		Buffer:           "BUFFER",
	},
	order: []BufferMode{DoNotBuffer, BufferIfPossible, Buffer},
}

func (b BufferMode) String() string  { return bufferModes.name(b) }
func (b BufferMode) Validate() error { return bufferModes.validate(b) }

func ParseBufferMode(s string) (BufferMode, error) { return bufferModes.parse(s) }
