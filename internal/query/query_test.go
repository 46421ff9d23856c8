package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoundaryType(t *testing.T) {
	tests := []struct {
		key     string
		want    BoundaryType
		wantErr bool
	}{
		{key: "inside", want: BoundaryInside},
		{key: "OUTSIDE", want: BoundaryOutside},
		{key: "Interpolate", want: BoundaryInterpolated},
		{key: "interpolated", wantErr: true},
		{key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseBoundaryType(tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				assert.Contains(t, err.Error(), `"inside", "interpolate", "outside"`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumerationValidate(t *testing.T) {
	assert.NoError(t, RetrievalBefore.Validate())
	assert.NoError(t, UpdateNoReplace.Validate())
	assert.NoError(t, BufferIfPossible.Validate())
	assert.NoError(t, EventWeightedIncludeBothEnds.Validate())

	err := RetrievalMode(3).Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "retrieval mode 3")
	assert.Contains(t, err.Error(), "AT_OR_BEFORE")

	err = UpdateMode(1).Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "update mode 1")

	assert.ErrorIs(t, CalculationBasis(7).Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, TimestampCalculation(-1).Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, BufferMode(9).Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, ExpressionSampleType(2).Validate(), ErrInvalidParameter)
}

func TestEnumerationParse(t *testing.T) {
	mode, err := ParseRetrievalMode("at_or_after")
	require.NoError(t, err)
	assert.Equal(t, RetrievalAtOrAfter, mode)

	basis, err := ParseCalculationBasis("EventWeighted")
	require.NoError(t, err)
	assert.Equal(t, EventWeighted, basis)

	update, err := ParseUpdateMode("insert-no-compression")
	require.NoError(t, err)
	assert.Equal(t, UpdateInsertNoCompression, update)

	buffer, err := ParseBufferMode("buffer")
	require.NoError(t, err)
	assert.Equal(t, Buffer, buffer)

	sample, err := ParseExpressionSampleType("interval")
	require.NoError(t, err)
	assert.Equal(t, ExpressionInterval, sample)

	ts, err := ParseTimestampCalculation("most_recent_time")
	require.NoError(t, err)
	assert.Equal(t, TimestampMostRecent, ts)

	_, err = ParseRetrievalMode("closest")
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), `"closest"`)

	assert.Equal(t, "retrieval mode(3)", RetrievalMode(3).String())
}

func TestSummaryType(t *testing.T) {
	both := SummaryAverage | SummaryMaximum
	assert.Equal(t, []SummaryType{SummaryAverage, SummaryMaximum}, both.Flags())
	assert.Equal(t, "AVERAGE|MAXIMUM", both.String())
	assert.Equal(t, "AVERAGE", SummaryAverage.String())
	assert.Equal(t, "ALL", SummaryAll.String())
	assert.True(t, both.Has(SummaryMaximum))
	assert.False(t, both.Has(SummaryMinimum))

	assert.Len(t, SummaryAll.Flags(), 10)
	assert.Equal(t, []SummaryType{SummaryCount, SummaryPercentGood}, SummaryAllForNonNumeric.Flags())

	assert.NoError(t, both.Validate())
	assert.ErrorIs(t, SummaryNone.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, SummaryType(256).Validate(), ErrInvalidParameter)
}

func TestParseSummaryType(t *testing.T) {
	got, err := ParseSummaryType("average|maximum")
	require.NoError(t, err)
	assert.Equal(t, SummaryAverage|SummaryMaximum, got)

	got, err = ParseSummaryType("std_dev, pop_std_dev")
	require.NoError(t, err)
	assert.Equal(t, SummaryStdDev|SummaryPopStdDev, got)

	got, err = ParseSummaryType("all")
	require.NoError(t, err)
	assert.Equal(t, SummaryAll, got)

	_, err = ParseSummaryType("median")
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "median")

	_, err = ParseSummaryType("")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
