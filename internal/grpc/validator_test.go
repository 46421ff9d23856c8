package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/histseries/internal/query"
)

func TestRequestValidator_Validate(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name       string
		fields     map[string]any
		wantErr    bool
		errMessage string
	}{
		{
			name: "valid summaries",
			fields: map[string]any{
				"method": "summaries", "expression": "FIC101.PV * 2",
				"start": "2024-01-01", "end": "2024-01-02", "interval": "1h", "summary": "average|maximum",
			},
		},
		{
			name: "relative times",
			fields: map[string]any{
				"method": "recorded_values", "expression": "FIC101.PV", "start": "*-1d", "end": "*",
			},
		},
		{
			name: "reversed range is allowed",
			fields: map[string]any{
				"method": "recorded_values", "expression": "FIC101.PV", "start": "2024-01-02", "end": "2024-01-01",
			},
		},
		{
			name:       "missing method",
			fields:     map[string]any{"expression": "FIC101.PV"},
			wantErr:    true,
			errMessage: "invalid method",
		},
		{
			name:       "unknown method",
			fields:     map[string]any{"method": "delete_everything", "expression": "FIC101.PV"},
			wantErr:    true,
			errMessage: `invalid method: "delete_everything"`,
		},
		{
			name:       "missing field",
			fields:     map[string]any{"method": "interpolated_values", "expression": "A", "start": "*-1h", "end": "*"},
			wantErr:    true,
			errMessage: "missing interval for interpolated_values",
		},
		{
			name:       "bad expression",
			fields:     map[string]any{"method": "current_value", "expression": "A +"},
			wantErr:    true,
			errMessage: "invalid expression",
		},
		{
			name:       "non string field",
			fields:     map[string]any{"method": "current_value", "expression": 42.0},
			wantErr:    true,
			errMessage: "expression must be a string",
		},
		{
			name: "exceeds max time range",
			fields: map[string]any{
				"method": "recorded_values", "expression": "A", "start": "2020-01-01", "end": "2024-01-01",
			},
			wantErr:    true,
			errMessage: "time range exceeds maximum allowed",
		},
		{
			name: "bad relative time",
			fields: map[string]any{
				"method": "recorded_values", "expression": "A", "start": "last tuesday", "end": "*",
			},
			wantErr:    true,
			errMessage: "start",
		},
		{
			name: "bad boundary",
			fields: map[string]any{
				"method": "recorded_values", "expression": "A", "start": "*-1h", "end": "*", "boundary": "edge",
			},
			wantErr:    true,
			errMessage: `"inside", "interpolate", "outside"`,
		},
		{
			name: "bad interval",
			fields: map[string]any{
				"method": "interpolated_values", "expression": "A", "start": "*-1h", "end": "*", "interval": "often",
			},
			wantErr:    true,
			errMessage: "interval",
		},
		{
			name: "bad summary",
			fields: map[string]any{
				"method": "summary", "expression": "A", "start": "*-1h", "end": "*", "summary": "median",
			},
			wantErr:    true,
			errMessage: `"median"`,
		},
		{
			name: "bad calculation basis",
			fields: map[string]any{
				"method": "summary", "expression": "A", "start": "*-1h", "end": "*", "summary": "average",
				"calculation_basis": "weighted",
			},
			wantErr:    true,
			errMessage: "calculation basis",
		},
		{
			name:       "bad update value",
			fields:     map[string]any{"method": "update_value", "expression": "A", "value": []any{1.0}},
			wantErr:    true,
			errMessage: "value must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(tt.fields)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, query.ErrInvalidParameter)
				assert.Contains(t, err.Error(), tt.errMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestValidatorOptions(t *testing.T) {
	req, err := NewRequestValidator().Validate(map[string]any{
		"method":                "filtered_summaries",
		"expression":            "FIC101.PV",
		"start":                 "*-1d",
		"end":                   "*",
		"interval":              "1h",
		"filter":                "'%tag%' > 0",
		"filter_interval":       "10m",
		"summary":               "total",
		"calculation_basis":     "event_weighted",
		"timestamp_calculation": "earliest_time",
		"filter_evaluation":     "interval",
	})
	require.NoError(t, err)
	assert.Equal(t, query.SummaryTotal, req.Summary)
	assert.Len(t, req.SummaryOptions, 3)
	assert.Equal(t, "inside", req.Boundary)
	assert.Equal(t, "10m", req.FilterInterval)

	req, err = NewRequestValidator().Validate(map[string]any{
		"method":      "update_value",
		"expression":  "FIC101.PV",
		"value":       12.5,
		"time":        "2024-01-01T00:00:00Z",
		"update_mode": "insert",
		"buffer_mode": "do_not_buffer",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, req.Value)
	assert.Len(t, req.UpdateOptions, 3)
}

func TestRequestValidatorMethods(t *testing.T) {
	assert.Equal(t, []string{
		"current_value", "filtered_summaries", "interpolated_value", "interpolated_values",
		"recorded_value", "recorded_values", "summaries", "summary", "update_value",
	}, NewRequestValidator().Methods())
}
