package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

const maxTimeRange = 2 * 365 * 24 * time.Hour

// Request is a validated query.
type Request struct {
	Method         string
	Expression     string
	Start, End     timespec.Time
	Time           timespec.Time
	Boundary       string
	Filter         string
	Interval       string
	FilterInterval string
	Summary        query.SummaryType
	SummaryOptions []series.SummaryOption
	RetrievalMode  query.RetrievalMode
	Value          any
	UpdateOptions  []series.UpdateOption
}

// RequestValidator checks the fields of a query against the method it names.
type RequestValidator struct {
	validMethods map[string][]string
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validMethods: map[string][]string{
			"current_value":       {"expression"},
			"recorded_value":      {"expression", "time"},
			"interpolated_value":  {"expression", "time"},
			"recorded_values":     {"expression", "start", "end"},
			"interpolated_values": {"expression", "start", "end", "interval"},
			"summary":             {"expression", "start", "end", "summary"},
			"summaries":           {"expression", "start", "end", "interval", "summary"},
			"filtered_summaries":  {"expression", "start", "end", "interval", "summary", "filter", "filter_interval"},
			"update_value":        {"expression", "value"},
		},
	}
}

// Methods returns the supported method names in sorted order.
func (v *RequestValidator) Methods() []string {
	out := make([]string, 0, len(v.validMethods))
	for m := range v.validMethods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Validate checks fields and converts them into a Request. Errors wrap
// query.ErrInvalidParameter.
func (v *RequestValidator) Validate(fields map[string]any) (*Request, error) {
	f := fieldReader(fields)

	method, err := f.str("method")
	if err != nil {
		return nil, err
	}
	required, ok := v.validMethods[method]
	if !ok {
		return nil, invalid("invalid method: %q, expected one of %s", method, strings.Join(v.Methods(), ", "))
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, invalid("missing %s for %s", key, method)
		}
	}

	req := &Request{Method: method, Boundary: "inside", RetrievalMode: query.RetrievalAuto}
	if req.Expression, err = f.str("expression"); err != nil {
		return nil, err
	}
	if _, err := catalog.Parse(req.Expression); err != nil {
		return nil, invalid("%v", err)
	}

	if req.Time, err = f.time("time"); err != nil {
		return nil, err
	}
	if req.Start, err = f.time("start"); err != nil {
		return nil, err
	}
	if req.End, err = f.time("end"); err != nil {
		return nil, err
	}
	if req.Start.IsAbsolute() && req.End.IsAbsolute() {
		span := req.End.Absolute().Sub(req.Start.Absolute())
		if span < 0 {
			span = -span
		}
		if span > maxTimeRange {
			return nil, invalid("time range exceeds maximum allowed")
		}
	}

	if boundary, err := f.str("boundary"); err != nil {
		return nil, err
	} else if boundary != "" {
		if _, err := query.ParseBoundaryType(boundary); err != nil {
			return nil, err
		}
		req.Boundary = boundary
	}
	if req.Filter, err = f.str("filter"); err != nil {
		return nil, err
	}
	if req.Interval, err = f.span("interval"); err != nil {
		return nil, err
	}
	if req.FilterInterval, err = f.span("filter_interval"); err != nil {
		return nil, err
	}

	if s, err := f.str("summary"); err != nil {
		return nil, err
	} else if s != "" {
		if req.Summary, err = query.ParseSummaryType(s); err != nil {
			return nil, err
		}
	}
	if err := v.summaryOptions(f, req); err != nil {
		return nil, err
	}

	if s, err := f.str("retrieval_mode"); err != nil {
		return nil, err
	} else if s != "" {
		if req.RetrievalMode, err = query.ParseRetrievalMode(s); err != nil {
			return nil, err
		}
	}

	if method == "update_value" {
		if err := v.updateOptions(f, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (v *RequestValidator) summaryOptions(f fieldReader, req *Request) error {
	if s, err := f.str("calculation_basis"); err != nil {
		return err
	} else if s != "" {
		b, err := query.ParseCalculationBasis(s)
		if err != nil {
			return err
		}
		req.SummaryOptions = append(req.SummaryOptions, series.WithCalculationBasis(b))
	}
	if s, err := f.str("timestamp_calculation"); err != nil {
		return err
	} else if s != "" {
		t, err := query.ParseTimestampCalculation(s)
		if err != nil {
			return err
		}
		req.SummaryOptions = append(req.SummaryOptions, series.WithTimestampCalculation(t))
	}
	if s, err := f.str("filter_evaluation"); err != nil {
		return err
	} else if s != "" {
		e, err := query.ParseExpressionSampleType(s)
		if err != nil {
			return err
		}
		req.SummaryOptions = append(req.SummaryOptions, series.WithFilterEvaluation(e))
	}
	return nil
}

func (v *RequestValidator) updateOptions(f fieldReader, req *Request) error {
	req.Value = f["value"]
	switch req.Value.(type) {
	case float64, string, bool:
	default:
		return invalid("value must be a number, string or bool")
	}
	if !req.Time.IsZero() {
		req.UpdateOptions = append(req.UpdateOptions, series.WithTime(req.Time))
	}
	if s, err := f.str("update_mode"); err != nil {
		return err
	} else if s != "" {
		m, err := query.ParseUpdateMode(s)
		if err != nil {
			return err
		}
		req.UpdateOptions = append(req.UpdateOptions, series.WithUpdateMode(m))
	}
	if s, err := f.str("buffer_mode"); err != nil {
		return err
	} else if s != "" {
		b, err := query.ParseBufferMode(s)
		if err != nil {
			return err
		}
		req.UpdateOptions = append(req.UpdateOptions, series.WithBufferMode(b))
	}
	return nil
}

type fieldReader map[string]any

func (f fieldReader) str(key string) (string, error) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

func (f fieldReader) time(key string) (timespec.Time, error) {
	s, err := f.str(key)
	if err != nil || s == "" {
		return timespec.Time{}, err
	}
	t, err := timespec.Parse(s)
	if err == nil {
		_, err = t.Resolve(time.Now(), nil)
	}
	if err != nil {
		return timespec.Time{}, invalid("%s: %v", key, err)
	}
	return t, nil
}

func (f fieldReader) span(key string) (string, error) {
	s, err := f.str(key)
	if err != nil || s == "" {
		return "", err
	}
	if _, err := timespec.ParseSpan(s); err != nil {
		return "", invalid("%s: %v", key, err)
	}
	return s, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", query.ErrInvalidParameter, fmt.Sprintf(format, args...))
}
