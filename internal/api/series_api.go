// Package api pulls measurements from an upstream HTTP API and writes them
// into a series.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

type APIResponse struct {
	Result []struct {
		Time  int64   `json:"time"`
		Value float64 `json:"value"`
	} `json:"result"`
}

// Writer receives fetched values. *series.Container implements it.
type Writer interface {
	Name() string
	UpdateValue(ctx context.Context, value any, opts ...series.UpdateOption) error
}

var _ Writer = (*series.Container)(nil)

type SeriesFetcher struct {
	apiURL string
	target Writer
	mode   query.UpdateMode
	buffer query.BufferMode
	client *http.Client
	logger *logrus.Logger
	now    func() time.Time
}

var (
	ErrAPIRequest = errors.New("error making API request")
	ErrAPIStatus  = errors.New("error status from API")
)

// Option configures a SeriesFetcher.
type Option func(*SeriesFetcher)

// WithModes sets the update and buffer modes used for every fetched value.
// The defaults are Replace and BufferIfPossible so that re-fetching an
// overlapping window is idempotent.
func WithModes(mode query.UpdateMode, buffer query.BufferMode) Option {
	return func(f *SeriesFetcher) {
		f.mode = mode
		f.buffer = buffer
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *SeriesFetcher) { f.client = c }
}

func WithLogger(l *logrus.Logger) Option {
	return func(f *SeriesFetcher) { f.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(f *SeriesFetcher) { f.now = now }
}

func NewSeriesFetcher(apiURL string, target Writer, opts ...Option) *SeriesFetcher {
	f := &SeriesFetcher{
		apiURL: apiURL,
		target: target,
		mode:   query.UpdateReplace,
		buffer: query.BufferIfPossible,
		client: http.DefaultClient,
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchData pulls the values between start and end and writes them to the
// target series. It returns the number of values written.
func (f *SeriesFetcher) FetchData(ctx context.Context, start, end time.Time) (int, error) {
	url := fmt.Sprintf("%s?start=%s&end=%s",
		f.apiURL,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: got %d", ErrAPIStatus, resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	for i, data := range apiResp.Result {
		err := f.target.UpdateValue(ctx, data.Value,
			series.WithTime(timespec.At(time.Unix(data.Time, 0).UTC())),
			series.WithUpdateMode(f.mode),
			series.WithBufferMode(f.buffer))
		if err != nil {
			return i, fmt.Errorf("failed to write value at %d: %w", data.Time, err)
		}
	}

	f.logger.WithFields(logrus.Fields{
		"series": f.target.Name(),
		"count":  len(apiResp.Result),
		"start":  start,
		"end":    end,
	}).Info("Fetched data")
	return len(apiResp.Result), nil
}

// BootstrapHistoricalData fetches the given window up to now.
func (f *SeriesFetcher) BootstrapHistoricalData(ctx context.Context, window time.Duration) (int, error) {
	endTime := f.now()
	startTime := endTime.Add(-window)

	return f.FetchData(ctx, startTime, endTime)
}
