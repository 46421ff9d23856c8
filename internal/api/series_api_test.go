package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// recorder is a series leaf that records the values written to it.
type recorder struct {
	series.Primitives
	writes []models.ValueEnvelope
	modes  []query.UpdateMode
	bufs   []query.BufferMode
	err    error
}

func (r *recorder) Name() string               { return "FIC101.PV" }
func (r *recorder) UnitsOfMeasurement() string { return "m3/h" }

func (r *recorder) UpdateValue(_ context.Context, v models.ValueEnvelope, mode query.UpdateMode, buffer query.BufferMode) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, v)
	r.modes = append(r.modes, mode)
	r.bufs = append(r.bufs, buffer)
	return nil
}

func TestFetchData(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, start.Format(time.RFC3339), r.URL.Query().Get("start"))
		assert.Equal(t, end.Format(time.RFC3339), r.URL.Query().Get("end"))
		fmt.Fprintf(w, `{"result":[{"time":%d,"value":1.5},{"time":%d,"value":2.5}]}`,
			start.Unix(), start.Add(time.Minute).Unix())
	}))
	defer server.Close()

	rec := &recorder{}
	logger, hook := test.NewNullLogger()
	fetcher := NewSeriesFetcher(server.URL, series.New(rec), WithLogger(logger))

	n, err := fetcher.FetchData(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, rec.writes, 2)
	assert.Equal(t, 1.5, rec.writes[0].Value)
	require.NotNil(t, rec.writes[1].Time)
	assert.Equal(t, timespec.At(start.Add(time.Minute)), *rec.writes[1].Time)
	assert.Equal(t, []query.UpdateMode{query.UpdateReplace, query.UpdateReplace}, rec.modes)
	assert.Equal(t, query.BufferIfPossible, rec.bufs[0])

	assert.Equal(t, "Fetched data", hook.LastEntry().Message)
	assert.Equal(t, "FIC101.PV", hook.LastEntry().Data["series"])
}

func TestFetchDataModes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[{"time":1704067200,"value":3}]}`)
	}))
	defer server.Close()

	rec := &recorder{}
	fetcher := NewSeriesFetcher(server.URL, series.New(rec),
		WithModes(query.UpdateInsert, query.DoNotBuffer))

	_, err := fetcher.FetchData(context.Background(), time.Unix(0, 0), time.Unix(60, 0))
	require.NoError(t, err)
	assert.Equal(t, []query.UpdateMode{query.UpdateInsert}, rec.modes)
	assert.Equal(t, []query.BufferMode{query.DoNotBuffer}, rec.bufs)
}

func TestFetchDataErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: ErrAPIStatus,
		},
		{
			name: "decode",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"result":`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			rec := &recorder{}
			_, err := NewSeriesFetcher(server.URL, series.New(rec)).
				FetchData(context.Background(), time.Unix(0, 0), time.Unix(60, 0))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, rec.writes)
		})
	}
}

func TestFetchDataUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewSeriesFetcher(url, series.New(&recorder{})).
		FetchData(context.Background(), time.Unix(0, 0), time.Unix(60, 0))
	assert.ErrorIs(t, err, ErrAPIRequest)
}

func TestFetchDataWriteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[{"time":1,"value":1},{"time":2,"value":2}]}`)
	}))
	defer server.Close()

	boom := errors.New("buffer unavailable")
	n, err := NewSeriesFetcher(server.URL, series.New(&recorder{err: boom})).
		FetchData(context.Background(), time.Unix(0, 0), time.Unix(60, 0))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, n)
}

func TestBootstrapHistoricalData(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, now.Add(-48*time.Hour).Format(time.RFC3339), r.URL.Query().Get("start"))
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer server.Close()

	fetcher := NewSeriesFetcher(server.URL, series.New(&recorder{}),
		WithClock(func() time.Time { return now }))
	n, err := fetcher.BootstrapHistoricalData(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
