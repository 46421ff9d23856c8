//go:build integration
// +build integration

package integration_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tejusbharadwaj/histseries/internal/api"
	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/database"
	server "github.com/tejusbharadwaj/histseries/internal/grpc"
)

const bufSize = 1024 * 1024

type TimeSeriesPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

type APIResponse struct {
	Result []TimeSeriesPoint `json:"result"`
}

func connString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnvOrDefault("DB_HOST", "db"),
		getEnvOrDefault("DB_PORT", "5432"),
		getEnvOrDefault("DB_USER", "histseries"),
		getEnvOrDefault("DB_PASSWORD", "histseries"),
		getEnvOrDefault("DB_NAME", "histseries"),
	)
}

// Helper function to get environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupTestDB(t *testing.T) *database.PostgresRepo {
	t.Helper()
	repo, err := database.NewPostgresRepo(connString(), database.WithWriteBuffer(100))
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	db, err := sql.Open("postgres", connString())
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		"TRUNCATE TABLE time_series_data",
		"DELETE FROM attributes",
		"DELETE FROM points",
		`INSERT INTO points (tag, engunits, descriptor) VALUES
			('FIC101.PV', 'm3/h', 'Feed flow A'),
			('FIC102.PV', 'm3/h', 'Feed flow B'),
			('TI200.PV', 'degC', 'Bed temperature')`,
		`INSERT INTO attributes (element, name, tag, default_uom, description) VALUES
			('Reactor1', 'Temperature', 'TI200.PV', 'degF', 'Bed temperature')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return repo
}

func setupTestEnvironment(t *testing.T) (*server.SeriesServiceClient, *catalog.Catalog, *database.PostgresRepo) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	repo := setupTestDB(t)
	t.Cleanup(func() { repo.Close() })

	cat, err := catalog.New(repo, 100, logger)
	require.NoError(t, err)

	srv, _, err := server.SetupServer(cat, server.ServerConfig{
		RateLimit:      5,
		RateLimitBurst: 10,
		Registerer:     prometheus.NewRegistry(),
		Logger:         logger,
	})
	require.NoError(t, err)

	lis := bufconn.Listen(bufSize)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Errorf("Error serving: %v", err)
		}
	}()
	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server.NewSeriesServiceClient(conn), cat, repo
}

func setupMockAPIServer(t *testing.T, value func(i int) float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		require.NoError(t, err)
		endTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		require.NoError(t, err)

		var result []TimeSeriesPoint
		for i, current := 0, startTime; current.Before(endTime); i, current = i+1, current.Add(5*time.Minute) {
			result = append(result, TimeSeriesPoint{Time: current.Unix(), Value: value(i)})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIResponse{Result: result})
	}))
}

func ingest(t *testing.T, cat *catalog.Catalog, repo *database.PostgresRepo, tag string, start, end time.Time, value func(int) float64) {
	t.Helper()
	mockAPI := setupMockAPIServer(t, value)
	defer mockAPI.Close()

	ctx := context.Background()
	target, err := cat.Point(ctx, tag)
	require.NoError(t, err)

	n, err := api.NewSeriesFetcher(mockAPI.URL, target).FetchData(ctx, start, end)
	require.NoError(t, err)
	require.Greater(t, n, 0)
	require.NoError(t, repo.Flush(ctx))
}

func query(t *testing.T, client *server.SeriesServiceClient, fields map[string]any) (map[string]any, error) {
	t.Helper()
	in, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	out, err := client.Query(context.Background(), in)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func TestSeriesE2E(t *testing.T) {
	client, cat, repo := setupTestEnvironment(t)

	end := time.Now().UTC().Truncate(time.Hour)
	start := end.Add(-2 * time.Hour)
	ingest(t, cat, repo, "FIC101.PV", start, end, func(int) float64 { return 10 })
	ingest(t, cat, repo, "FIC102.PV", start, end, func(int) float64 { return 4 })

	out, err := query(t, client, map[string]any{
		"method":     "recorded_values",
		"expression": "FIC101.PV - FIC102.PV",
		"start":      start.Format(time.RFC3339),
		"end":        end.Format(time.RFC3339),
	})
	require.NoError(t, err)
	values := out["values"].([]any)
	require.Len(t, values, 24)
	for _, v := range values {
		assert.Equal(t, 6.0, v)
	}

	out, err = query(t, client, map[string]any{
		"method":     "summaries",
		"expression": "(FIC101.PV + FIC102.PV) * 2",
		"start":      start.Format(time.RFC3339),
		"end":        end.Format(time.RFC3339),
		"interval":   "1h",
		"summary":    "average|count",
	})
	require.NoError(t, err)
	columns := out["columns"].(map[string]any)
	assert.Equal(t, []any{28.0, 28.0}, columns["AVERAGE"])
	assert.Len(t, out["index"], 2)
}

func TestAttributeConversion(t *testing.T) {
	client, cat, repo := setupTestEnvironment(t)

	end := time.Now().UTC().Truncate(time.Hour)
	ingest(t, cat, repo, "TI200.PV", end.Add(-time.Hour), end, func(int) float64 { return 100 })

	out, err := query(t, client, map[string]any{
		"method":     "current_value",
		"expression": "'Reactor1|Temperature'",
	})
	require.NoError(t, err)
	assert.Equal(t, "degF", out["units"])
	assert.InDelta(t, 212.0, out["value"], 1e-9)
}

func TestErrorCases(t *testing.T) {
	client, _, _ := setupTestEnvironment(t)

	testCases := []struct {
		name   string
		fields map[string]any
		code   codes.Code
	}{
		{"unknown tag", map[string]any{"method": "current_value", "expression": "NOPE.PV"}, codes.NotFound},
		{"bad boundary", map[string]any{
			"method": "recorded_values", "expression": "FIC101.PV", "start": "*-1h", "end": "*", "boundary": "edge",
		}, codes.InvalidArgument},
		{"constant", map[string]any{"method": "current_value", "expression": "1 + 1"}, codes.InvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := query(t, client, tc.fields)
			require.Error(t, err)
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestRateLimiting(t *testing.T) {
	client, _, _ := setupTestEnvironment(t)

	var limited bool
	for i := 0; i < 20; i++ {
		_, err := query(t, client, map[string]any{"method": "current_value", "expression": "NOPE.PV"})
		if status.Code(err) == codes.ResourceExhausted {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}
