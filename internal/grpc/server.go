// Package server exposes series retrieval over gRPC.
//
// SeriesService has a single Query method taking a google.protobuf.Struct:
//
//	{
//	  "method": "summaries",
//	  "expression": "(FIC101.PV + FIC102.PV) * 3.6",
//	  "start": "*-1d", "end": "*",
//	  "interval": "1h",
//	  "summary": "average|maximum"
//	}
//
// The expression is resolved through the catalog, so any composition of
// points, attributes and constants can be queried. Series results are
// returned as {"name", "units", "timestamps", "values"}; summary tables as
// {"name", "units", "index", "columns"}.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/database"
	middleware "github.com/tejusbharadwaj/histseries/internal/grpc/middlewares"
	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/source"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
)

// ServerConfig holds configuration options for the gRPC server
type ServerConfig struct {
	RateLimit      float64 // Requests per second
	RateLimitBurst int     // Maximum burst size for rate limiting
	// Registerer receives the request metrics; nil means the default
	// prometheus registry.
	Registerer prometheus.Registerer
	Logger     *logrus.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		RateLimit:      5.0, // 5 requests per second
		RateLimitBurst: 10,  // Burst of 10 requests
	}
}

// Evaluator resolves an expression to a series. *catalog.Catalog implements
// it.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (*series.Container, error)
}

// SeriesService encapsulates business logic
type SeriesService struct {
	evaluator Evaluator
	validator *RequestValidator
}

var _ SeriesServiceServer = (*SeriesService)(nil)

// NewSeriesService creates a new service instance
func NewSeriesService(evaluator Evaluator) *SeriesService {
	return &SeriesService{
		evaluator: evaluator,
		validator: NewRequestValidator(),
	}
}

// Query implements the gRPC service method
func (s *SeriesService) Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.validator.Validate(in.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := s.evaluator.Evaluate(ctx, req.Expression)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := Execute(ctx, c, req)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// Execute runs req against c and returns the response fields.
func Execute(ctx context.Context, c *series.Container, req *Request) (map[string]any, error) {
	out := map[string]any{
		"name":  c.Name(),
		"units": c.UnitsOfMeasurement(),
	}

	var (
		s     *models.Series
		table *models.SummaryTable
		err   error
	)
	switch req.Method {
	case "current_value":
		v, err := c.CurrentValue(ctx)
		if err != nil {
			return nil, err
		}
		out["value"] = encodeValue(v)
		return out, nil
	case "update_value":
		if err := c.UpdateValue(ctx, req.Value, req.UpdateOptions...); err != nil {
			return nil, err
		}
		out["written"] = true
		return out, nil
	case "recorded_value":
		s, err = c.RecordedValue(ctx, req.Time, req.RetrievalMode)
	case "interpolated_value":
		s, err = c.InterpolatedValue(ctx, req.Time)
	case "recorded_values":
		s, err = c.RecordedValues(ctx, req.Start, req.End, req.Boundary, req.Filter)
	case "interpolated_values":
		s, err = c.InterpolatedValues(ctx, req.Start, req.End, req.Interval, req.Filter)
	case "summary":
		table, err = c.Summary(ctx, req.Start, req.End, req.Summary, req.SummaryOptions...)
	case "summaries":
		table, err = c.Summaries(ctx, req.Start, req.End, req.Interval, req.Summary, req.SummaryOptions...)
	case "filtered_summaries":
		table, err = c.FilteredSummaries(ctx, req.Start, req.End, req.Interval, req.Filter,
			req.Summary, req.FilterInterval, req.SummaryOptions...)
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", query.ErrInvalidParameter, req.Method)
	}
	if err != nil {
		return nil, err
	}

	if s != nil {
		out["timestamps"] = encodeTimes(s.Timestamps())
		values := s.Values()
		encoded := make([]any, len(values))
		for i, v := range values {
			encoded[i] = encodeValue(v)
		}
		out["values"] = encoded
		return out, nil
	}

	out["index"] = encodeTimes(table.Index())
	columns := make(map[string]any, len(table.Columns()))
	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		encoded := make([]any, len(col))
		for i, v := range col {
			encoded[i] = encodeValue(v)
		}
		columns[name] = encoded
	}
	out["columns"] = columns
	return out, nil
}

func encodeTimes(ts []time.Time) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = t.Format(time.RFC3339Nano)
	}
	return out
}

// encodeValue maps a series value onto the types structpb accepts. NaN and
// infinities become null.
func encodeValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, _ := models.ToFloat(v)
		return encodeValue(f)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, query.ErrInvalidParameter),
		errors.Is(err, catalog.ErrInvalidExpression),
		errors.Is(err, catalog.ErrConstantExpression),
		errors.Is(err, catalog.ErrInvalidPath),
		errors.Is(err, timespec.ErrInvalidTime),
		errors.Is(err, timespec.ErrInvalidRange),
		errors.Is(err, timespec.ErrInvalidSpan),
		errors.Is(err, database.ErrInvalidFilter),
		errors.Is(err, database.ErrUnitConversion),
		errors.Is(err, models.ErrNonNumeric):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, source.ErrNotFound), errors.Is(err, database.ErrNoData):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, database.ErrBufferUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Errorf(codes.Internal, "query failed: %v", err)
}

// ConfigureGRPCServer registers the service without middleware (for
// development and debug only).
func ConfigureGRPCServer(evaluator Evaluator, opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	RegisterSeriesServiceServer(srv, NewSeriesService(evaluator))
	return srv
}

// SetupServer initializes and configures the gRPC server with all
// middleware and the health service.
func SetupServer(evaluator Evaluator, config ServerConfig) (*grpc.Server, *HealthChecker, error) {
	reg := config.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	metrics := middleware.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}

	server := grpc.NewServer(
		grpc.UnaryInterceptor(
			chainUnaryInterceptors(
				middleware.ContextMiddleware, // Add request ID first
				middleware.NewRateLimitingInterceptor(config.RateLimit, config.RateLimitBurst),
				middleware.NewLoggingInterceptor(logger),
				middleware.NewMetricsInterceptor(metrics),
			),
		),
	)

	RegisterSeriesServiceServer(server, NewSeriesService(evaluator))

	health := NewHealthChecker()
	health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	health.SetServingStatus(ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(server, health)

	return server, health, nil
}

// chainUnaryInterceptors creates a single interceptor from multiple interceptors
func chainUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			interceptor := interceptors[i]
			chainedInterceptor := chain
			chain = func(currentCtx context.Context, currentReq interface{}) (interface{}, error) {
				return interceptor(currentCtx, currentReq, info, chainedInterceptor)
			}
		}
		return chain(ctx, req)
	}
}
