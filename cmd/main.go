package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/tejusbharadwaj/histseries/internal/api"
	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/config"
	"github.com/tejusbharadwaj/histseries/internal/database"
	server "github.com/tejusbharadwaj/histseries/internal/grpc"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/scheduler"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// Command histseries serves historian series over gRPC.
//
// The service supports:
//   - Recorded, interpolated and summary retrieval of points and attributes
//   - Arithmetic compositions of series, e.g. "(FIC101.PV + FIC102.PV) * 3.6"
//   - Writes with historian update and buffer modes
//   - Periodic ingest from an upstream API and metric watches
//   - TimescaleDB storage and Prometheus metrics
//
// Usage:
//
//	histseries [flags]
//
// The flags are:
//
//	--config string
//	      path to config file (default "config.yaml")
//	--port int
//	      gRPC server port, overrides server.port
//	--eval string
//	      evaluate an expression once, print the result as JSON and exit
//	--method string
//	      method used with --eval (default "current_value")
//	--start, --end, --time, --interval, --summary string
//	      request fields used with --eval
func main() {
	cfg := parseFlags()

	appConfig, err := config.Load(cfg.ConfigPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Port > 0 {
		appConfig.Server.Port = cfg.Port
	}
	if err := appConfig.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := appConfig.Logging.NewLogger()
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	if err := timestamp.SetDefaultTimezone(appConfig.Historian.Timezone); err != nil {
		logger.Fatalf("Failed to set timezone: %v", err)
	}

	repo, err := database.NewPostgresRepo(appConfig.Database.ConnString(),
		database.WithWriteBuffer(appConfig.Historian.WriteBuffer),
		database.WithMaxConnections(appConfig.Database.MaxConnections),
		database.WithMaxIntervals(appConfig.Historian.MaxIntervals))
	if err != nil {
		logger.Fatalf("Failed to create repository: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare schema: %v", err)
	}

	cat, err := catalog.New(repo, appConfig.Historian.CatalogCacheSize, logger)
	if err != nil {
		logger.Fatalf("Failed to create catalog: %v", err)
	}

	if cfg.Eval != "" {
		err := evaluateOnce(ctx, cat, cfg)
		if cerr := repo.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Fatalf("Evaluation failed: %v", err)
		}
		return
	}

	sched, err := buildScheduler(ctx, appConfig, cat, repo, logger)
	if err != nil {
		logger.Fatalf("Failed to set up scheduler: %v", err)
	}

	srv, health, err := server.SetupServer(cat, server.ServerConfig{
		RateLimit:      appConfig.RateLimit.RequestsPerSecond,
		RateLimitBurst: appConfig.RateLimit.Burst,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatalf("Failed to setup server: %v", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port))
	if err != nil {
		logger.Fatalf("Failed to listen: %v", err)
	}

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 3)

	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	go func() {
		logger.WithFields(logrus.Fields{
			"port":         appConfig.Server.Port,
			"metrics_port": appConfig.Server.MetricsPort,
			"timezone":     timestamp.DefaultTimezone(),
		}).Info("Starting gRPC server")
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	handleShutdown(ctx, errChan, logger, func() {
		health.Shutdown()
		srv.GracefulStop()
		sched.Stop()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Metrics server shutdown failed")
		}
		if err := repo.Close(); err != nil {
			logger.WithError(err).Error("Failed to close repository")
		}
	})
}

type Config struct {
	ConfigPath string
	Port       int
	Eval       string
	Method     string
	Start      string
	End        string
	Time       string
	Interval   string
	Summary    string
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.IntVar(&cfg.Port, "port", 0, "The gRPC server port (overrides server.port)")
	flag.StringVar(&cfg.Eval, "eval", "", "Evaluate an expression once and print the result")
	flag.StringVar(&cfg.Method, "method", "current_value", "Query method used with --eval")
	flag.StringVar(&cfg.Start, "start", "*-1d", "Start time used with --eval")
	flag.StringVar(&cfg.End, "end", "*", "End time used with --eval")
	flag.StringVar(&cfg.Time, "time", "*", "Time used with --eval for single value methods")
	flag.StringVar(&cfg.Interval, "interval", "1h", "Interval used with --eval")
	flag.StringVar(&cfg.Summary, "summary", "average", "Summary types used with --eval, e.g. average|maximum")

	flag.Parse()

	return cfg
}

// evaluateOnce runs a single query through the same validation and
// execution path as the gRPC service.
func evaluateOnce(ctx context.Context, cat *catalog.Catalog, cfg *Config) error {
	req, err := server.NewRequestValidator().Validate(map[string]any{
		"method":     cfg.Method,
		"expression": cfg.Eval,
		"start":      cfg.Start,
		"end":        cfg.End,
		"time":       cfg.Time,
		"interval":   cfg.Interval,
		"summary":    cfg.Summary,
	})
	if err != nil {
		return err
	}
	c, err := cat.Evaluate(ctx, req.Expression)
	if err != nil {
		return err
	}
	out, err := server.Execute(ctx, c, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func buildScheduler(ctx context.Context, appConfig *config.Config, cat *catalog.Catalog,
	repo *database.PostgresRepo, logger *logrus.Logger) (*scheduler.Scheduler, error) {
	opts := []scheduler.Option{scheduler.WithRegisterer(prometheus.DefaultRegisterer)}

	if appConfig.Historian.WriteBuffer > 0 {
		opts = append(opts, scheduler.WithFlush(repo, appConfig.Historian.FlushSchedule))
	}

	watches := make([]scheduler.Watch, len(appConfig.Watches))
	for i, w := range appConfig.Watches {
		watches[i] = scheduler.Watch{Name: w.Name, Expression: w.Expression, Schedule: w.Schedule}
	}
	if len(watches) > 0 {
		opts = append(opts, scheduler.WithWatches(cat, watches...))
	}

	if in := appConfig.Ingest; in.Enabled {
		target, err := cat.Point(ctx, in.Tag)
		if err != nil {
			return nil, fmt.Errorf("ingest target %s: %w", in.Tag, err)
		}
		mode, err := query.ParseUpdateMode(in.UpdateMode)
		if err != nil {
			return nil, err
		}
		buffer, err := query.ParseBufferMode(in.BufferMode)
		if err != nil {
			return nil, err
		}
		fetcher := api.NewSeriesFetcher(in.URL, target,
			api.WithModes(mode, buffer),
			api.WithLogger(logger))
		opts = append(opts, scheduler.WithIngest(fetcher, in.Schedule, in.Window))

		if in.Bootstrap > 0 {
			go func() {
				if _, err := fetcher.BootstrapHistoricalData(ctx, in.Bootstrap); err != nil {
					logger.WithError(err).Error("Bootstrap failed")
				}
			}()
		}
	}

	return scheduler.NewScheduler(ctx, logger, opts...), nil
}

// handleShutdown blocks until a signal, a background error or context
// cancellation, then runs stop.
func handleShutdown(ctx context.Context, errChan <-chan error, logger *logrus.Logger, stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("Context canceled, initiating shutdown")
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("Received signal, initiating shutdown")
	case err := <-errChan:
		logger.WithError(err).Error("Service error, initiating shutdown")
	}

	logger.Info("Gracefully stopping server...")
	stop()
	logger.Info("Server stopped")
}
