// Package server initializes and runs the directory server. It selects the
// store backend, wires the provider and course managers behind the gRPC
// endpoint, serves Prometheus metrics and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/config"
	"github.com/dmitrijs2005/astdirectory/internal/server/managers"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
	"github.com/dmitrijs2005/astdirectory/internal/server/store/dynamo"
	"github.com/dmitrijs2005/astdirectory/internal/server/store/memory"
	"github.com/dmitrijs2005/astdirectory/internal/server/store/postgres"
	"github.com/dmitrijs2005/astdirectory/internal/server/validation"

	gs "github.com/dmitrijs2005/astdirectory/internal/server/grpc"
)

// Test seams.
var (
	logOutput io.Writer = os.Stdout

	openDynamo = func(ctx context.Context, o dynamo.Options) (store.Store, error) {
		return dynamo.NewFromConfig(ctx, o)
	}
	openPostgres = func(ctx context.Context, dsn string) (store.Store, io.Closer, error) {
		db, err := postgres.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.New(db), db, nil
	}
)

const metricsShutdownTimeout = 5 * time.Second

type App struct {
	config    *config.Config
	logger    logging.Logger
	registry  *prometheus.Registry
	providers *managers.ProviderManager
	courses   *managers.CourseManager
	closer    io.Closer
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	level, _ := c.SlogLevel()
	logger := logging.NewJSON(logOutput, level)

	ctx := context.Background()

	backend, closer, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := store.NewMetrics(registry)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("metrics init error: %w", err)
	}
	s := store.Instrument(backend, metrics)

	v := validation.New()
	pm := managers.NewProviderManager(s, c.ProviderTable, managers.WithLogger(logger), managers.WithValidator(v))
	cm := managers.NewCourseManager(s, c.CourseTable, managers.WithLogger(logger), managers.WithValidator(v))

	logger.Info(ctx, "store ready", "backend", c.StoreBackend, "provider_table", c.ProviderTable, "course_table", c.CourseTable)

	return &App{config: c, logger: logger, registry: registry, providers: pm, courses: cm, closer: closer}, nil
}

func openStore(ctx context.Context, c *config.Config) (store.Store, io.Closer, error) {
	switch c.StoreBackend {
	case config.BackendDynamoDB:
		s, err := openDynamo(ctx, dynamo.Options{
			Region:          c.AWSRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			Endpoint:        c.DynamoDBEndpoint,
		})
		return s, nil, err
	case config.BackendPostgres:
		return openPostgres(ctx, c.DatabaseDSN)
	case config.BackendMemory:
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.providers, app.courses)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry}))
	return mux
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           app.metricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then releases the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			app.logger.Error(ctx, "closing store", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
