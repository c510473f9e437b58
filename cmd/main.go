package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"co_monitoring/internal/config"
	"co_monitoring/internal/engine"
	"co_monitoring/internal/gateway"
	"co_monitoring/internal/handlers"
	"co_monitoring/internal/logger"
	"co_monitoring/internal/server"
	"co_monitoring/internal/service"
	"co_monitoring/internal/storage"
)

// @title        CO Telemetry Analytics API
// @version      1.0
// @description  Aggregated carbon-monoxide telemetry for the tent dashboard.
// @BasePath     /
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, sink, cleanup, err := wireEngine(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to init query engine", "err", err)
	}
	defer cleanup()

	gw := gateway.New(eng, gateway.Options{
		Table:            cfg.Engine.Table,
		LatestLimit:      cfg.Analytics.LatestLimit,
		TempBucketWidthC: cfg.Analytics.TempBucketWidthC,
		PollInterval:     cfg.Engine.PollInterval,
		QueryTimeout:     cfg.Engine.QueryTimeout,
		MaxAttempts:      cfg.Engine.MaxAttempts,
		RetryBackoff:     cfg.Engine.RetryBackoff,
	}, log)

	services := service.NewService(gw, sink, cfg, log)
	apiHandler := handlers.NewHandler(services, cfg, log)

	if cfg.Simulator.Enabled {
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
		log.Infow("simulator started", "tick", cfg.Simulator.Tick)
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("serving analytics API", "port", cfg.Port, "engine", cfg.Engine.Mode)

	waitForShutdown(cancel, srv, log)
}

// wireEngine builds the query engine and reading sink for the configured
// mode. The returned cleanup closes whatever the mode opened.
func wireEngine(ctx context.Context, cfg *config.Config, log *logger.Logger) (engine.Client, storage.ReadingSink, func(), error) {
	if cfg.Engine.Mode == config.ModeAthena {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Engine.Region))
		if err != nil {
			return nil, nil, nil, err
		}
		eng := engine.NewAthena(athena.NewFromConfig(awsCfg), engine.AthenaConfig{
			Database:       cfg.Engine.Database,
			Workgroup:      cfg.Engine.Workgroup,
			OutputLocation: cfg.Engine.OutputS3,
		})
		sink := storage.NewRawUploader(s3.NewFromConfig(awsCfg), cfg.Storage.RawBucket, cfg.Storage.RawPrefix)
		return eng, sink, func() {}, nil
	}

	db, err := storage.InitDB(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { closeDB(db, log) }
	return engine.NewSQLite(db), storage.NewReadingStore(db), cleanup, nil
}

func closeDB(db *sql.DB, log *logger.Logger) {
	if err := db.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
