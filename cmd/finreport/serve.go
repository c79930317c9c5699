package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/ukaji3/finreport-go/internal/config"
	"github.com/ukaji3/finreport-go/internal/logging"
	"github.com/ukaji3/finreport-go/internal/metrics"
	"github.com/ukaji3/finreport-go/internal/web"
	"github.com/ukaji3/finreport-go/pkg/finreport"
	"github.com/ukaji3/finreport-go/pkg/finreport/cache"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report HTTP API",
		Long: `Run the report HTTP API. Configuration is read from the environment
(and a .env file in the working directory, if present).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	path, err := cfg.Report.ResolvedPath()
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}
	mode, err := cache.ParseMode(cfg.Cache.Mode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx, cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	defer closeStore()

	var m *metrics.Metrics
	gateOpts := []cache.GateOption{cache.WithTTL(cfg.Cache.TTL), cache.WithMode(mode)}
	opts := finreport.Options{
		FirstColumn: cfg.Extract.FirstColumn,
		HeaderRow:   cfg.Extract.HeaderRow,
		MaxWorkers:  cfg.Extract.MaxWorkers,
		Logger:      logger,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New("finreport", reg)
		gateOpts = append(gateOpts, cache.WithObserver(m))
		opts.Observer = m
	}

	service := finreport.NewService(store, path, opts, gateOpts...)
	server := web.NewServer(service, cfg.Server, m)

	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"report", path,
		"cache_backend", cfg.Cache.Backend,
		"cache_mode", mode.String(),
		"cache_ttl", cfg.Cache.TTL,
		"metrics", cfg.Metrics.Enabled,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newStore builds the configured cache backend and starts its expiry loop,
// which stops when ctx is done.
func newStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Store, func(), error) {
	if strings.EqualFold(cfg.Backend, "sqlite") {
		s, err := cache.NewSQLiteStore(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		go cache.RunSweeper(ctx, s, cfg.SweepInterval, logger)
		return s, func() { s.Close() }, nil
	}

	s := cache.NewMemoryStore()
	go s.Run(ctx)
	return s, func() {}, nil
}
