package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/cache"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/calendar"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/database"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/logger"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/market"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	log.Info("connected to database", zap.String("path", cfg.Database.Path))

	if cfg.Database.AutoMigrate {
		version, err := database.Migrate(context.Background(), db)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("database schema ready", zap.Int64("version", version))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	conversionRepo := repository.NewConversionRepository(db)
	navRepo := repository.NewFundNavRepository(db)

	var calendarSource calendar.Source = repository.NewTradeCalendarRepository(db)
	if cfg.Calendar.File != "" {
		calendarSource = calendar.FileSource{Path: cfg.Calendar.File}
	}
	cal := calendar.New(calendarSource, log.Named("calendar"), cfg.Calendar.LoadTimeout,
		calendar.WithRetryAfter(cfg.Calendar.RetryAfter))
	defer cal.Close()
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.Calendar.LoadTimeout)
	if err := cal.Warm(warmCtx); err != nil {
		log.Warn("trading calendar unavailable, using weekday fallback", zap.Error(err))
	}
	cancelWarm()
	log.Info("trading calendar loaded", zap.Stringer("mode", cal.Mode()))

	client := market.NewHTTPClient(cfg.Market, m)
	defer client.Close()

	estimateCache, err := newEstimateCache(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer estimateCache.Close()

	// Create services
	clock := service.SystemClock
	fundService := service.NewFundService(navRepo, client, estimateCache, log.Named("fund"))
	transactionService := service.NewTransactionService(
		db,
		accountRepo,
		holdingRepo,
		transactionRepo,
		cal,
		fundService,
		clock,
		m,
		log.Named("transaction"),
	)
	settlementService := service.NewSettlementService(
		db,
		holdingRepo,
		transactionRepo,
		fundService,
		clock,
		m,
		log.Named("settlement"),
	)
	services := api.Services{
		System: service.NewSystemService(db, map[string]bool{
			"estimate_cache": cfg.Redis.URL != "",
		}),
		Account: service.NewAccountService(accountRepo, holdingRepo, fundService, clock, log.Named("account")),
		Holding: service.NewHoldingService(
			db,
			accountRepo,
			holdingRepo,
			transactionRepo,
			fundService,
			fundService,
			clock,
			m,
			log.Named("holding"),
		),
		Transaction: transactionService,
		Conversion:  service.NewConversionService(db, conversionRepo, transactionService, log.Named("conversion")),
		Settlement:  settlementService,
		Fund:        fundService,
		Calendar:    cal,
	}

	var scheduler *service.SettlementScheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = service.NewSettlementScheduler(settlementService, cfg.Scheduler, log.Named("scheduler"))
		if err != nil {
			return err
		}
		scheduler.Start()
		log.Info("settlement scheduler started", zap.Time("next_run", scheduler.Next()))
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, log.Named("http"), m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			log.Warn("settlement sweep still running at shutdown", zap.Error(err))
		}
	}

	log.Info("server exited")
	return nil
}

// newEstimateCache returns the redis cache when configured. An unreachable redis is
// logged and replaced by the no-op cache so estimates still work uncached.
func newEstimateCache(cfg config.RedisConfig, log *zap.Logger) (cache.EstimateCache, error) {
	if cfg.URL == "" {
		return cache.NopEstimateCache{}, nil
	}
	rc, err := cache.NewRedisEstimateCache(cfg.URL, cfg.EstimateTTL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Warn("redis unreachable, estimate cache disabled", zap.Error(err))
		_ = rc.Close()
		return cache.NopEstimateCache{}, nil
	}
	return rc, nil
}
