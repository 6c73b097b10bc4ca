package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/cache"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/database"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/logger"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/market"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

// app is the state shared by the subcommands: configuration, logger and database.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

// openApp loads the configuration and opens the database. When migrate is true the
// schema is brought up to date first.
func openApp(ctx context.Context, migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if migrate {
		if _, err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = a.log.Sync()
}

// fundService builds a FundService over the configured provider without the
// estimate cache; one-shot commands gain nothing from it.
func (a *app) fundService() (*service.FundService, *market.HTTPClient) {
	client := market.NewHTTPClient(a.cfg.Market, nil)
	return service.NewFundService(
		repository.NewFundNavRepository(a.db),
		client,
		cache.NopEstimateCache{},
		a.log.Named("fund"),
	), client
}
