package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/cache"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/market"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// FundService resolves fund NAVs and realtime estimates.
// Published NAVs are read from the local fund_nav table first and fetched from the
// market data provider on a miss, after which they are stored locally.
type FundService struct {
	navRepo *repository.FundNavRepository
	client  market.Client
	cache   cache.EstimateCache
	log     *zap.Logger
}

// NewFundService creates a FundService. A nil cache disables estimate caching.
func NewFundService(
	navRepo *repository.FundNavRepository,
	client market.Client,
	estimateCache cache.EstimateCache,
	log *zap.Logger,
) *FundService {
	if estimateCache == nil {
		estimateCache = cache.NopEstimateCache{}
	}
	return &FundService{
		navRepo: navRepo,
		client:  client,
		cache:   estimateCache,
		log:     log,
	}
}

// ResolveNavByDate returns the NAV of fundCode published on date.
// Every failure, including an unknown fund or a date without a NAV, wraps ErrInvalidNav.
func (s *FundService) ResolveNavByDate(ctx context.Context, fundCode string, date time.Time) (float64, error) {
	fundCode = strings.TrimSpace(fundCode)
	date = model.DateOf(date)

	stored, err := s.navRepo.GetNav(ctx, fundCode, date)
	if err == nil {
		if stored.Nav <= 0 {
			return 0, fmt.Errorf("%w: stored nav %v for %s on %s", apperrors.ErrInvalidNav, stored.Nav, fundCode, date.Format("2006-01-02"))
		}
		return stored.Nav, nil
	}
	if !errors.Is(err, apperrors.ErrNavNotFound) {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrInvalidNav, err)
	}

	nav, err := s.client.NavOnDate(ctx, fundCode, date)
	if err != nil {
		return 0, fmt.Errorf("%w: %s on %s: %w", apperrors.ErrInvalidNav, fundCode, date.Format("2006-01-02"), err)
	}
	if nav <= 0 {
		return 0, fmt.Errorf("%w: provider returned %v for %s on %s", apperrors.ErrInvalidNav, nav, fundCode, date.Format("2006-01-02"))
	}

	if _, err := s.navRepo.UpsertNav(ctx, fundCode, date, nav); err != nil {
		// The fetched value is still correct; only the local copy is missing.
		s.log.Warn("failed to store fetched nav",
			zap.String("fund_code", fundCode),
			zap.Time("date", date),
			zap.Error(err),
		)
	}
	return nav, nil
}

// LatestNav returns the most recent published NAV of fundCode. The provider's estimate
// payload carries the last published NAV; when the provider cannot answer, the newest
// locally stored NAV is used.
func (s *FundService) LatestNav(ctx context.Context, fundCode string) (model.FundNav, error) {
	fundCode = strings.TrimSpace(fundCode)

	estimate, err := s.client.Estimate(ctx, fundCode)
	if err == nil && estimate.Nav != nil && estimate.NavDate != "" {
		navDate, perr := time.ParseInLocation("2006-01-02", estimate.NavDate, model.MarketLocation)
		if perr == nil {
			if *estimate.Nav <= 0 {
				return model.FundNav{}, fmt.Errorf("%w: provider returned %v for %s", apperrors.ErrInvalidNav, *estimate.Nav, fundCode)
			}
			return s.navRepo.UpsertNav(ctx, fundCode, navDate, *estimate.Nav)
		}
		err = perr
	}
	if err != nil {
		s.log.Debug("provider latest nav unavailable, using stored series",
			zap.String("fund_code", fundCode),
			zap.Error(err),
		)
	}

	nav, lerr := s.navRepo.GetLatestNav(ctx, fundCode)
	if lerr != nil {
		if errors.Is(lerr, apperrors.ErrNavNotFound) && errors.Is(err, apperrors.ErrFundNotFound) {
			return model.FundNav{}, apperrors.ErrFundNotFound
		}
		return model.FundNav{}, lerr
	}
	return nav, nil
}

// ImportNav stores a published NAV supplied by an operator.
func (s *FundService) ImportNav(ctx context.Context, fundCode string, date time.Time, nav float64) (model.FundNav, error) {
	if nav <= 0 {
		return model.FundNav{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidNav, nav)
	}
	return s.navRepo.UpsertNav(ctx, strings.TrimSpace(fundCode), date, nav)
}

// RealtimeEstimate returns the intraday estimate of fundCode, served from the cache
// while fresh. Cache failures are logged and bypassed.
func (s *FundService) RealtimeEstimate(ctx context.Context, fundCode string) (model.FundEstimate, error) {
	fundCode = strings.TrimSpace(fundCode)

	cached, err := s.cache.GetEstimate(ctx, fundCode)
	if err != nil {
		s.log.Warn("estimate cache read failed", zap.String("fund_code", fundCode), zap.Error(err))
	}
	if cached != nil {
		return *cached, nil
	}

	estimate, err := s.client.Estimate(ctx, fundCode)
	if err != nil {
		return model.FundEstimate{}, err
	}

	if err := s.cache.SetEstimate(ctx, estimate); err != nil {
		s.log.Warn("estimate cache write failed", zap.String("fund_code", fundCode), zap.Error(err))
	}
	return estimate, nil
}
