package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// HoldingSeed registers a position that was bought outside the system.
// TotalAmount is the cost basis; TotalAmount + ProfitAmount is the current market value.
type HoldingSeed struct {
	AccountID    string
	FundCode     string
	TotalAmount  float64
	ProfitAmount float64
	Remark       string
}

// HoldingService handles holding reads, seeding and manual corrections.
type HoldingService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	navs            LatestNavProvider
	valuer          valuer
	ledger          HoldingLedger
	now             Clock
	metrics         *metrics.Metrics
	log             *zap.Logger
}

// NewHoldingService creates a new HoldingService with the provided dependencies.
func NewHoldingService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	navs LatestNavProvider,
	estimates EstimateProvider,
	now Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) *HoldingService {
	return &HoldingService{
		db:              db,
		accountRepo:     accountRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		navs:            navs,
		valuer:          valuer{estimates: estimates, log: log},
		ledger:          NewHoldingLedger(now),
		now:             now,
		metrics:         m,
		log:             log,
	}
}

// ListHoldings returns the valued holdings of an account, optionally for one fund code.
func (s *HoldingService) ListHoldings(ctx context.Context, accountID, fundCode string) ([]model.HoldingPosition, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.GetHoldings(ctx, accountID, fundCode)
	if err != nil {
		return nil, err
	}
	return s.valuer.positions(ctx, holdings), nil
}

// GetHolding returns one valued holding.
func (s *HoldingService) GetHolding(ctx context.Context, holdingID string) (model.HoldingPosition, error) {
	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.HoldingPosition{}, err
	}
	return s.valuer.position(ctx, h), nil
}

// CreateHolding opens a holding from an existing position and records it as a confirmed
// buy at the fund's latest published NAV. Shares are (TotalAmount + ProfitAmount) / NAV.
func (s *HoldingService) CreateHolding(ctx context.Context, seed HoldingSeed) (model.Transaction, error) {
	account, err := s.accountRepo.GetAccount(ctx, seed.AccountID)
	if err != nil {
		return model.Transaction{}, err
	}
	fundCode := strings.TrimSpace(seed.FundCode)

	_, err = s.holdingRepo.GetHoldingByFund(ctx, account.ID, fundCode)
	if err == nil {
		return model.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingExists, fundCode)
	}
	if !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return model.Transaction{}, err
	}

	latest, err := s.navs.LatestNav(ctx, fundCode)
	if err != nil {
		return model.Transaction{}, asInvalidNav(err)
	}

	amount := decimal.NewFromFloat(seed.TotalAmount)
	profit := decimal.NewFromFloat(seed.ProfitAmount)
	holdingAmount := amount.Add(profit)
	if amount.IsNegative() || !holdingAmount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: holding amount %s", apperrors.ErrInvalidAmount, holdingAmount)
	}
	shares, err := computeShares(holdingAmount, latest.Nav)
	if err != nil {
		return model.Transaction{}, err
	}

	holdingAmountF := holdingAmount.InexactFloat64()
	profitF := profit.InexactFloat64()
	navDate := model.DateOf(latest.Date)

	var created model.Transaction
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		holdings := s.holdingRepo.WithTx(tx)
		h := model.Holding{
			ID:        uuid.New().String(),
			AccountID: account.ID,
			FundCode:  fundCode,
			UpdatedAt: s.now(),
		}
		if err := holdings.InsertHolding(ctx, &h); err != nil {
			return err
		}
		if err := s.ledger.Apply(ctx, holdings, &h, model.TradeTypeBuy, amount, shares); err != nil {
			return err
		}

		holdingID := h.ID
		created = model.Transaction{
			ID:               uuid.New().String(),
			AccountID:        account.ID,
			HoldingID:        &holdingID,
			FundCode:         fundCode,
			TradeType:        model.TradeTypeBuy,
			Status:           model.TradeStatusConfirmed,
			Amount:           amount.InexactFloat64(),
			ConfirmedNav:     latest.Nav,
			ConfirmedNavDate: navDate,
			Shares:           shares.InexactFloat64(),
			HoldingAmount:    &holdingAmountF,
			ProfitAmount:     &profitF,
			TradeTime:        TradeTimeFor(navDate, false),
			Remark:           seed.Remark,
			CreatedAt:        s.now(),
		}
		return s.transactionRepo.WithTx(tx).InsertTransaction(ctx, &created)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.metrics.TradeCreated(string(created.TradeType), string(created.Status))
	s.log.Info("holding seeded",
		zap.String("account_id", account.ID),
		zap.String("fund_code", fundCode),
		zap.Float64("shares", created.Shares),
		zap.Float64("nav", latest.Nav),
	)
	return created, nil
}

// UpdateHolding overwrites the balances of a holding. It is a manual correction and
// records no transaction.
func (s *HoldingService) UpdateHolding(ctx context.Context, holdingID string, totalAmount, totalShares float64) (model.HoldingPosition, error) {
	if totalAmount < 0 || totalShares < 0 {
		return model.HoldingPosition{}, fmt.Errorf("%w: balances cannot be negative", apperrors.ErrInvalidAmount)
	}

	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.HoldingPosition{}, err
	}
	h.TotalAmount = totalAmount
	h.TotalShares = totalShares
	h.UpdatedAt = s.now()
	if err := s.holdingRepo.UpdateBalances(ctx, &h); err != nil {
		return model.HoldingPosition{}, err
	}

	s.log.Info("holding corrected",
		zap.String("holding_id", h.ID),
		zap.Float64("total_amount", totalAmount),
		zap.Float64("total_shares", totalShares),
	)
	return s.valuer.position(ctx, h), nil
}

// DeleteHolding removes a holding. Its transactions stay with the holding reference cleared.
func (s *HoldingService) DeleteHolding(ctx context.Context, holdingID string) error {
	return s.holdingRepo.DeleteHolding(ctx, holdingID)
}
