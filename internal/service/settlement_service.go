package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// Settlement outcomes reported to metrics.
const (
	outcomeConfirmed = "confirmed"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
)

// errAlreadySettled rolls back a row that another sweep confirmed first.
var errAlreadySettled = errors.New("transaction already settled")

// SettlementService confirms pending transactions whose confirmation date has arrived.
//
// Each row settles in its own database transaction. A row that cannot settle yet
// (NAV not published, insufficient holding, ledger rejection) stays pending, is counted
// as failed and the sweep moves on to the next row. Rows are processed one at a time in
// confirmation date order, so trades on the same holding apply in sequence.
type SettlementService struct {
	db              *sql.DB
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	navs            NavResolver
	ledger          HoldingLedger
	now             Clock
	metrics         *metrics.Metrics
	log             *zap.Logger
}

// NewSettlementService creates a new SettlementService with the provided dependencies.
func NewSettlementService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	navs NavResolver,
	now Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) *SettlementService {
	return &SettlementService{
		db:              db,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		navs:            navs,
		ledger:          NewHoldingLedger(now),
		now:             now,
		metrics:         m,
		log:             log,
	}
}

// Run settles every due pending transaction and reports how many were confirmed.
// Running it again with no newly matured rows confirms nothing.
func (s *SettlementService) Run(ctx context.Context) (model.SettlementResult, error) {
	start := time.Now()
	defer s.metrics.ObserveSettlement(start)

	var result model.SettlementResult
	today := model.DateOf(s.now())

	due, err := s.transactionRepo.GetDuePending(ctx, today)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToRunSettlement, err)
	}

	for _, t := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := s.settle(ctx, t)
		switch {
		case err == nil:
			result.Confirmed++
			s.metrics.SettlementOutcome(outcomeConfirmed)
		case errors.Is(err, errAlreadySettled):
			result.Skipped++
			s.metrics.SettlementOutcome(outcomeSkipped)
		default:
			result.Failed++
			s.metrics.SettlementOutcome(outcomeFailed)
			s.logFailure(t, err)
		}
	}

	s.log.Info("settlement sweep finished",
		zap.Time("as_of", today),
		zap.Int("due", len(due)),
		zap.Int("confirmed", result.Confirmed),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (s *SettlementService) settle(ctx context.Context, t model.Transaction) error {
	amounts, err := computeAmounts(t.Amount, t.FeePercent)
	if err != nil {
		return err
	}

	nav, err := s.navs.ResolveNavByDate(ctx, t.FundCode, t.ConfirmedNavDate)
	if err != nil {
		return asInvalidNav(err)
	}
	shares, err := computeShares(amounts.shareBase, nav)
	if err != nil {
		return err
	}

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		holdings := s.holdingRepo.WithTx(tx)

		holding, err := s.resolveHolding(ctx, holdings, t)
		if err != nil {
			return err
		}

		if t.TradeType == model.TradeTypeSell {
			if err := checkSufficient(holding, amounts.amount, shares); err != nil {
				return err
			}
		}
		if err := s.ledger.Apply(ctx, holdings, &holding, t.TradeType, amounts.amount, shares); err != nil {
			return err
		}

		holdingID := holding.ID
		t.HoldingID = &holdingID
		t.ConfirmedNav = nav
		t.Shares = shares.InexactFloat64()
		t.Status = model.TradeStatusConfirmed

		ok, err := s.transactionRepo.WithTx(tx).MarkConfirmed(ctx, &t)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadySettled
		}
		return nil
	})
}

// resolveHolding finds the holding a pending row settles into: the stored holding_id,
// then the (account, fund) pair, and finally a new empty holding.
func (s *SettlementService) resolveHolding(ctx context.Context, holdings *repository.HoldingRepository, t model.Transaction) (model.Holding, error) {
	if t.HoldingID != nil {
		h, err := holdings.GetHolding(ctx, *t.HoldingID)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			return model.Holding{}, err
		}
	}

	h, err := holdings.GetHoldingByFund(ctx, t.AccountID, t.FundCode)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return model.Holding{}, err
	}

	h = model.Holding{
		ID:        uuid.New().String(),
		AccountID: t.AccountID,
		FundCode:  t.FundCode,
		UpdatedAt: s.now(),
	}
	if err := holdings.InsertHolding(ctx, &h); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

func (s *SettlementService) logFailure(t model.Transaction, err error) {
	fields := []zap.Field{
		zap.String("transaction_id", t.ID),
		zap.String("account_id", t.AccountID),
		zap.String("fund_code", t.FundCode),
		zap.String("trade_type", string(t.TradeType)),
		zap.Time("confirmed_nav_date", t.ConfirmedNavDate),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, apperrors.ErrInvalidNav),
		errors.Is(err, apperrors.ErrInsufficientHolding),
		errors.Is(err, apperrors.ErrNegativeBalance),
		errors.Is(err, apperrors.ErrConcurrentHoldingUpdate):
		s.log.Warn("pending transaction left unsettled", fields...)
	default:
		s.log.Error("failed to settle pending transaction", fields...)
	}
}
