package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// TradeRequest describes one buy or sell order.
// FeePercent is optional; see ResolveFee for the default.
type TradeRequest struct {
	AccountID   string
	FundCode    string
	TradeType   model.TradeType
	Amount      float64
	FeePercent  *float64
	TradeDate   time.Time
	AfterCutoff bool
	Remark      string
}

// TransactionService creates fund transactions and decides whether they settle immediately.
//
// A trade whose confirmation date has already arrived is confirmed on creation: its NAV
// is resolved, shares are computed and the holding ledger is updated in the same database
// transaction that stores the row. Any other trade is stored as pending and left to the
// settlement sweep.
type TransactionService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	calendar        TradingCalendar
	navs            NavResolver
	ledger          HoldingLedger
	now             Clock
	metrics         *metrics.Metrics
	log             *zap.Logger
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	calendar TradingCalendar,
	navs NavResolver,
	now Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		calendar:        calendar,
		navs:            navs,
		ledger:          NewHoldingLedger(now),
		now:             now,
		metrics:         m,
		log:             log,
	}
}

// tradePlan holds everything about a trade that can be decided before opening a
// database transaction.
type tradePlan struct {
	accountID        string
	fundCode         string
	tradeType        model.TradeType
	feePercent       float64
	amounts          tradeAmounts
	tradeTime        time.Time
	confirmationDate time.Time
	status           model.TradeStatus
	nav              float64
	shares           decimal.Decimal
	remark           string
}

// CreateTransaction records a trade placed on req.TradeDate, before or after the cutoff.
// The stored trade time is the canonical 14:59 or 15:01 of that date.
func (s *TransactionService) CreateTransaction(ctx context.Context, req TradeRequest) (model.Transaction, error) {
	return s.create(ctx, req, TradeTimeFor(req.TradeDate, req.AfterCutoff))
}

// CreateTransactionAt records a trade placed at an exact timestamp. The trade date and
// cutoff flag of req are derived from tradeTime.
func (s *TransactionService) CreateTransactionAt(ctx context.Context, req TradeRequest, tradeTime time.Time) (model.Transaction, error) {
	tradeTime = tradeTime.In(model.MarketLocation)
	req.TradeDate = model.DateOf(tradeTime)
	req.AfterCutoff = IsAfterCutoff(tradeTime)
	return s.create(ctx, req, tradeTime)
}

func (s *TransactionService) create(ctx context.Context, req TradeRequest, tradeTime time.Time) (model.Transaction, error) {
	plan, err := s.planTrade(ctx, req, tradeTime)
	if err != nil {
		return model.Transaction{}, err
	}

	var created model.Transaction
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = s.commitTrade(ctx, tx, plan, nil)
		return err
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.metrics.TradeCreated(string(created.TradeType), string(created.Status))
	s.log.Info("transaction created",
		zap.String("transaction_id", created.ID),
		zap.String("account_id", created.AccountID),
		zap.String("fund_code", created.FundCode),
		zap.String("trade_type", string(created.TradeType)),
		zap.String("status", string(created.Status)),
		zap.Time("confirmed_nav_date", created.ConfirmedNavDate),
	)
	return created, nil
}

// planTrade performs every read and lookup a trade needs. Checks run in this order:
// account, holding for sells, amounts, NAV.
func (s *TransactionService) planTrade(ctx context.Context, req TradeRequest, tradeTime time.Time) (*tradePlan, error) {
	account, err := s.accountRepo.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	fundCode := strings.TrimSpace(req.FundCode)
	if fundCode == "" {
		return nil, errors.New("fund code is required")
	}
	if !req.TradeType.Valid() {
		return nil, fmt.Errorf("unknown trade type %q", req.TradeType)
	}

	feePercent := ResolveFee(req.FeePercent, account.DefaultBuyFeePercent, req.TradeType)

	if req.TradeType == model.TradeTypeSell {
		if _, err := s.holdingRepo.GetHoldingByFund(ctx, account.ID, fundCode); err != nil {
			return nil, err
		}
	}

	amounts, err := computeAmounts(req.Amount, feePercent)
	if err != nil {
		return nil, err
	}

	confirmationDate := ResolveConfirmationDate(s.calendar, req.TradeDate, req.AfterCutoff)
	plan := &tradePlan{
		accountID:        account.ID,
		fundCode:         fundCode,
		tradeType:        req.TradeType,
		feePercent:       feePercent,
		amounts:          amounts,
		tradeTime:        tradeTime,
		confirmationDate: confirmationDate,
		status:           resolveStatus(confirmationDate, s.now()),
		shares:           decimal.Zero,
		remark:           req.Remark,
	}

	if plan.status == model.TradeStatusConfirmed {
		nav, err := s.navs.ResolveNavByDate(ctx, fundCode, confirmationDate)
		if err != nil {
			return nil, asInvalidNav(err)
		}
		shares, err := computeShares(amounts.shareBase, nav)
		if err != nil {
			return nil, err
		}
		plan.nav = nav
		plan.shares = shares
	}
	return plan, nil
}

// commitTrade writes a planned trade inside tx. The holding is read again here so the
// sufficiency check and the ledger write see the same row.
func (s *TransactionService) commitTrade(ctx context.Context, tx *sql.Tx, plan *tradePlan, conversionID *string) (model.Transaction, error) {
	holdings := s.holdingRepo.WithTx(tx)

	holding, err := holdings.GetHoldingByFund(ctx, plan.accountID, plan.fundCode)
	if errors.Is(err, apperrors.ErrHoldingNotFound) && plan.tradeType == model.TradeTypeBuy {
		holding, err = s.openHolding(ctx, holdings, plan.accountID, plan.fundCode)
	}
	if err != nil {
		return model.Transaction{}, err
	}

	if plan.status == model.TradeStatusConfirmed {
		if plan.tradeType == model.TradeTypeSell {
			if err := checkSufficient(holding, plan.amounts.amount, plan.shares); err != nil {
				return model.Transaction{}, err
			}
		}
		if err := s.ledger.Apply(ctx, holdings, &holding, plan.tradeType, plan.amounts.amount, plan.shares); err != nil {
			return model.Transaction{}, err
		}
	}

	holdingID := holding.ID
	t := model.Transaction{
		ID:               uuid.New().String(),
		AccountID:        plan.accountID,
		HoldingID:        &holdingID,
		ConversionID:     conversionID,
		FundCode:         plan.fundCode,
		TradeType:        plan.tradeType,
		Status:           plan.status,
		Amount:           plan.amounts.amount.InexactFloat64(),
		FeePercent:       plan.feePercent,
		FeeAmount:        plan.amounts.feeAmount.InexactFloat64(),
		ConfirmedNav:     plan.nav,
		ConfirmedNavDate: plan.confirmationDate,
		Shares:           plan.shares.InexactFloat64(),
		TradeTime:        plan.tradeTime,
		Remark:           plan.remark,
		CreatedAt:        s.now(),
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, &t); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// openHolding inserts an empty holding for a first buy.
func (s *TransactionService) openHolding(ctx context.Context, holdings *repository.HoldingRepository, accountID, fundCode string) (model.Holding, error) {
	h := model.Holding{
		ID:        uuid.New().String(),
		AccountID: accountID,
		FundCode:  fundCode,
		UpdatedAt: s.now(),
	}
	if err := holdings.InsertHolding(ctx, &h); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// ListTransactions returns an account's transactions newest first, optionally
// restricted to one fund code. Returns ErrAccountNotFound for an unknown account.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID, fundCode string) ([]model.Transaction, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactions(ctx, accountID, fundCode)
}

// asInvalidNav makes sure a NAV lookup failure matches ErrInvalidNav.
func asInvalidNav(err error) error {
	if errors.Is(err, apperrors.ErrInvalidNav) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidNav, err)
}
