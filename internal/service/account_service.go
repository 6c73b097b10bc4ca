package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
)

// AccountUpdate carries the fields of a partial account update. Nil fields are left unchanged.
type AccountUpdate struct {
	Name                 *string
	Remark               *string
	DefaultBuyFeePercent *float64
}

// AccountService handles account business logic and account level valuation.
type AccountService struct {
	accountRepo *repository.AccountRepository
	holdingRepo *repository.HoldingRepository
	valuer      valuer
	now         Clock
}

// NewAccountService creates a new AccountService. estimates values holdings in
// detail and summary responses.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	estimates EstimateProvider,
	now Clock,
	log *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		valuer:      valuer{estimates: estimates, log: log},
		now:         now,
	}
}

// CreateAccount stores a new account.
func (s *AccountService) CreateAccount(ctx context.Context, name, remark string, defaultBuyFeePercent float64) (model.Account, error) {
	a := model.Account{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(name),
		Remark:               remark,
		DefaultBuyFeePercent: defaultBuyFeePercent,
		CreatedAt:            s.now(),
	}
	if err := s.accountRepo.InsertAccount(ctx, &a); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// ListAccounts returns every account.
func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accountRepo.GetAccounts(ctx)
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	return s.accountRepo.GetAccount(ctx, accountID)
}

// UpdateAccount applies a partial update and returns the stored account.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, upd AccountUpdate) (model.Account, error) {
	a, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	if upd.Name != nil {
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Remark != nil {
		a.Remark = *upd.Remark
	}
	if upd.DefaultBuyFeePercent != nil {
		a.DefaultBuyFeePercent = *upd.DefaultBuyFeePercent
	}
	if err := s.accountRepo.UpdateAccount(ctx, &a); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// DeleteAccount removes an account together with its holdings, transactions and conversions.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	return s.accountRepo.DeleteAccount(ctx, accountID)
}

// GetAccountDetail returns the account with its valued holdings and totals.
func (s *AccountService) GetAccountDetail(ctx context.Context, accountID string) (model.AccountDetail, error) {
	a, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return model.AccountDetail{}, err
	}
	holdings, err := s.holdingRepo.GetHoldings(ctx, accountID, "")
	if err != nil {
		return model.AccountDetail{}, err
	}

	positions := s.valuer.positions(ctx, holdings)
	t := totals(positions)
	return model.AccountDetail{
		Account:            a,
		Holdings:           positions,
		TotalCost:          t.cost,
		TotalValue:         t.value,
		TotalProfit:        t.profit,
		TotalProfitPercent: t.profitPercent,
	}, nil
}

// GetAccountSummary returns only the totals of GetAccountDetail.
func (s *AccountService) GetAccountSummary(ctx context.Context, accountID string) (model.AccountSummary, error) {
	detail, err := s.GetAccountDetail(ctx, accountID)
	if err != nil {
		return model.AccountSummary{}, err
	}
	return model.AccountSummary{
		AccountID:          detail.ID,
		TotalCost:          detail.TotalCost,
		TotalValue:         detail.TotalValue,
		TotalProfit:        detail.TotalProfit,
		TotalProfitPercent: detail.TotalProfitPercent,
	}, nil
}
