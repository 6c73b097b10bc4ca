package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// holdingWriter persists new holding balances. *repository.HoldingRepository implements it.
type holdingWriter interface {
	UpdateBalances(ctx context.Context, h *model.Holding) error
}

// HoldingLedger is the only code path that changes holding balances.
type HoldingLedger struct {
	now Clock
}

// NewHoldingLedger creates a ledger stamping updates with now.
func NewHoldingLedger(now Clock) HoldingLedger {
	return HoldingLedger{now: now}
}

// Apply adds (buy) or subtracts (sell) amount and shares from h and persists the result.
// A result below zero in either balance fails with ErrNegativeBalance and nothing is written.
// h is only modified when the write succeeds.
func (l HoldingLedger) Apply(ctx context.Context, w holdingWriter, h *model.Holding, tradeType model.TradeType, amount, shares decimal.Decimal) error {
	curAmount := decimal.NewFromFloat(h.TotalAmount)
	curShares := sharesOf(h.TotalShares)
	shares = shares.Round(SharePrecision)

	var newAmount, newShares decimal.Decimal
	switch tradeType {
	case model.TradeTypeBuy:
		newAmount, newShares = curAmount.Add(amount), curShares.Add(shares)
	case model.TradeTypeSell:
		newAmount, newShares = curAmount.Sub(amount), curShares.Sub(shares)
	default:
		return fmt.Errorf("unknown trade type %q", tradeType)
	}

	if newAmount.IsNegative() || newShares.IsNegative() {
		return fmt.Errorf("%w: holding %s would become amount %s shares %s",
			apperrors.ErrNegativeBalance, h.ID, newAmount, newShares)
	}

	updated := *h
	updated.TotalAmount = newAmount.InexactFloat64()
	updated.TotalShares = newShares.InexactFloat64()
	updated.UpdatedAt = l.now()
	if err := w.UpdateBalances(ctx, &updated); err != nil {
		return err
	}
	*h = updated
	return nil
}
