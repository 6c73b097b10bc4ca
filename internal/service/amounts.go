package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// SharePrecision is the number of decimal places kept for share counts. Shares are
// rounded to it when computed and when read back from storage, so a stored balance
// and a freshly computed trade compare exactly.
const SharePrecision int32 = 8

// sharesOf reads a stored share count at SharePrecision.
func sharesOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(SharePrecision)
}

// ResolveFee picks the fee percent of a trade. An explicit request wins; otherwise buys
// use the account default and sells are free.
func ResolveFee(requested *float64, accountDefault float64, tradeType model.TradeType) float64 {
	if requested != nil {
		return *requested
	}
	if tradeType == model.TradeTypeBuy {
		return accountDefault
	}
	return 0
}

// tradeAmounts splits a traded amount into the fee and the part converted into shares.
type tradeAmounts struct {
	amount    decimal.Decimal
	feeAmount decimal.Decimal
	shareBase decimal.Decimal
}

// computeAmounts applies fee_amount = amount × fee% / 100 and share_base = amount − fee_amount.
// Returns ErrInvalidAmount when the share base is not positive.
func computeAmounts(amount, feePercent float64) (tradeAmounts, error) {
	a := decimal.NewFromFloat(amount)
	fee := a.Mul(decimal.NewFromFloat(feePercent)).Div(hundred)
	base := a.Sub(fee)
	if !a.IsPositive() || !base.IsPositive() {
		return tradeAmounts{}, fmt.Errorf("%w: amount %v with fee %v%% leaves no share base", apperrors.ErrInvalidAmount, amount, feePercent)
	}
	return tradeAmounts{amount: a, feeAmount: fee, shareBase: base}, nil
}

// computeShares divides the share base by a positive NAV, rounded to SharePrecision.
func computeShares(shareBase decimal.Decimal, nav float64) (decimal.Decimal, error) {
	n := decimal.NewFromFloat(nav)
	if !n.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: nav %v", apperrors.ErrInvalidNav, nav)
	}
	return shareBase.Div(n).Round(SharePrecision), nil
}

// checkSufficient rejects a sell that exceeds the holding's amount or shares.
func checkSufficient(h model.Holding, amount, shares decimal.Decimal) error {
	if decimal.NewFromFloat(h.TotalAmount).LessThan(amount) || sharesOf(h.TotalShares).LessThan(shares.Round(SharePrecision)) {
		return fmt.Errorf("%w: holding %s has amount %v shares %v, sell needs amount %s shares %s",
			apperrors.ErrInsufficientHolding, h.FundCode, h.TotalAmount, h.TotalShares, amount, shares)
	}
	return nil
}
