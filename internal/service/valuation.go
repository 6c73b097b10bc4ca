package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// maxEstimateLookups bounds concurrent estimate requests for one valuation.
const maxEstimateLookups = 8

// valuer prices holdings with realtime estimates.
type valuer struct {
	estimates EstimateProvider
	log       *zap.Logger
}

// positions values every holding. A holding whose estimate cannot be fetched is
// returned without estimated fields.
func (v valuer) positions(ctx context.Context, holdings []model.Holding) []model.HoldingPosition {
	positions := make([]model.HoldingPosition, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEstimateLookups)
	for i, h := range holdings {
		g.Go(func() error {
			positions[i] = v.position(gctx, h)
			return nil
		})
	}
	_ = g.Wait()

	return positions
}

func (v valuer) position(ctx context.Context, h model.Holding) model.HoldingPosition {
	p := model.HoldingPosition{
		HoldingID:   h.ID,
		AccountID:   h.AccountID,
		FundCode:    h.FundCode,
		TotalAmount: h.TotalAmount,
		TotalShares: h.TotalShares,
		UpdatedAt:   h.UpdatedAt,
	}
	if v.estimates == nil {
		return p
	}

	estimate, err := v.estimates.RealtimeEstimate(ctx, h.FundCode)
	if err != nil {
		v.log.Warn("failed to fetch fund estimate",
			zap.String("fund_code", h.FundCode),
			zap.Error(err),
		)
		return p
	}
	nav := estimate.ValuationNav()
	if nav == nil {
		return p
	}

	value := decimal.NewFromFloat(h.TotalShares).Mul(decimal.NewFromFloat(*nav))
	profit := value.Sub(decimal.NewFromFloat(h.TotalAmount))

	navCopy := *nav
	p.EstimatedNav = &navCopy
	p.EstimatedValue = floatRef(value)
	p.EstimatedProfit = floatRef(profit)
	p.EstimatedProfitPercent = profitPercent(profit, decimal.NewFromFloat(h.TotalAmount))
	return p
}

// accountTotals sums positions. Value and profit are only reported when every position
// has an estimated value.
type accountTotals struct {
	cost          float64
	value         *float64
	profit        *float64
	profitPercent *float64
}

func totals(positions []model.HoldingPosition) accountTotals {
	cost := decimal.Zero
	value := decimal.Zero
	complete := true
	for _, p := range positions {
		cost = cost.Add(decimal.NewFromFloat(p.TotalAmount))
		if p.EstimatedValue == nil {
			complete = false
			continue
		}
		value = value.Add(decimal.NewFromFloat(*p.EstimatedValue))
	}

	t := accountTotals{cost: cost.InexactFloat64()}
	if !complete {
		return t
	}
	profit := value.Sub(cost)
	t.value = floatRef(value)
	t.profit = floatRef(profit)
	t.profitPercent = profitPercent(profit, cost)
	return t
}

func profitPercent(profit, cost decimal.Decimal) *float64 {
	if !cost.IsPositive() {
		return nil
	}
	return floatRef(profit.Div(cost).Mul(hundred))
}

func floatRef(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
