package service

import (
	"context"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// NavResolver returns the published NAV of a fund on a date.
// It fails when the fund is unknown or the NAV series has no entry for the date.
type NavResolver interface {
	ResolveNavByDate(ctx context.Context, fundCode string, date time.Time) (float64, error)
}

// EstimateProvider returns the intraday estimate used to value holdings.
type EstimateProvider interface {
	RealtimeEstimate(ctx context.Context, fundCode string) (model.FundEstimate, error)
}

// LatestNavProvider returns the most recent published NAV of a fund.
type LatestNavProvider interface {
	LatestNav(ctx context.Context, fundCode string) (model.FundNav, error)
}
