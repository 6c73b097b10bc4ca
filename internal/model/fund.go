package model

import "time"

// FundNav is the published net asset value of a fund on a trading date.
type FundNav struct {
	ID       string    `json:"id"`
	FundCode string    `json:"fundCode"`
	Date     time.Time `json:"date"`
	Nav      float64   `json:"nav"`
}

// FundEstimate is an intraday valuation of a fund.
// EstimatedNav is nil outside trading hours or when the provider has no estimate,
// in which case consumers fall back to the last published Nav.
type FundEstimate struct {
	FundCode               string    `json:"fundCode"`
	Nav                    *float64  `json:"nav"`
	NavDate                string    `json:"navDate,omitempty"`
	EstimatedNav           *float64  `json:"estimatedNav"`
	EstimatedChangePercent *float64  `json:"estimatedChangePercent"`
	EstimateTime           time.Time `json:"estimateTime"`
}

// ValuationNav returns the NAV used to value a holding: the estimate when present,
// otherwise the last published NAV.
func (e FundEstimate) ValuationNav() *float64 {
	if e.EstimatedNav != nil {
		return e.EstimatedNav
	}
	return e.Nav
}
