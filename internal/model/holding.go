package model

import "time"

// Holding is the running position of one fund inside one account.
// TotalAmount is the cost basis, TotalShares the share count. Both are never negative.
// Version increments on every ledger write and guards concurrent updates.
type Holding struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	FundCode    string    `json:"fundCode"`
	TotalAmount float64   `json:"totalAmount"`
	TotalShares float64   `json:"totalShares"`
	Version     int64     `json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HoldingPosition is a holding valued at the fund's realtime estimate.
// The estimated fields are nil when no estimate is available.
type HoldingPosition struct {
	HoldingID              string    `json:"holdingId"`
	AccountID              string    `json:"accountId"`
	FundCode               string    `json:"fundCode"`
	TotalAmount            float64   `json:"totalAmount"`
	TotalShares            float64   `json:"totalShares"`
	EstimatedNav           *float64  `json:"estimatedNav"`
	EstimatedValue         *float64  `json:"estimatedValue"`
	EstimatedProfit        *float64  `json:"estimatedProfit"`
	EstimatedProfitPercent *float64  `json:"estimatedProfitPercent"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
