package model

import "time"

// Account is a user's fund account. Holdings and transactions belong to exactly one account.
type Account struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Remark               string    `json:"remark,omitempty"`
	DefaultBuyFeePercent float64   `json:"defaultBuyFeePercent"`
	CreatedAt            time.Time `json:"createdAt"`
}

// AccountSummary aggregates the valuation of every holding in an account.
// TotalValue and TotalProfit are only set when every holding could be valued.
type AccountSummary struct {
	AccountID          string   `json:"accountId"`
	TotalCost          float64  `json:"totalCost"`
	TotalValue         *float64 `json:"totalValue"`
	TotalProfit        *float64 `json:"totalProfit"`
	TotalProfitPercent *float64 `json:"totalProfitPercent"`
}

// AccountDetail is an account together with its valued holdings and totals.
type AccountDetail struct {
	Account
	Holdings           []HoldingPosition `json:"holdings"`
	TotalCost          float64           `json:"totalCost"`
	TotalValue         *float64          `json:"totalValue"`
	TotalProfit        *float64          `json:"totalProfit"`
	TotalProfitPercent *float64          `json:"totalProfitPercent"`
}
