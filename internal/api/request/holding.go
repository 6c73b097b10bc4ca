package request

// CreateHoldingRequest seeds a position bought outside the system.
// totalAmount is the cost basis and totalAmount + profitAmount the current value.
type CreateHoldingRequest struct {
	AccountID    string  `json:"accountId"`
	FundCode     string  `json:"fundCode"`
	TotalAmount  float64 `json:"totalAmount"`
	ProfitAmount float64 `json:"profitAmount"`
	Remark       string  `json:"remark"`
}

// UpdateHoldingRequest overwrites both balances of a holding.
type UpdateHoldingRequest struct {
	TotalAmount *float64 `json:"totalAmount"`
	TotalShares *float64 `json:"totalShares"`
}
