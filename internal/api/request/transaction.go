package request

// CreateTransactionRequest accepts either tradeDate with isAfterCutoff, or a full
// RFC3339 tradeTime. tradeTime wins when both are present.
type CreateTransactionRequest struct {
	AccountID     string   `json:"accountId"`
	FundCode      string   `json:"fundCode"`
	TradeType     string   `json:"tradeType"`
	Amount        float64  `json:"amount"`
	FeePercent    *float64 `json:"feePercent,omitempty"`
	TradeDate     string   `json:"tradeDate"`
	IsAfterCutoff bool     `json:"isAfterCutoff"`
	TradeTime     string   `json:"tradeTime,omitempty"`
	Remark        string   `json:"remark"`
}
