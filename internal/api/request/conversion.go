package request

type CreateConversionRequest struct {
	AccountID      string   `json:"accountId"`
	FromFundCode   string   `json:"fromFundCode"`
	FromAmount     float64  `json:"fromAmount"`
	FromFeePercent *float64 `json:"fromFeePercent,omitempty"`
	ToFundCode     string   `json:"toFundCode"`
	ToAmount       float64  `json:"toAmount"`
	ToFeePercent   *float64 `json:"toFeePercent,omitempty"`
	TradeDate      string   `json:"tradeDate"`
	IsAfterCutoff  bool     `json:"isAfterCutoff"`
	Remark         string   `json:"remark"`
}
