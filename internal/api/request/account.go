package request

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	Name                 string  `json:"name"`
	Remark               string  `json:"remark"`
	DefaultBuyFeePercent float64 `json:"defaultBuyFeePercent"`
}

type UpdateAccountRequest struct {
	Name                 *string  `json:"name,omitempty"`
	Remark               *string  `json:"remark,omitempty"`
	DefaultBuyFeePercent *float64 `json:"defaultBuyFeePercent,omitempty"`
}
