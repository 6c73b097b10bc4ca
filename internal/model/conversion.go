package model

import "time"

// Conversion groups the sell leg of one fund and the buy leg of another,
// executed together under the same trade time.
type Conversion struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`
	FromFundCode string    `json:"fromFundCode"`
	ToFundCode   string    `json:"toFundCode"`
	TradeTime    time.Time `json:"tradeTime"`
	Remark       string    `json:"remark,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ConversionResponse is a conversion with both of its legs.
type ConversionResponse struct {
	Conversion
	SellTransaction Transaction `json:"sellTransaction"`
	BuyTransaction  Transaction `json:"buyTransaction"`
}
