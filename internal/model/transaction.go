package model

import "time"

// TradeType is the direction of a fund trade.
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// Valid reports whether t is a known trade direction.
func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// TradeStatus is the settlement state of a transaction.
type TradeStatus string

const (
	// TradeStatusPending transactions have a future confirmation date. Their NAV and
	// shares are zero and they have not touched the holding yet.
	TradeStatusPending TradeStatus = "pending"
	// TradeStatusConfirmed transactions carry a positive NAV and shares and have
	// been applied to the holding exactly once.
	TradeStatusConfirmed TradeStatus = "confirmed"
	// TradeStatusCanceled exists as a stored value only. Nothing transitions into it.
	TradeStatusCanceled TradeStatus = "canceled"
)

// Transaction is one recorded fund trade.
type Transaction struct {
	ID               string      `json:"id"`
	AccountID        string      `json:"accountId"`
	HoldingID        *string     `json:"holdingId"`
	ConversionID     *string     `json:"conversionId"`
	FundCode         string      `json:"fundCode"`
	TradeType        TradeType   `json:"tradeType"`
	Status           TradeStatus `json:"status"`
	Amount           float64     `json:"amount"`
	FeePercent       float64     `json:"feePercent"`
	FeeAmount        float64     `json:"feeAmount"`
	ConfirmedNav     float64     `json:"confirmedNav"`
	ConfirmedNavDate time.Time   `json:"confirmedNavDate"`
	Shares           float64     `json:"shares"`
	HoldingAmount    *float64    `json:"holdingAmount"`
	ProfitAmount     *float64    `json:"profitAmount"`
	TradeTime        time.Time   `json:"tradeTime"`
	Remark           string      `json:"remark,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}
