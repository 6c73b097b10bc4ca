package request

// ImportNavRequest stores a published NAV for the fund in the URL.
type ImportNavRequest struct {
	Date string  `json:"date"`
	Nav  float64 `json:"nav"`
}
