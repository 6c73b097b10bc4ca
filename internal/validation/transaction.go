package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - accountId: Must be a valid UUID
//   - fundCode: Six digits
//   - tradeType: buy or sell
//   - amount: Must be positive
//   - tradeDate (YYYY-MM-DD) unless tradeTime (RFC3339) is given
//
// Optional fields:
//   - feePercent: 0 <= fee < 100
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	if err := ValidateUUID(req.AccountID); err != nil {
		return err
	}

	errors := make(map[string]string)

	checkFundCode(errors, "fundCode", req.FundCode)

	if strings.TrimSpace(req.TradeType) == "" {
		errors["tradeType"] = "tradeType is required"
	} else if !model.TradeType(req.TradeType).Valid() {
		errors["tradeType"] = fmt.Sprintf("invalid type: %s", req.TradeType)
	}

	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	checkFeePercent(errors, "feePercent", req.FeePercent)

	if req.TradeTime != "" {
		if _, err := ParseTradeTime(req.TradeTime); err != nil {
			errors["tradeTime"] = err.Error()
		}
	} else {
		checkDate(errors, "tradeDate", req.TradeDate)
	}

	return result(errors)
}
