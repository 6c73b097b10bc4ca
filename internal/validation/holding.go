package validation

import (
	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
)

// ValidateCreateHolding checks a holding seed. The sum of totalAmount and
// profitAmount is checked by the service because it needs both values.
func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	if err := ValidateUUID(req.AccountID); err != nil {
		return err
	}

	errors := make(map[string]string)
	checkFundCode(errors, "fundCode", req.FundCode)
	if req.TotalAmount < 0 {
		errors["totalAmount"] = "totalAmount cannot be negative"
	}
	return result(errors)
}

// ValidateUpdateHolding requires both balances; a correction replaces the pair.
func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.TotalAmount == nil {
		errors["totalAmount"] = "totalAmount is required"
	} else if *req.TotalAmount < 0 {
		errors["totalAmount"] = "totalAmount cannot be negative"
	}
	if req.TotalShares == nil {
		errors["totalShares"] = "totalShares is required"
	} else if *req.TotalShares < 0 {
		errors["totalShares"] = "totalShares cannot be negative"
	}

	return result(errors)
}
