package validation

import (
	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
)

func ValidateCreateConversion(req request.CreateConversionRequest) error {
	if err := ValidateUUID(req.AccountID); err != nil {
		return err
	}

	errors := make(map[string]string)

	checkFundCode(errors, "fromFundCode", req.FromFundCode)
	checkFundCode(errors, "toFundCode", req.ToFundCode)
	if req.FromFundCode != "" && req.FromFundCode == req.ToFundCode {
		errors["toFundCode"] = "toFundCode must differ from fromFundCode"
	}

	if req.FromAmount <= 0 {
		errors["fromAmount"] = "fromAmount must be positive"
	}
	if req.ToAmount <= 0 {
		errors["toAmount"] = "toAmount must be positive"
	}

	checkFeePercent(errors, "fromFeePercent", req.FromFeePercent)
	checkFeePercent(errors, "toFeePercent", req.ToFeePercent)
	checkDate(errors, "tradeDate", req.TradeDate)

	return result(errors)
}
