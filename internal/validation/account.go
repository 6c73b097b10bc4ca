package validation

import (
	"strings"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
)

func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(req.Remark) > 500 {
		errors["remark"] = "remark must be 500 characters or less"
	}

	fee := req.DefaultBuyFeePercent
	checkFeePercent(errors, "defaultBuyFeePercent", &fee)

	return result(errors)
}

func ValidateUpdateAccount(req request.UpdateAccountRequest) error {
	errors := make(map[string]string)

	// Only validate provided fields
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}

	if req.Remark != nil && len(*req.Remark) > 500 {
		errors["remark"] = "remark must be 500 characters or less"
	}

	checkFeePercent(errors, "defaultBuyFeePercent", req.DefaultBuyFeePercent)

	return result(errors)
}
