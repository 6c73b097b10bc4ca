package validation

import (
	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
)

func ValidateImportNav(req request.ImportNavRequest) error {
	errors := make(map[string]string)

	checkDate(errors, "date", req.Date)
	if req.Nav <= 0 {
		errors["nav"] = "nav must be positive"
	}

	return result(errors)
}
