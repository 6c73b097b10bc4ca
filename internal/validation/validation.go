package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// Common validation errors
var (
	ErrInvalidUUID     = fmt.Errorf("invalid UUID format")
	ErrInvalidFundCode = fmt.Errorf("invalid fund code")
	ErrInvalidDate     = fmt.Errorf("invalid date")
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var fundCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateFundCode checks that code is a six digit fund code.
func ValidateFundCode(code string) error {
	if !fundCodePattern.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidFundCode, code)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string as a market-timezone calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, model.MarketLocation)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseTradeTime parses an RFC3339 timestamp. The offset is kept; callers
// convert to market time where needed.
func ParseTradeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
