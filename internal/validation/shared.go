package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects per-field validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func result(errors map[string]string) error {
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func checkFeePercent(errors map[string]string, field string, fee *float64) {
	if fee == nil {
		return
	}
	if *fee < 0 || *fee >= 100 {
		errors[field] = "fee percent must be between 0 and 100"
	}
}

func checkFundCode(errors map[string]string, field, code string) {
	if strings.TrimSpace(code) == "" {
		errors[field] = "fund code is required"
	} else if err := ValidateFundCode(code); err != nil {
		errors[field] = err.Error()
	}
}

func checkDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = "date is required"
	} else if _, err := ParseDate(value); err != nil {
		errors[field] = err.Error()
	}
}
