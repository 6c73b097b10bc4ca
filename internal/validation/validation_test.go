package validation

import (
	"errors"
	"testing"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
)

const testAccountID = "5f0c3d0e-7f0b-4a44-9d8e-2f4b6c1a9e01"

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	return verr.Fields
}

func TestValidateFundCode(t *testing.T) {
	for _, code := range []string{"000001", "161725"} {
		if err := ValidateFundCode(code); err != nil {
			t.Errorf("ValidateFundCode(%q) = %v, want nil", code, err)
		}
	}
	for _, code := range []string{"", "12345", "1234567", "00000a", " 00001"} {
		if err := ValidateFundCode(code); !errors.Is(err, ErrInvalidFundCode) {
			t.Errorf("ValidateFundCode(%q) = %v, want ErrInvalidFundCode", code, err)
		}
	}
}

func TestParseTradeTime(t *testing.T) {
	got, err := ParseTradeTime("2024-10-21T14:59:00+08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 14 || got.Minute() != 59 {
		t.Errorf("got %v, want 14:59 local", got)
	}

	if _, err := ParseTradeTime("2024-10-21 14:59"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	valid := func() request.CreateTransactionRequest {
		return request.CreateTransactionRequest{
			AccountID: testAccountID,
			FundCode:  "000001",
			TradeType: "buy",
			Amount:    1000,
			TradeDate: "2024-10-21",
		}
	}

	t.Run("valid request", func(t *testing.T) {
		if err := ValidateCreateTransaction(valid()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid account id is rejected before fields", func(t *testing.T) {
		req := valid()
		req.AccountID = "nope"
		req.Amount = -1
		if err := ValidateCreateTransaction(req); !errors.Is(err, ErrInvalidUUID) {
			t.Errorf("expected ErrInvalidUUID, got %v", err)
		}
	})

	t.Run("collects every field error", func(t *testing.T) {
		fee := 100.0
		req := valid()
		req.FundCode = "abc"
		req.TradeType = "hold"
		req.Amount = 0
		req.FeePercent = &fee
		req.TradeDate = ""

		fields := fieldsOf(t, ValidateCreateTransaction(req))
		for _, f := range []string{"fundCode", "tradeType", "amount", "feePercent", "tradeDate"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("expected error for %s, got %v", f, fields)
			}
		}
	})

	t.Run("trade time replaces trade date", func(t *testing.T) {
		req := valid()
		req.TradeDate = ""
		req.TradeTime = "2024-10-21T15:00:00+08:00"
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		req.TradeTime = "yesterday"
		fields := fieldsOf(t, ValidateCreateTransaction(req))
		if _, ok := fields["tradeTime"]; !ok {
			t.Errorf("expected tradeTime error, got %v", fields)
		}
	})
}

func TestValidateCreateConversion(t *testing.T) {
	req := request.CreateConversionRequest{
		AccountID:    testAccountID,
		FromFundCode: "000001",
		FromAmount:   500,
		ToFundCode:   "000001",
		ToAmount:     495,
		TradeDate:    "2024-10-21",
	}

	fields := fieldsOf(t, ValidateCreateConversion(req))
	if len(fields) != 1 || fields["toFundCode"] == "" {
		t.Errorf("expected only a toFundCode error, got %v", fields)
	}

	req.ToFundCode = "000002"
	if err := ValidateCreateConversion(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateUpdateHolding(t *testing.T) {
	amount := 100.0
	negative := -1.0

	fields := fieldsOf(t, ValidateUpdateHolding(request.UpdateHoldingRequest{TotalAmount: &amount}))
	if fields["totalShares"] != "totalShares is required" {
		t.Errorf("expected totalShares required, got %v", fields)
	}

	fields = fieldsOf(t, ValidateUpdateHolding(request.UpdateHoldingRequest{TotalAmount: &amount, TotalShares: &negative}))
	if fields["totalShares"] != "totalShares cannot be negative" {
		t.Errorf("expected totalShares negative error, got %v", fields)
	}

	if err := ValidateUpdateHolding(request.UpdateHoldingRequest{TotalAmount: &amount, TotalShares: &amount}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "second", "a": "first"}}
	if got, want := err.Error(), "a: first; b: second"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
