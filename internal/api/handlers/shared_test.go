package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

// TestStatusFor tests the mapping from service errors to HTTP status codes.
// This is an internal test because statusFor is unexported.
func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrAccountNotFound, http.StatusNotFound},
		{fmt.Errorf("sell leg: %w", apperrors.ErrHoldingNotFound), http.StatusNotFound},
		{apperrors.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", apperrors.ErrInvalidNav, apperrors.ErrFundNotFound), http.StatusBadRequest},
		{apperrors.ErrInsufficientHolding, http.StatusBadRequest},
		{apperrors.ErrHoldingExists, http.StatusBadRequest},
		{&validation.Error{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest},
		{apperrors.ErrConcurrentHoldingUpdate, http.StatusConflict},
		{apperrors.ErrNegativeBalance, http.StatusInternalServerError},
		{apperrors.ErrDataIntegrity, http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		got, err := parseJSON[payload](req)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Name != "x" {
			t.Errorf("Expected name x, got %q", got.Name)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for an unknown field")
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for an empty body")
		}
	})
}
