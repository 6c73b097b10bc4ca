package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewHTTPClient(config.MarketConfig{
		BaseURL:         server.URL,
		NavPath:         "$.data.nav",
		EstimatePath:    "$.data.estimatedNav",
		EstimateNavPath: "$.data.nav",
		Timeout:         5 * time.Second,
		APIToken:        "token-1",
	}, nil)
}

func TestHTTPClient_NavOnDate(t *testing.T) {
	t.Run("extracts nav and sends credentials", func(t *testing.T) {
		var gotPath, gotQuery, gotAuth string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("date")
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"data": {"nav": 1.25}}`)) //nolint:errcheck // test server
		})

		nav, err := client.NavOnDate(context.Background(), "161725", model.Date(2025, time.June, 9))
		if err != nil {
			t.Fatalf("NavOnDate() returned unexpected error: %v", err)
		}

		if nav != 1.25 {
			t.Errorf("Expected nav 1.25, got %v", nav)
		}
		if gotPath != "/funds/161725/nav" || gotQuery != "2025-06-09" {
			t.Errorf("Unexpected request %s?date=%s", gotPath, gotQuery)
		}
		if gotAuth != "Bearer token-1" {
			t.Errorf("Unexpected Authorization header %q", gotAuth)
		}
	})

	t.Run("accepts numeric strings", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data": {"nav": "0.9876"}}`)) //nolint:errcheck // test server
		})

		nav, err := client.NavOnDate(context.Background(), "000001", model.Date(2025, time.June, 9))
		if err != nil {
			t.Fatalf("NavOnDate() returned unexpected error: %v", err)
		}
		if nav != 0.9876 {
			t.Errorf("Expected nav 0.9876, got %v", nav)
		}
	})

	t.Run("null nav is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data": {"nav": null}}`)) //nolint:errcheck // test server
		})

		_, err := client.NavOnDate(context.Background(), "000001", model.Date(2025, time.June, 9))
		if !errors.Is(err, apperrors.ErrNavNotFound) {
			t.Errorf("Expected ErrNavNotFound, got %v", err)
		}
	})

	t.Run("404 maps to fund not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.NavOnDate(context.Background(), "999999", model.Date(2025, time.June, 9))
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("server errors are returned", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		if _, err := client.NavOnDate(context.Background(), "000001", model.Date(2025, time.June, 9)); err == nil {
			t.Error("Expected error for 502 response")
		}
	})
}

func TestHTTPClient_Estimate(t *testing.T) {
	t.Run("reads estimate and last nav", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data": {"nav": 1.2, "estimatedNav": 1.23}}`)) //nolint:errcheck // test server
		})

		est, err := client.Estimate(context.Background(), "161725")
		if err != nil {
			t.Fatalf("Estimate() returned unexpected error: %v", err)
		}
		if est.EstimatedNav == nil || *est.EstimatedNav != 1.23 {
			t.Errorf("Expected estimated nav 1.23, got %v", est.EstimatedNav)
		}
		if est.Nav == nil || *est.Nav != 1.2 {
			t.Errorf("Expected nav 1.2, got %v", est.Nav)
		}
		if v := est.ValuationNav(); v == nil || *v != 1.23 {
			t.Errorf("Expected valuation nav 1.23, got %v", v)
		}
	})

	t.Run("missing estimate falls back to nav", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data": {"nav": 1.2}}`)) //nolint:errcheck // test server
		})

		est, err := client.Estimate(context.Background(), "161725")
		if err != nil {
			t.Fatalf("Estimate() returned unexpected error: %v", err)
		}
		if est.EstimatedNav != nil {
			t.Errorf("Expected nil estimated nav, got %v", *est.EstimatedNav)
		}
		if v := est.ValuationNav(); v == nil || *v != 1.2 {
			t.Errorf("Expected valuation nav 1.2, got %v", v)
		}
	})
}

func TestExtractFloat(t *testing.T) {
	doc := map[string]any{
		"series": []any{1.5, 2.5},
		"bad":    true,
	}

	if v, ok, err := extractFloat("$.series[0]", doc); err != nil || !ok || v != 1.5 {
		t.Errorf("Expected 1.5, got %v %v %v", v, ok, err)
	}
	if _, ok, err := extractFloat("$.missing", doc); err != nil || ok {
		t.Errorf("Expected miss without error, got %v %v", ok, err)
	}
	if _, _, err := extractFloat("$.bad", doc); err == nil {
		t.Error("Expected type error for boolean value")
	}
}
