package handlers

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/testutil"
)

var handlerMonday = model.Date(2024, time.October, 21)

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	setupHandler := func(t *testing.T, funds *testutil.MockFundData) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db, testutil.TestDeps{Funds: funds})
		return NewTransactionHandler(ts), db
	}

	body := func(accountID string, overrides map[string]any) map[string]any {
		b := map[string]any{
			"accountId":     accountID,
			"fundCode":      "161725",
			"tradeType":     "buy",
			"amount":        1000,
			"feePercent":    0,
			"tradeDate":     "2024-10-21",
			"isAfterCutoff": false,
		}
		for k, v := range overrides {
			b[k] = v
		}
		return b
	}

	t.Run("confirms a buy placed before the cutoff on a trading day", func(t *testing.T) {
		handler, db := setupHandler(t, testutil.NewMockFundData().WithNav("161725", handlerMonday, 1.25))
		account := testutil.NewAccount().Build(t, db)

		w := httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body(account.ID, nil), nil))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != model.TradeStatusConfirmed {
			t.Errorf("Expected confirmed, got %s", response.Status)
		}
		if math.Abs(response.Shares-800) > 1e-9 {
			t.Errorf("Expected 800 shares, got %v", response.Shares)
		}
	})

	t.Run("stores an after-cutoff buy as pending", func(t *testing.T) {
		handler, db := setupHandler(t, nil)
		account := testutil.NewAccount().Build(t, db)

		w := httptest.NewRecorder()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			body(account.ID, map[string]any{"isAfterCutoff": true}), nil)
		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != model.TradeStatusPending {
			t.Errorf("Expected pending, got %s", response.Status)
		}
		if got := response.ConfirmedNavDate.In(model.MarketLocation).Format("2006-01-02"); got != "2024-10-22" {
			t.Errorf("Expected confirmation on 2024-10-22, got %s", got)
		}
	})

	t.Run("derives the cutoff from tradeTime", func(t *testing.T) {
		handler, db := setupHandler(t, nil)
		account := testutil.NewAccount().Build(t, db)

		w := httptest.NewRecorder()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			body(account.ID, map[string]any{"tradeDate": "", "tradeTime": "2024-10-21T15:00:00+08:00"}), nil)
		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != model.TradeStatusPending {
			t.Errorf("Expected 15:00 to be after the cutoff, got status %s", response.Status)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		handler, _ := setupHandler(t, nil)

		w := httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", "{not json", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 when validation fails", func(t *testing.T) {
		handler, db := setupHandler(t, nil)
		account := testutil.NewAccount().Build(t, db)

		cases := map[string]map[string]any{
			"zero amount":    {"amount": 0},
			"unknown type":   {"tradeType": "dividend"},
			"bad fund code":  {"fundCode": "ABC"},
			"bad date":       {"tradeDate": "21-10-2024"},
			"fee above 100":  {"feePercent": 150},
			"bad trade time": {"tradeTime": "yesterday"},
		}
		for name, override := range cases {
			w := httptest.NewRecorder()
			handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body(account.ID, override), nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d: %s", name, w.Code, w.Body.String())
			}
		}
	})

	t.Run("returns 404 for an unknown account", func(t *testing.T) {
		handler, _ := setupHandler(t, nil)

		w := httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body(testutil.MakeID(), nil), nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for an oversized sell", func(t *testing.T) {
		handler, db := setupHandler(t, testutil.NewMockFundData().WithNav("161725", handlerMonday, 1.25))
		account := testutil.NewAccount().Build(t, db)
		testutil.NewHolding(account.ID, "161725").WithBalances(100, 80).Build(t, db)

		w := httptest.NewRecorder()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			body(account.ID, map[string]any{"tradeType": "sell", "amount": 500}), nil)
		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when the confirmed nav is unavailable", func(t *testing.T) {
		handler, db := setupHandler(t, nil)
		account := testutil.NewAccount().Build(t, db)

		w := httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body(account.ID, nil), nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "fund_transaction", 0)
	})
}

func TestTransactionHandler_TransactionsPerAccount(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db, testutil.TestDeps{})
		return NewTransactionHandler(ts), db
	}

	t.Run("returns empty array when the account has no transactions", func(t *testing.T) {
		handler, db := setupHandler(t)
		account := testutil.NewAccount().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID+"/transaction", map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.TransactionsPerAccount(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("filters by fund code", func(t *testing.T) {
		handler, db := setupHandler(t)
		account := testutil.NewAccount().Build(t, db)
		keep := testutil.NewTransaction(account.ID, "161725").Build(t, db)
		testutil.NewTransaction(account.ID, "000001").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID+"/transaction?fundCode=161725", map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.TransactionsPerAccount(w, req)

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 || response[0].ID != keep.ID {
			t.Errorf("Expected only transaction %s, got %+v", keep.ID, response)
		}
	})

	t.Run("returns 400 for a malformed fund code", func(t *testing.T) {
		handler, db := setupHandler(t)
		account := testutil.NewAccount().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID+"/transaction?fundCode=x", map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.TransactionsPerAccount(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for an unknown account", func(t *testing.T) {
		handler, _ := setupHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+id+"/transaction", map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.TransactionsPerAccount(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db, testutil.TestDeps{}))

	t.Run("returns the transaction", func(t *testing.T) {
		account := testutil.NewAccount().Build(t, db)
		tx := testutil.NewTransaction(account.ID, "161725").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != tx.ID {
			t.Errorf("Expected ID %s, got %s", tx.ID, response.ID)
		}
	})

	t.Run("returns 404 when transaction not found", func(t *testing.T) {
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
