package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	t.Run("counts trades by type and status", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.TradeCreated("buy", "pending")
		m.TradeCreated("buy", "pending")
		m.TradeCreated("sell", "confirmed")

		if got := testutil.ToFloat64(m.tradesCreated.WithLabelValues("buy", "pending")); got != 2 {
			t.Errorf("Expected 2 pending buys, got %v", got)
		}
		if got := testutil.ToFloat64(m.tradesCreated.WithLabelValues("sell", "confirmed")); got != 1 {
			t.Errorf("Expected 1 confirmed sell, got %v", got)
		}
	})

	t.Run("nil metrics is a no-op", func(t *testing.T) {
		var m *Metrics
		m.TradeCreated("buy", "pending")
		m.SettlementOutcome("confirmed")
		m.ObserveSettlement(time.Now())
		m.MarketRequest("nav", "ok")
		m.ObserveRequest("/", "GET", "200", time.Millisecond)
	})

	t.Run("handler exposes registered series", func(t *testing.T) {
		m := New(prometheus.NewRegistry())
		m.SettlementOutcome("confirmed")

		w := httptest.NewRecorder()
		m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `fund_holdings_settlement_rows_total{outcome="confirmed"} 1`) {
			t.Errorf("Expected settlement counter in output, got:\n%s", w.Body.String())
		}
	})
}
