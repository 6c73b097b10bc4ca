// Package metrics exposes prometheus collectors for trades, settlement and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fund_holdings"

// Metrics holds the application's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	tradesCreated      *prometheus.CounterVec
	settlementOutcomes *prometheus.CounterVec
	settlementDuration prometheus.Histogram
	marketRequests     *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New registers the collectors on reg. Use prometheus.NewRegistry() in tests so
// repeated construction does not collide on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		tradesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_created_total",
				Help:      "Trades recorded, by direction and initial status",
			},
			[]string{"trade_type", "status"},
		),

		settlementOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlement_rows_total",
				Help:      "Pending transactions processed by the settlement sweep, by outcome",
			},
			[]string{"outcome"},
		),

		settlementDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_sweep_duration_seconds",
				Help:      "Duration of settlement sweeps",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
		),

		marketRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "market_requests_total",
				Help:      "Requests to the market data provider, by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status"},
		),
	}
}

// TradeCreated counts a recorded trade.
func (m *Metrics) TradeCreated(tradeType, status string) {
	if m == nil {
		return
	}
	m.tradesCreated.WithLabelValues(tradeType, status).Inc()
}

// SettlementOutcome counts one processed pending row. outcome is "confirmed", "skipped"
// or the failure class.
func (m *Metrics) SettlementOutcome(outcome string) {
	if m == nil {
		return
	}
	m.settlementOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveSettlement records the duration of a sweep that started at start.
func (m *Metrics) ObserveSettlement(start time.Time) {
	if m == nil {
		return
	}
	m.settlementDuration.Observe(time.Since(start).Seconds())
}

// MarketRequest counts a provider call.
func (m *Metrics) MarketRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.marketRequests.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
