package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// MockFundData is an in-memory NavResolver, LatestNavProvider and EstimateProvider.
//
// Example usage:
//
//	funds := testutil.NewMockFundData().
//	    WithNav("161725", model.Date(2024, 10, 21), 1.0).
//	    WithEstimate("161725", 1.1)
type MockFundData struct {
	mu        sync.Mutex
	navs      map[string]float64
	latest    map[string]model.FundNav
	estimates map[string]model.FundEstimate
	err       error
	navCalls  int
}

// NewMockFundData creates an empty mock. Every lookup fails until data is added.
func NewMockFundData() *MockFundData {
	return &MockFundData{
		navs:      make(map[string]float64),
		latest:    make(map[string]model.FundNav),
		estimates: make(map[string]model.FundEstimate),
	}
}

func navKey(fundCode string, date time.Time) string {
	return fundCode + "|" + model.DateOf(date).Format("2006-01-02")
}

// WithNav publishes nav for fundCode on date. It also becomes the latest NAV when newer.
func (m *MockFundData) WithNav(fundCode string, date time.Time, nav float64) *MockFundData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navs[navKey(fundCode, date)] = nav
	if cur, ok := m.latest[fundCode]; !ok || !model.DateOf(date).Before(cur.Date) {
		m.latest[fundCode] = model.FundNav{ID: MakeID(), FundCode: fundCode, Date: model.DateOf(date), Nav: nav}
	}
	return m
}

// WithEstimate sets the intraday estimate of fundCode.
func (m *MockFundData) WithEstimate(fundCode string, estimatedNav float64) *MockFundData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimates[fundCode] = model.FundEstimate{
		FundCode:     fundCode,
		EstimatedNav: &estimatedNav,
		EstimateTime: DefaultNow,
	}
	return m
}

// WithError makes every lookup fail with err.
func (m *MockFundData) WithError(err error) *MockFundData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// NavCalls reports how many times ResolveNavByDate was called.
func (m *MockFundData) NavCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.navCalls
}

// ResolveNavByDate implements service.NavResolver.
func (m *MockFundData) ResolveNavByDate(_ context.Context, fundCode string, date time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navCalls++
	if m.err != nil {
		return 0, m.err
	}
	nav, ok := m.navs[navKey(fundCode, date)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrNavNotFound, navKey(fundCode, date))
	}
	return nav, nil
}

// LatestNav implements service.LatestNavProvider.
func (m *MockFundData) LatestNav(_ context.Context, fundCode string) (model.FundNav, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.FundNav{}, m.err
	}
	nav, ok := m.latest[fundCode]
	if !ok {
		return model.FundNav{}, apperrors.ErrNavNotFound
	}
	return nav, nil
}

// RealtimeEstimate implements service.EstimateProvider.
func (m *MockFundData) RealtimeEstimate(_ context.Context, fundCode string) (model.FundEstimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.FundEstimate{}, m.err
	}
	e, ok := m.estimates[fundCode]
	if !ok {
		return model.FundEstimate{}, apperrors.ErrFundNotFound
	}
	return e, nil
}

// MockMarketClient implements market.Client for testing without network calls.
type MockMarketClient struct {
	mu        sync.Mutex
	navs      map[string]float64
	estimates map[string]model.FundEstimate
	err       error
	calls     int
}

// NewMockMarketClient creates a client that knows no funds.
func NewMockMarketClient() *MockMarketClient {
	return &MockMarketClient{
		navs:      make(map[string]float64),
		estimates: make(map[string]model.FundEstimate),
	}
}

// WithNav publishes nav for fundCode on date.
func (m *MockMarketClient) WithNav(fundCode string, date time.Time, nav float64) *MockMarketClient {
	m.navs[navKey(fundCode, date)] = nav
	return m
}

// WithEstimate sets the estimate payload of fundCode.
func (m *MockMarketClient) WithEstimate(estimate model.FundEstimate) *MockMarketClient {
	m.estimates[estimate.FundCode] = estimate
	return m
}

// WithError makes every call fail with err.
func (m *MockMarketClient) WithError(err error) *MockMarketClient {
	m.err = err
	return m
}

// Calls reports the number of requests made.
func (m *MockMarketClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// NavOnDate implements market.Client.
func (m *MockMarketClient) NavOnDate(_ context.Context, fundCode string, date time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	nav, ok := m.navs[navKey(fundCode, date)]
	if !ok {
		return 0, apperrors.ErrNavNotFound
	}
	return nav, nil
}

// Estimate implements market.Client.
func (m *MockMarketClient) Estimate(_ context.Context, fundCode string) (model.FundEstimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return model.FundEstimate{}, m.err
	}
	e, ok := m.estimates[fundCode]
	if !ok {
		return model.FundEstimate{}, apperrors.ErrFundNotFound
	}
	return e, nil
}

// Close implements market.Client.
func (m *MockMarketClient) Close() error { return nil }
