package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/calendar"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

// DefaultNow is the fixed clock used by the NewTest*Service helpers:
// Monday 2024-10-21 10:00 market time.
var DefaultNow = time.Date(2024, time.October, 21, 10, 0, 0, 0, model.MarketLocation)

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) service.Clock {
	return func() time.Time { return now }
}

// StaticSource is a calendar.Source over a fixed list of dates.
type StaticSource []time.Time

// LoadTradeDates returns the dates.
func (s StaticSource) LoadTradeDates(_ context.Context) ([]time.Time, error) {
	return s, nil
}

// NewCalendar returns a calendar loaded with dates. Dates outside their range use the weekday rule.
func NewCalendar(dates ...time.Time) *calendar.Calendar {
	return calendar.New(StaticSource(dates), zap.NewNop(), time.Second)
}

// TestDeps are the collaborators injected into services under test.
// Zero fields get defaults: weekday calendar, empty MockFundData, DefaultNow.
type TestDeps struct {
	Calendar service.TradingCalendar
	Funds    *MockFundData
	Now      time.Time
}

func (d TestDeps) withDefaults() TestDeps {
	if d.Calendar == nil {
		d.Calendar = calendar.Weekdays{}
	}
	if d.Funds == nil {
		d.Funds = NewMockFundData()
	}
	if d.Now.IsZero() {
		d.Now = DefaultNow
	}
	return d
}

func NewTestTransactionService(t *testing.T, db *sql.DB, deps TestDeps) *service.TransactionService {
	t.Helper()

	deps = deps.withDefaults()
	return service.NewTransactionService(
		db,
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		deps.Calendar,
		deps.Funds,
		FixedClock(deps.Now),
		nil,
		zap.NewNop(),
	)
}

func NewTestSettlementService(t *testing.T, db *sql.DB, deps TestDeps) *service.SettlementService {
	t.Helper()

	deps = deps.withDefaults()
	return service.NewSettlementService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		deps.Funds,
		FixedClock(deps.Now),
		nil,
		zap.NewNop(),
	)
}

func NewTestConversionService(t *testing.T, db *sql.DB, deps TestDeps) *service.ConversionService {
	t.Helper()

	return service.NewConversionService(
		db,
		repository.NewConversionRepository(db),
		NewTestTransactionService(t, db, deps),
		zap.NewNop(),
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB, deps TestDeps) *service.AccountService {
	t.Helper()

	deps = deps.withDefaults()
	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		deps.Funds,
		FixedClock(deps.Now),
		zap.NewNop(),
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB, deps TestDeps) *service.HoldingService {
	t.Helper()

	deps = deps.withDefaults()
	return service.NewHoldingService(
		db,
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		deps.Funds,
		deps.Funds,
		FixedClock(deps.Now),
		nil,
		zap.NewNop(),
	)
}

// NewTestFundService builds a FundService over the local NAV table and a mock market.
func NewTestFundService(t *testing.T, db *sql.DB, client *MockMarketClient) *service.FundService {
	t.Helper()

	if client == nil {
		client = NewMockMarketClient()
	}
	return service.NewFundService(
		repository.NewFundNavRepository(db),
		client,
		nil,
		zap.NewNop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, nil)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeAccountName generates a unique account name for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("Broker")
//	// Returns: "Broker ABC123"
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Float returns a pointer to f, for optional request fields.
func Float(f float64) *float64 {
	return &f
}
