package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithName("Broker A").
//	    WithDefaultBuyFee(0.15).
//	    Build(t, db)
type AccountBuilder struct {
	ID                   string
	Name                 string
	Remark               string
	DefaultBuyFeePercent float64
	CreatedAt            time.Time
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:        MakeID(),
		Name:      MakeAccountName("Test Account"),
		CreatedAt: time.Now().In(model.MarketLocation),
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithDefaultBuyFee sets the fee percent applied to buys without an explicit fee.
func (b *AccountBuilder) WithDefaultBuyFee(percent float64) *AccountBuilder {
	b.DefaultBuyFeePercent = percent
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	query := `
		INSERT INTO account (id, name, remark, default_buy_fee_percent, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Remark, b.DefaultBuyFeePercent, b.CreatedAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:                   b.ID,
		Name:                 b.Name,
		Remark:               b.Remark,
		DefaultBuyFeePercent: b.DefaultBuyFeePercent,
		CreatedAt:            b.CreatedAt,
	}
}

// CreateAccount creates an account with the given name and default values.
func CreateAccount(t *testing.T, db *sql.DB, name string) model.Account {
	t.Helper()
	return NewAccount().WithName(name).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(account.ID, "161725").
//	    WithBalances(1000, 1000).
//	    Build(t, db)
type HoldingBuilder struct {
	ID          string
	AccountID   string
	FundCode    string
	TotalAmount float64
	TotalShares float64
}

// NewHolding creates an empty HoldingBuilder for a fund in an account.
func NewHolding(accountID, fundCode string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:        MakeID(),
		AccountID: accountID,
		FundCode:  fundCode,
	}
}

// WithBalances sets the cost basis and share count.
func (b *HoldingBuilder) WithBalances(amount, shares float64) *HoldingBuilder {
	b.TotalAmount = amount
	b.TotalShares = shares
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	updatedAt := time.Now().In(model.MarketLocation)
	query := `
		INSERT INTO holding (id, account_id, fund_code, total_amount, total_shares, version, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`

	_, err := db.Exec(query, b.ID, b.AccountID, b.FundCode, b.TotalAmount, b.TotalShares, updatedAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:          b.ID,
		AccountID:   b.AccountID,
		FundCode:    b.FundCode,
		TotalAmount: b.TotalAmount,
		TotalShares: b.TotalShares,
		UpdatedAt:   updatedAt,
	}
}

// TransactionBuilder provides a fluent interface for creating stored transactions,
// typically pending rows for settlement tests.
//
// Example usage:
//
//	tx := testutil.NewTransaction(account.ID, "161725").
//	    Sell(500).
//	    WithNavDate(model.Date(2024, 10, 21)).
//	    Build(t, db)
type TransactionBuilder struct {
	ID               string
	AccountID        string
	HoldingID        *string
	ConversionID     *string
	FundCode         string
	TradeType        model.TradeType
	Status           model.TradeStatus
	Amount           float64
	FeePercent       float64
	ConfirmedNav     float64
	ConfirmedNavDate time.Time
	Shares           float64
	TradeTime        time.Time
}

// NewTransaction creates a pending buy of 1000 confirming on 2024-10-21.
func NewTransaction(accountID, fundCode string) *TransactionBuilder {
	navDate := model.Date(2024, time.October, 21)
	return &TransactionBuilder{
		ID:               MakeID(),
		AccountID:        accountID,
		FundCode:         fundCode,
		TradeType:        model.TradeTypeBuy,
		Status:           model.TradeStatusPending,
		Amount:           1000,
		ConfirmedNavDate: navDate,
		TradeTime:        navDate.Add(14*time.Hour + 59*time.Minute),
	}
}

// Buy makes the transaction a buy of amount.
func (b *TransactionBuilder) Buy(amount float64) *TransactionBuilder {
	b.TradeType = model.TradeTypeBuy
	b.Amount = amount
	return b
}

// Sell makes the transaction a sell of amount.
func (b *TransactionBuilder) Sell(amount float64) *TransactionBuilder {
	b.TradeType = model.TradeTypeSell
	b.Amount = amount
	return b
}

// WithFee sets the fee percent.
func (b *TransactionBuilder) WithFee(percent float64) *TransactionBuilder {
	b.FeePercent = percent
	return b
}

// WithNavDate sets the confirmation date.
func (b *TransactionBuilder) WithNavDate(date time.Time) *TransactionBuilder {
	b.ConfirmedNavDate = model.DateOf(date)
	return b
}

// WithHolding links the transaction to a holding.
func (b *TransactionBuilder) WithHolding(holdingID string) *TransactionBuilder {
	b.HoldingID = &holdingID
	return b
}

// WithConversion links the transaction to a conversion.
func (b *TransactionBuilder) WithConversion(conversionID string) *TransactionBuilder {
	b.ConversionID = &conversionID
	return b
}

// Confirmed stores the transaction as already settled at nav.
func (b *TransactionBuilder) Confirmed(nav, shares float64) *TransactionBuilder {
	b.Status = model.TradeStatusConfirmed
	b.ConfirmedNav = nav
	b.Shares = shares
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	feeAmount := b.Amount * b.FeePercent / 100
	createdAt := time.Now().In(model.MarketLocation)

	query := `
		INSERT INTO fund_transaction (
			id, account_id, holding_id, conversion_id, fund_code, trade_type, status,
			amount, fee_percent, fee_amount, confirmed_nav, confirmed_nav_date, shares,
			trade_time, remark, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?)
	`

	_, err := db.Exec(query,
		b.ID, b.AccountID, b.HoldingID, b.ConversionID, b.FundCode, string(b.TradeType), string(b.Status),
		b.Amount, b.FeePercent, feeAmount, b.ConfirmedNav, b.ConfirmedNavDate.Format(dateLayout), b.Shares,
		b.TradeTime.Format(timestampLayout), createdAt.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:               b.ID,
		AccountID:        b.AccountID,
		HoldingID:        b.HoldingID,
		ConversionID:     b.ConversionID,
		FundCode:         b.FundCode,
		TradeType:        b.TradeType,
		Status:           b.Status,
		Amount:           b.Amount,
		FeePercent:       b.FeePercent,
		FeeAmount:        feeAmount,
		ConfirmedNav:     b.ConfirmedNav,
		ConfirmedNavDate: b.ConfirmedNavDate,
		Shares:           b.Shares,
		TradeTime:        b.TradeTime,
		CreatedAt:        createdAt,
	}
}

// CreateConversionRow inserts a bare conversion header without legs.
func CreateConversionRow(t *testing.T, db *sql.DB, accountID, fromCode, toCode string) model.Conversion {
	t.Helper()

	now := time.Now().In(model.MarketLocation)
	c := model.Conversion{
		ID:           MakeID(),
		AccountID:    accountID,
		FromFundCode: fromCode,
		ToFundCode:   toCode,
		TradeTime:    now,
		CreatedAt:    now,
	}
	_, err := db.Exec(`
		INSERT INTO fund_conversion (id, account_id, from_fund_code, to_fund_code, trade_time, remark, created_at)
		VALUES (?, ?, ?, ?, ?, '', ?)
	`, c.ID, c.AccountID, c.FromFundCode, c.ToFundCode, now.Format(timestampLayout), now.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test conversion: %v", err)
	}
	return c
}

// CreateFundNav stores a published NAV.
func CreateFundNav(t *testing.T, db *sql.DB, fundCode string, date time.Time, nav float64) model.FundNav {
	t.Helper()

	n := model.FundNav{
		ID:       MakeID(),
		FundCode: fundCode,
		Date:     model.DateOf(date),
		Nav:      nav,
	}
	_, err := db.Exec(`INSERT INTO fund_nav (id, fund_code, date, nav) VALUES (?, ?, ?, ?)`,
		n.ID, n.FundCode, n.Date.Format(dateLayout), n.Nav)
	if err != nil {
		t.Fatalf("Failed to create test fund nav: %v", err)
	}
	return n
}

// CreateTradeDates stores trading calendar dates.
func CreateTradeDates(t *testing.T, db *sql.DB, dates ...time.Time) {
	t.Helper()

	for _, d := range dates {
		if _, err := db.Exec(`INSERT INTO trade_date (date) VALUES (?)`, model.DateOf(d).Format(dateLayout)); err != nil {
			t.Fatalf("Failed to create trade date: %v", err)
		}
	}
}
