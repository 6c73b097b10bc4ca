package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// FundNavRepository provides data access methods for the fund_nav table,
// the local store of published NAVs per fund and trading date.
type FundNavRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundNavRepository creates a new FundNavRepository with the provided database connection.
func NewFundNavRepository(db *sql.DB) *FundNavRepository {
	return &FundNavRepository{db: db}
}

// WithTx returns a new FundNavRepository scoped to the provided transaction.
func (r *FundNavRepository) WithTx(tx *sql.Tx) *FundNavRepository {
	return &FundNavRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundNavRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetNav returns the NAV of fundCode published for date.
// Returns ErrNavNotFound if the date has not been stored.
func (r *FundNavRepository) GetNav(ctx context.Context, fundCode string, date time.Time) (model.FundNav, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, fund_code, date, nav FROM fund_nav WHERE fund_code = ? AND date = ?`,
		fundCode, formatDate(date),
	)
	return scanNav(row)
}

// GetLatestNav returns the most recent stored NAV of fundCode.
// Returns ErrNavNotFound if nothing is stored for the fund.
func (r *FundNavRepository) GetLatestNav(ctx context.Context, fundCode string) (model.FundNav, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, fund_code, date, nav FROM fund_nav WHERE fund_code = ? ORDER BY date DESC LIMIT 1`,
		fundCode,
	)
	return scanNav(row)
}

// UpsertNav stores the NAV of fundCode for date, replacing any previous value.
func (r *FundNavRepository) UpsertNav(ctx context.Context, fundCode string, date time.Time, nav float64) (model.FundNav, error) {
	n := model.FundNav{
		ID:       uuid.New().String(),
		FundCode: fundCode,
		Date:     model.DateOf(date),
		Nav:      nav,
	}
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO fund_nav (id, fund_code, date, nav)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (fund_code, date) DO UPDATE SET nav = excluded.nav
	`, n.ID, n.FundCode, formatDate(n.Date), n.Nav)
	if err != nil {
		return model.FundNav{}, fmt.Errorf("failed to upsert fund nav: %w", err)
	}
	return n, nil
}

func scanNav(row *sql.Row) (model.FundNav, error) {
	var n model.FundNav
	var dateStr string
	err := row.Scan(&n.ID, &n.FundCode, &dateStr, &n.Nav)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FundNav{}, apperrors.ErrNavNotFound
	}
	if err != nil {
		return model.FundNav{}, fmt.Errorf("failed to query fund nav: %w", err)
	}
	if n.Date, err = ParseTime(dateStr); err != nil {
		return model.FundNav{}, err
	}
	return n, nil
}
