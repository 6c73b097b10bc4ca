package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// A holding is unique per (account_id, fund_code).
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, account_id, fund_code, total_amount, total_shares, version, updated_at`

// GetHolding retrieves a holding by ID.
// Returns ErrHoldingNotFound if no holding with the given ID exists.
func (r *HoldingRepository) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+holdingColumns+` FROM holding WHERE id = ?`, holdingID)
	return r.scanOne(row)
}

// GetHoldingByFund retrieves the holding of fundCode in accountID.
// Returns ErrHoldingNotFound if the account does not hold the fund.
func (r *HoldingRepository) GetHoldingByFund(ctx context.Context, accountID, fundCode string) (model.Holding, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT `+holdingColumns+` FROM holding WHERE account_id = ? AND fund_code = ?`,
		accountID, fundCode,
	)
	return r.scanOne(row)
}

// GetHoldings lists the holdings of an account, optionally restricted to one fund code.
func (r *HoldingRepository) GetHoldings(ctx context.Context, accountID, fundCode string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE account_id = ?`
	args := []any{accountID}
	if code := strings.TrimSpace(fundCode); code != "" {
		query += ` AND fund_code = ?`
		args = append(args, code)
	}
	query += ` ORDER BY fund_code ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}
	return holdings, nil
}

// InsertHolding stores a new holding.
// Returns ErrHoldingExists if the account already holds the fund.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO holding (id, account_id, fund_code, total_amount, total_shares, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.AccountID, h.FundCode, h.TotalAmount, h.TotalShares, h.Version, formatTimestamp(h.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrHoldingExists
		}
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateBalances writes new balances for h if its version is still h.Version,
// and advances h.Version and h.UpdatedAt on success.
// Returns ErrConcurrentHoldingUpdate when the row changed since it was read.
func (r *HoldingRepository) UpdateBalances(ctx context.Context, h *model.Holding) error {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE holding
		SET total_amount = ?, total_shares = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, h.TotalAmount, h.TotalShares, formatTimestamp(h.UpdatedAt), h.ID, h.Version)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	if err := expectOneRow(result, apperrors.ErrConcurrentHoldingUpdate); err != nil {
		return err
	}
	h.Version++
	return nil
}

// DeleteHolding removes a holding. Its transactions keep their rows with holding_id cleared.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, holdingID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return expectOneRow(result, apperrors.ErrHoldingNotFound)
}

func (r *HoldingRepository) scanOne(row *sql.Row) (model.Holding, error) {
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}
	return h, nil
}

func scanHolding(s rowScanner) (model.Holding, error) {
	var h model.Holding
	var updatedAtStr string
	if err := s.Scan(&h.ID, &h.AccountID, &h.FundCode, &h.TotalAmount, &h.TotalShares, &h.Version, &updatedAtStr); err != nil {
		return model.Holding{}, err
	}
	updatedAt, err := ParseTime(updatedAtStr)
	if err != nil {
		return model.Holding{}, err
	}
	h.UpdatedAt = updatedAt
	return h, nil
}
