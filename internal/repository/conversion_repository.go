package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// ConversionRepository provides data access methods for the fund_conversion table.
type ConversionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewConversionRepository creates a new ConversionRepository with the provided database connection.
func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// WithTx returns a new ConversionRepository scoped to the provided transaction.
func (r *ConversionRepository) WithTx(tx *sql.Tx) *ConversionRepository {
	return &ConversionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ConversionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertConversion stores the conversion header. Its legs are stored as fund_transaction rows.
func (r *ConversionRepository) InsertConversion(ctx context.Context, c *model.Conversion) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO fund_conversion (id, account_id, from_fund_code, to_fund_code, trade_time, remark, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.AccountID, c.FromFundCode, c.ToFundCode, formatTimestamp(c.TradeTime), c.Remark, formatTimestamp(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}
	return nil
}

// GetConversions lists an account's conversions, newest first.
func (r *ConversionRepository) GetConversions(ctx context.Context, accountID string) ([]model.Conversion, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, account_id, from_fund_code, to_fund_code, trade_time, remark, created_at
		FROM fund_conversion
		WHERE account_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_conversion table: %w", err)
	}
	defer rows.Close()

	conversions := []model.Conversion{}
	for rows.Next() {
		var c model.Conversion
		var tradeTimeStr, createdAtStr string
		if err := rows.Scan(&c.ID, &c.AccountID, &c.FromFundCode, &c.ToFundCode, &tradeTimeStr, &c.Remark, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan fund_conversion table results: %w", err)
		}
		if c.TradeTime, err = ParseTime(tradeTimeStr); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_conversion table: %w", err)
	}
	return conversions, nil
}
