package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TradeCalendarRepository stores the exchange trading calendar in the trade_date table.
// It satisfies calendar.Source.
type TradeCalendarRepository struct {
	db *sql.DB
}

// NewTradeCalendarRepository creates a new TradeCalendarRepository with the provided database connection.
func NewTradeCalendarRepository(db *sql.DB) *TradeCalendarRepository {
	return &TradeCalendarRepository{db: db}
}

// LoadTradeDates returns every stored trading date in ascending order.
func (r *TradeCalendarRepository) LoadTradeDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM trade_date ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_date table: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan trade_date table results: %w", err)
		}
		d, err := ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_date table: %w", err)
	}
	return dates, nil
}

// ImportTradeDates inserts dates, skipping ones already present, and returns how many were new.
func (r *TradeCalendarRepository) ImportTradeDates(ctx context.Context, dates []time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for _, d := range dates {
		result, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO trade_date (date) VALUES (?)`, formatDate(d))
		if err != nil {
			return 0, fmt.Errorf("failed to insert trade date: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit trade dates: %w", err)
	}
	return inserted, nil
}
