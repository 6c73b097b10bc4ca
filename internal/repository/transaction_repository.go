package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// TransactionRepository provides data access methods for the fund_transaction table.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `
	id, account_id, holding_id, conversion_id, fund_code, trade_type, status,
	amount, fee_percent, fee_amount, confirmed_nav, confirmed_nav_date, shares,
	holding_amount, profit_amount, trade_time, remark, created_at`

// InsertTransaction stores a new transaction row.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `INSERT INTO fund_transaction (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AccountID,
		nullString(t.HoldingID),
		nullString(t.ConversionID),
		t.FundCode,
		string(t.TradeType),
		string(t.Status),
		t.Amount,
		t.FeePercent,
		t.FeeAmount,
		t.ConfirmedNav,
		formatDate(t.ConfirmedNavDate),
		t.Shares,
		nullFloat(t.HoldingAmount),
		nullFloat(t.ProfitAmount),
		formatTimestamp(t.TradeTime),
		t.Remark,
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns ErrTransactionNotFound if no transaction with the given ID exists.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM fund_transaction WHERE id = ?`, transactionID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to query transaction: %w", err)
	}
	return t, nil
}

// GetTransactions lists an account's transactions newest first, optionally for one fund code.
func (r *TransactionRepository) GetTransactions(ctx context.Context, accountID, fundCode string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM fund_transaction WHERE account_id = ?`
	args := []any{accountID}
	if code := strings.TrimSpace(fundCode); code != "" {
		query += ` AND fund_code = ?`
		args = append(args, code)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	return r.queryTransactions(ctx, query, args...)
}

// GetDuePending returns pending transactions whose confirmation date is on or before asOf,
// oldest confirmation date first.
func (r *TransactionRepository) GetDuePending(ctx context.Context, asOf time.Time) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM fund_transaction
		WHERE status = ? AND confirmed_nav_date <= ?
		ORDER BY confirmed_nav_date ASC, created_at ASC, rowid ASC`

	return r.queryTransactions(ctx, query, string(model.TradeStatusPending), formatDate(asOf))
}

// GetTransactionsByConversion returns the legs of the given conversions grouped by conversion ID.
func (r *TransactionRepository) GetTransactionsByConversion(ctx context.Context, conversionIDs []string) (map[string][]model.Transaction, error) {
	byConversion := make(map[string][]model.Transaction)
	if len(conversionIDs) == 0 {
		return byConversion, nil
	}

	placeholders := make([]string, len(conversionIDs))
	args := make([]any, len(conversionIDs))
	for i, id := range conversionIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + transactionColumns + `
		FROM fund_transaction
		WHERE conversion_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY rowid ASC`

	transactions, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, t := range transactions {
		byConversion[*t.ConversionID] = append(byConversion[*t.ConversionID], t)
	}
	return byConversion, nil
}

// MarkConfirmed moves a pending transaction to confirmed with its NAV, shares and holding link.
// Returns false without error when the row is no longer pending, so a transaction can
// only be confirmed once.
func (r *TransactionRepository) MarkConfirmed(ctx context.Context, t *model.Transaction) (bool, error) {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE fund_transaction
		SET status = ?, confirmed_nav = ?, shares = ?, holding_id = ?
		WHERE id = ? AND status = ?
	`, string(model.TradeStatusConfirmed), t.ConfirmedNav, t.Shares, nullString(t.HoldingID), t.ID, string(model.TradeStatusPending))
	if err != nil {
		return false, fmt.Errorf("failed to confirm transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_transaction table: %w", err)
	}
	return transactions, nil
}

func scanTransaction(s rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var holdingID, conversionID sql.NullString
	var holdingAmount, profitAmount sql.NullFloat64
	var tradeType, status, navDateStr, tradeTimeStr, createdAtStr string

	err := s.Scan(
		&t.ID,
		&t.AccountID,
		&holdingID,
		&conversionID,
		&t.FundCode,
		&tradeType,
		&status,
		&t.Amount,
		&t.FeePercent,
		&t.FeeAmount,
		&t.ConfirmedNav,
		&navDateStr,
		&t.Shares,
		&holdingAmount,
		&profitAmount,
		&tradeTimeStr,
		&t.Remark,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	t.HoldingID = stringPtr(holdingID)
	t.ConversionID = stringPtr(conversionID)
	t.HoldingAmount = floatPtr(holdingAmount)
	t.ProfitAmount = floatPtr(profitAmount)
	t.TradeType = model.TradeType(tradeType)
	t.Status = model.TradeStatus(status)

	if t.ConfirmedNavDate, err = ParseTime(navDateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.TradeTime, err = ParseTime(tradeTimeStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}
