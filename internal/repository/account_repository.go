package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const accountColumns = `id, name, remark, default_buy_fee_percent, created_at`

// GetAccount retrieves a single account by ID.
// Returns ErrAccountNotFound if no account with the given ID exists.
func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = ?`, accountID)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return a, nil
}

// GetAccounts returns all accounts ordered by creation time.
func (r *AccountRepository) GetAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT `+accountColumns+` FROM account ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}
	return accounts, nil
}

// InsertAccount stores a new account.
func (r *AccountRepository) InsertAccount(ctx context.Context, a *model.Account) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO account (id, name, remark, default_buy_fee_percent, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.Remark, a.DefaultBuyFeePercent, formatTimestamp(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccount overwrites the mutable fields of an account.
// Returns ErrAccountNotFound if no row was updated.
func (r *AccountRepository) UpdateAccount(ctx context.Context, a *model.Account) error {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE account
		SET name = ?, remark = ?, default_buy_fee_percent = ?
		WHERE id = ?
	`, a.Name, a.Remark, a.DefaultBuyFeePercent, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(result, apperrors.ErrAccountNotFound)
}

// DeleteAccount removes an account. Holdings, transactions and conversions cascade.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM account WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return expectOneRow(result, apperrors.ErrAccountNotFound)
}

func scanAccount(s rowScanner) (model.Account, error) {
	var a model.Account
	var createdAtStr string
	if err := s.Scan(&a.ID, &a.Name, &a.Remark, &a.DefaultBuyFeePercent, &createdAtStr); err != nil {
		return model.Account{}, err
	}
	createdAt, err := ParseTime(createdAtStr)
	if err != nil {
		return model.Account{}, err
	}
	a.CreatedAt = createdAt
	return a, nil
}

// expectOneRow converts a zero rows-affected result into notFound.
func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
