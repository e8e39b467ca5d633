package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fkhayef/paylock/internal/database"
)

const accountColumns = `
	id, name, phone, username, password_hash, pairing_code, role,
	device_id, device_info, device_registered_at,
	debt_total, debt_remaining, installment_amount, installments_paid, installments_pending,
	next_payment_at, last_payment_at, created_at, updated_at`

var errPairingCodeTaken = errors.New("pairing code already in use")

// Repository handles account persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new account repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*Account, error) {
	a := &Account{}
	var info []byte
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Phone,
		&a.Username,
		&a.PasswordHash,
		&a.PairingCode,
		&a.Role,
		&a.DeviceID,
		&info,
		&a.DeviceRegisteredAt,
		&a.Debt.Total,
		&a.Debt.Remaining,
		&a.Debt.InstallmentAmount,
		&a.Debt.Paid,
		&a.Debt.Pending,
		&a.Debt.NextPaymentAt,
		&a.Debt.LastPaymentAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(info) > 0 {
		if err := json.Unmarshal(info, &a.DeviceInfo); err != nil {
			return nil, fmt.Errorf("failed to decode device info: %w", err)
		}
	}
	return a, nil
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, a *Account) (*Account, error) {
	query := `
		INSERT INTO accounts (name, phone, username, password_hash, pairing_code, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + accountColumns

	created, err := scanAccount(r.db.QueryRowContext(ctx, query,
		a.Name, a.Phone, a.Username, a.PasswordHash, a.PairingCode, a.Role,
	))
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "accounts_username_key"):
			return nil, ErrUsernameTaken
		case database.IsUniqueViolation(err, "accounts_phone_key"):
			return nil, ErrPhoneTaken
		case database.IsUniqueViolation(err, "accounts_pairing_code_key"):
			return nil, errPairingCodeTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

func (r *Repository) getOne(ctx context.Context, column string, arg interface{}) (*Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by %s: %w", column, err)
	}
	return a, nil
}

// GetByID retrieves an account by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Account, error) {
	return r.getOne(ctx, "id", id)
}

// GetByUsername retrieves an account by its lower-cased username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return r.getOne(ctx, "username", username)
}

// GetByPhone retrieves an account by phone number
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Account, error) {
	return r.getOne(ctx, "phone", phone)
}

// GetByPairingCode retrieves an account by its public pairing code
func (r *Repository) GetByPairingCode(ctx context.Context, code string) (*Account, error) {
	return r.getOne(ctx, "pairing_code", code)
}

// Exists reports whether an account with the id exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return exists, nil
}

// UpdateDebt overwrites the debt snapshot of an account
func (r *Repository) UpdateDebt(ctx context.Context, id int64, d DebtSnapshot) error {
	query := `
		UPDATE accounts
		SET debt_total = $2,
		    debt_remaining = $3,
		    installment_amount = $4,
		    installments_paid = $5,
		    installments_pending = $6,
		    next_payment_at = $7,
		    last_payment_at = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id,
		d.Total, d.Remaining, d.InstallmentAmount, d.Paid, d.Pending, d.NextPaymentAt, d.LastPaymentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// RegisterDevice records the device bound to an account
func (r *Repository) RegisterDevice(ctx context.Context, id int64, deviceID string, info map[string]interface{}, at time.Time) error {
	var raw []byte
	if info != nil {
		var err error
		if raw, err = json.Marshal(info); err != nil {
			return fmt.Errorf("failed to encode device info: %w", err)
		}
	}

	query := `
		UPDATE accounts
		SET device_id = $2, device_info = $3, device_registered_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, deviceID, raw, at)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListSellersWithDebt returns sellers that still owe money and have a due date
func (r *Repository) ListSellersWithDebt(ctx context.Context) ([]*Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE role = 'seller' AND debt_remaining > 0 AND next_payment_at IS NOT NULL
		ORDER BY next_payment_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers with debt: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
