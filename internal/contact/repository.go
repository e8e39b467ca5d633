package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const contactColumns = `id, account_id, name, phone_number, is_emergency, created_at, updated_at`

// Repository handles emergency contact persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new contact repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(row rowScanner) (*Contact, error) {
	c := &Contact{}
	err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.PhoneNumber, &c.IsEmergency, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Upsert creates the contact or refreshes its name
func (r *Repository) Upsert(ctx context.Context, accountID int64, name, phone string) (*Contact, error) {
	query := `
		INSERT INTO emergency_contacts (account_id, name, phone_number, is_emergency)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (account_id, phone_number) DO UPDATE
		SET name = EXCLUDED.name, is_emergency = TRUE, updated_at = NOW()
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query, accountID, name, phone))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contact: %w", err)
	}
	return c, nil
}

// DeleteByPhone removes the caller's contact with the phone number
func (r *Repository) DeleteByPhone(ctx context.Context, accountID int64, phone string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM emergency_contacts WHERE account_id = $1 AND phone_number = $2`, accountID, phone)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes a contact by id when it belongs to the account
func (r *Repository) Delete(ctx context.Context, accountID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM emergency_contacts WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// List returns the account's emergency contacts, newest first
func (r *Repository) List(ctx context.Context, accountID int64) ([]*Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM emergency_contacts
		WHERE account_id = $1 AND is_emergency
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// Count returns the number of emergency contacts of the account
func (r *Repository) Count(ctx context.Context, accountID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM emergency_contacts WHERE account_id = $1 AND is_emergency`
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// GetByPhone returns the account's contact with the phone number, or nil
func (r *Repository) GetByPhone(ctx context.Context, accountID int64, phone string) (*Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM emergency_contacts
		WHERE account_id = $1 AND phone_number = $2 AND is_emergency`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, accountID, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}
