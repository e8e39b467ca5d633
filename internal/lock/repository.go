package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const stateColumns = `
	id, owner_id, seller_id, is_locked, message, locked_at, unlocked_at, created_at, updated_at`

// Repository handles lock state persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new lock repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanState(row rowScanner) (*State, error) {
	s := &State{}
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.SellerID,
		&s.IsLocked,
		&s.Message,
		&s.LockedAt,
		&s.UnlockedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Lock upserts the (owner, seller) row as locked with a fresh message and
// lock time.
func (r *Repository) Lock(ctx context.Context, ownerID, sellerID int64, message string, at time.Time) (*State, error) {
	query := `
		INSERT INTO lock_states (owner_id, seller_id, is_locked, message, locked_at)
		VALUES ($1, $2, TRUE, $3, $4)
		ON CONFLICT (owner_id, seller_id) DO UPDATE
		SET is_locked = TRUE,
		    message = EXCLUDED.message,
		    locked_at = EXCLUDED.locked_at,
		    unlocked_at = NULL,
		    updated_at = NOW()
		RETURNING` + stateColumns

	s, err := scanState(r.db.QueryRowContext(ctx, query, ownerID, sellerID, message, at))
	if err != nil {
		return nil, fmt.Errorf("failed to lock device: %w", err)
	}
	return s, nil
}

// Unlock clears the lock flag. An already unlocked row keeps its original
// unlock time. Returns nil when no row exists.
func (r *Repository) Unlock(ctx context.Context, ownerID, sellerID int64, at time.Time) (*State, error) {
	query := `
		UPDATE lock_states
		SET unlocked_at = CASE WHEN is_locked THEN $3 ELSE unlocked_at END,
		    is_locked = FALSE,
		    updated_at = NOW()
		WHERE owner_id = $1 AND seller_id = $2
		RETURNING` + stateColumns

	s, err := scanState(r.db.QueryRowContext(ctx, query, ownerID, sellerID, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to unlock device: %w", err)
	}
	return s, nil
}

// Get retrieves the row for (owner, seller), or nil
func (r *Repository) Get(ctx context.Context, ownerID, sellerID int64) (*State, error) {
	query := `SELECT` + stateColumns + ` FROM lock_states WHERE owner_id = $1 AND seller_id = $2`

	s, err := scanState(r.db.QueryRowContext(ctx, query, ownerID, sellerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lock state: %w", err)
	}
	return s, nil
}

// ListLockedForSeller returns every locked row naming the seller, newest
// lock first.
func (r *Repository) ListLockedForSeller(ctx context.Context, sellerID int64) ([]*State, error) {
	query := `SELECT` + stateColumns + `
		FROM lock_states
		WHERE seller_id = $1 AND is_locked
		ORDER BY locked_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lock states: %w", err)
	}
	defer rows.Close()

	var states []*State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lock state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lock states: %w", err)
	}
	return states, nil
}
