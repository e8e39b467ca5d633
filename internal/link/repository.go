package link

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/paylock/internal/debt/schedule"
)

const linkColumns = `
	id, requester_id, target_id, status, requested_at, responded_at,
	debt_total, installment_count, installment_amount, cadence, payment_days,
	next_due_at, started_at, installments_paid, created_at, updated_at`

// Repository handles pairing record persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new link repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*Link, error) {
	l := &Link{}
	var (
		total, amount decimal.NullDecimal
		count         sql.NullInt64
		cadence       sql.NullString
		days          pq.Int64Array
		nextDue       *time.Time
		started       *time.Time
		paid          int
	)
	err := row.Scan(
		&l.ID,
		&l.RequesterID,
		&l.TargetID,
		&l.Status,
		&l.RequestedAt,
		&l.RespondedAt,
		&total,
		&count,
		&amount,
		&cadence,
		&days,
		&nextDue,
		&started,
		&paid,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if total.Valid {
		cfg := &DebtConfig{
			Total:            total.Decimal,
			InstallmentCount: int(count.Int64),
			Cadence:          schedule.Cadence(cadence.String),
			NextDueAt:        nextDue,
			StartedAt:        started,
			InstallmentsPaid: paid,
		}
		if amount.Valid {
			cfg.InstallmentAmount = amount.Decimal
		}
		for _, d := range days {
			cfg.PaymentDays = append(cfg.PaymentDays, int(d))
		}
		l.Debt = cfg
	}
	return l, nil
}

func statusArray(statuses []Status) interface{} {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}

func (r *Repository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]*Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *Repository) queryLink(ctx context.Context, query string, args ...interface{}) (*Link, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// Create inserts a pairing record in the given status
func (r *Repository) Create(ctx context.Context, requesterID, targetID int64, status Status, respondedAt *time.Time) (*Link, error) {
	query := `
		INSERT INTO links (requester_id, target_id, status, responded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING` + linkColumns

	l, err := scanLink(r.db.QueryRowContext(ctx, query, requesterID, targetID, status, respondedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return l, nil
}

// GetByID retrieves a pairing record by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Link, error) {
	l, err := r.queryLink(ctx, `SELECT`+linkColumns+` FROM links WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return l, nil
}

// Get retrieves the newest record in one direction, whatever its status
func (r *Repository) Get(ctx context.Context, requesterID, targetID int64) (*Link, error) {
	query := `SELECT` + linkColumns + `
		FROM links
		WHERE requester_id = $1 AND target_id = $2
		ORDER BY id DESC
		LIMIT 1`

	l, err := r.queryLink(ctx, query, requesterID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return l, nil
}

// GetActive retrieves the active record from requester to target
func (r *Repository) GetActive(ctx context.Context, requesterID, targetID int64) (*Link, error) {
	query := `SELECT` + linkColumns + `
		FROM links
		WHERE requester_id = $1 AND target_id = $2 AND status = 'active'
		ORDER BY id DESC
		LIMIT 1`

	l, err := r.queryLink(ctx, query, requesterID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active link: %w", err)
	}
	return l, nil
}

// FindBetween returns a record between a and b, in either direction, whose
// status is one of statuses.
func (r *Repository) FindBetween(ctx context.Context, a, b int64, statuses []Status) (*Link, error) {
	query := `SELECT` + linkColumns + `
		FROM links
		WHERE ((requester_id = $1 AND target_id = $2) OR (requester_id = $2 AND target_id = $1))
		  AND status = ANY($3)
		ORDER BY id DESC
		LIMIT 1`

	l, err := r.queryLink(ctx, query, a, b, statusArray(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return l, nil
}

// DeleteBetween removes records between a and b in both directions. An
// empty statuses slice removes every record.
func (r *Repository) DeleteBetween(ctx context.Context, a, b int64, statuses []Status) (int64, error) {
	query := `
		DELETE FROM links
		WHERE ((requester_id = $1 AND target_id = $2) OR (requester_id = $2 AND target_id = $1))`
	args := []interface{}{a, b}
	if len(statuses) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusArray(statuses))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete links: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// UpdateStatus changes the status of a record and stamps its response time
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, respondedAt time.Time) error {
	query := `UPDATE links SET status = $2, responded_at = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, respondedAt); err != nil {
		return fmt.Errorf("failed to update link status: %w", err)
	}
	return nil
}

// Delete removes a single record
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

// ListActive returns the caller's outgoing active records
func (r *Repository) ListActive(ctx context.Context, requesterID int64) ([]*Link, error) {
	query := `SELECT` + linkColumns + `
		FROM links
		WHERE requester_id = $1 AND status = 'active'
		ORDER BY responded_at DESC NULLS LAST, id DESC`

	links, err := r.queryLinks(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active links: %w", err)
	}
	return links, nil
}

// ListPendingFor returns pending records addressed to targetID
func (r *Repository) ListPendingFor(ctx context.Context, targetID int64) ([]*Link, error) {
	query := `SELECT` + linkColumns + `
		FROM links
		WHERE target_id = $1 AND status = 'pending'
		ORDER BY requested_at DESC`

	links, err := r.queryLinks(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending links: %w", err)
	}
	return links, nil
}

// IsActive reports whether an active record exists from requester to target
func (r *Repository) IsActive(ctx context.Context, requesterID, targetID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE requester_id = $1 AND target_id = $2 AND status = 'active')`
	if err := r.db.QueryRowContext(ctx, query, requesterID, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return exists, nil
}

// UpdateDebtConfig stores the installment plan on a record
func (r *Repository) UpdateDebtConfig(ctx context.Context, id int64, cfg *DebtConfig) error {
	days := make(pq.Int64Array, len(cfg.PaymentDays))
	for i, d := range cfg.PaymentDays {
		days[i] = int64(d)
	}

	query := `
		UPDATE links
		SET debt_total = $2,
		    installment_count = $3,
		    installment_amount = $4,
		    cadence = $5,
		    payment_days = $6,
		    next_due_at = $7,
		    started_at = $8,
		    installments_paid = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id,
		cfg.Total, cfg.InstallmentCount, cfg.InstallmentAmount, string(cfg.Cadence), days,
		cfg.NextDueAt, cfg.StartedAt, cfg.InstallmentsPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
