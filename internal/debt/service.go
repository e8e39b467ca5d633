package debt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/debt/schedule"
	"github.com/fkhayef/paylock/internal/link"
)

// Common errors
var (
	ErrNotOwner           = errors.New("only owners can manage debts")
	ErrNotSeller          = errors.New("linked account must be a seller")
	ErrNotLinked          = errors.New("no active link with this account")
	ErrNoDebtConfig       = errors.New("no debt configuration for this account")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrInvalidTotal       = errors.New("total debt must be greater than 0")
	ErrNoDebt             = errors.New("seller has no pending debt")
	ErrAmountExceedsDebt  = errors.New("amount exceeds the remaining debt")
	ErrInvalidInstallment = errors.New("installment amount must not be negative")
)

// LinkStore is the pairing persistence the debt service needs
type LinkStore interface {
	GetActive(ctx context.Context, requesterID, targetID int64) (*link.Link, error)
	UpdateDebtConfig(ctx context.Context, id int64, cfg *link.DebtConfig) error
}

// AccountStore reads accounts and writes their debt snapshot
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
	UpdateDebt(ctx context.Context, id int64, d account.DebtSnapshot) error
}

// Service handles installment debt business logic
type Service struct {
	links    LinkStore
	accounts AccountStore
	factory  *schedule.Factory
	now      func() time.Time
}

// NewService creates a new debt service with the cadence factory injected
func NewService(links LinkStore, accounts AccountStore, factory *schedule.Factory) *Service {
	return &Service{links: links, accounts: accounts, factory: factory, now: time.Now}
}

// pairing loads the owner, the seller and their active link, enforcing
// owner-only access.
func (s *Service) pairing(ctx context.Context, ownerID, sellerID int64) (*account.Account, *link.Link, error) {
	owner, err := s.accounts.GetByID(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if !owner.IsOwner() {
		return nil, nil, ErrNotOwner
	}

	seller, err := s.accounts.GetByID(ctx, sellerID)
	if errors.Is(err, account.ErrAccountNotFound) {
		return nil, nil, ErrNotSeller
	}
	if err != nil {
		return nil, nil, err
	}
	if !seller.IsSeller() {
		return nil, nil, ErrNotSeller
	}

	l, err := s.links.GetActive(ctx, ownerID, sellerID)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, ErrNotLinked
	}
	return seller, l, nil
}

// Configure attaches an installment plan to the owner's pairing with the
// seller and resets the seller's debt snapshot to match.
func (s *Service) Configure(ctx context.Context, ownerID int64, req *ConfigureRequest) (*link.DebtConfig, error) {
	seller, l, err := s.pairing(ctx, ownerID, req.LinkedUserID)
	if err != nil {
		return nil, err
	}

	plan := req.DebtConfig
	if !plan.Total.IsPositive() {
		return nil, ErrInvalidTotal
	}
	if plan.InstallmentAmount.IsNegative() {
		return nil, ErrInvalidInstallment
	}
	amount := plan.InstallmentAmount
	if amount.IsZero() {
		amount = plan.Total.DivRound(decimal.NewFromInt(int64(plan.InstallmentCount)), 2)
	}

	strategy, err := s.factory.Create(plan.Cadence)
	if err != nil {
		return nil, err
	}

	start := s.now()
	if plan.StartDate != nil {
		start = *plan.StartDate
	}
	next, err := strategy.Next(start, plan.PaymentDays)
	if err != nil {
		return nil, err
	}

	cfg := &link.DebtConfig{
		Total:             plan.Total,
		InstallmentCount:  plan.InstallmentCount,
		InstallmentAmount: amount,
		Cadence:           strategy.Type(),
		PaymentDays:       plan.PaymentDays,
		NextDueAt:         &next,
		StartedAt:         &start,
		InstallmentsPaid:  0,
	}
	if err := s.links.UpdateDebtConfig(ctx, l.ID, cfg); err != nil {
		return nil, err
	}

	err = s.accounts.UpdateDebt(ctx, seller.ID, account.DebtSnapshot{
		Total:             plan.Total,
		Remaining:         plan.Total,
		InstallmentAmount: amount,
		Paid:              0,
		Pending:           plan.InstallmentCount,
		NextPaymentAt:     &next,
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Get returns the plan on the owner's active pairing, or nil when none
// was configured. Like the other debt operations it is owner-only.
func (s *Service) Get(ctx context.Context, ownerID, sellerID int64) (*link.DebtConfig, error) {
	_, l, err := s.pairing(ctx, ownerID, sellerID)
	if err != nil {
		return nil, err
	}
	return l.Debt, nil
}

// RegisterPayment records one installment. The pairing's plan and the
// seller's snapshot are written separately; a failure between the two
// leaves them out of step.
func (s *Service) RegisterPayment(ctx context.Context, ownerID int64, req *PaymentRequest) (*account.DebtSnapshot, error) {
	if !req.AmountPaid.IsPositive() {
		return nil, ErrInvalidAmount
	}

	seller, l, err := s.pairing(ctx, ownerID, req.LinkedUserID)
	if err != nil {
		return nil, err
	}
	if l.Debt == nil {
		return nil, ErrNoDebtConfig
	}

	strategy, err := s.factory.Create(l.Debt.Cadence)
	if err != nil {
		return nil, err
	}
	now := s.now()
	next, err := strategy.Next(now, l.Debt.PaymentDays)
	if err != nil {
		return nil, err
	}

	cfg := *l.Debt
	cfg.InstallmentsPaid++
	cfg.NextDueAt = &next
	if err := s.links.UpdateDebtConfig(ctx, l.ID, &cfg); err != nil {
		return nil, err
	}

	snap := seller.Debt
	snap.Remaining = decimal.Max(snap.Remaining.Sub(req.AmountPaid), decimal.Zero)
	snap.Paid++
	if snap.Pending > 0 {
		snap.Pending--
	}
	snap.LastPaymentAt = &now
	snap.NextPaymentAt = &next
	if err := s.accounts.UpdateDebt(ctx, seller.ID, snap); err != nil {
		return nil, fmt.Errorf("installment recorded on link %d but seller snapshot not updated: %w", l.ID, err)
	}

	return &snap, nil
}

// RegisterPartialPayment applies an arbitrary amount to the seller's
// remaining debt and recounts paid and pending installments from it.
func (s *Service) RegisterPartialPayment(ctx context.Context, ownerID int64, req *PartialPaymentRequest) (*account.DebtSnapshot, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	seller, _, err := s.pairing(ctx, ownerID, req.VendedorID)
	if err != nil {
		return nil, err
	}

	snap := seller.Debt
	if !snap.HasDebt() {
		return nil, ErrNoDebt
	}
	if req.Amount.GreaterThan(snap.Remaining) {
		return nil, ErrAmountExceedsDebt
	}

	snap.Remaining = snap.Remaining.Sub(req.Amount)
	if snap.InstallmentAmount.IsPositive() {
		paidOff := snap.Total.Sub(snap.Remaining)
		snap.Paid = int(paidOff.Div(snap.InstallmentAmount).Floor().IntPart())
		snap.Pending = int(snap.Remaining.Div(snap.InstallmentAmount).Ceil().IntPart())
	} else if snap.Remaining.IsZero() {
		snap.Pending = 0
	}
	now := s.now()
	snap.LastPaymentAt = &now

	if err := s.accounts.UpdateDebt(ctx, seller.ID, snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
