package link

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/debt/schedule"
)

// Status represents the state of a pairing record
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Link is one direction of a pairing between two accounts
type Link struct {
	ID          int64
	RequesterID int64
	TargetID    int64
	Status      Status
	RequestedAt time.Time
	RespondedAt *time.Time
	Debt        *DebtConfig
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DebtConfig is the installment plan an owner attaches to a pairing
type DebtConfig struct {
	Total             decimal.Decimal
	InstallmentCount  int
	InstallmentAmount decimal.Decimal
	Cadence           schedule.Cadence
	PaymentDays       []int
	NextDueAt         *time.Time
	StartedAt         *time.Time
	InstallmentsPaid  int
}

// LinkedDevice is an active pairing seen from the caller's side
type LinkedDevice struct {
	Link        *Link
	Counterpart *account.Account
	IsLocked    bool
}

// PendingRequest is an inbound request awaiting the caller's answer
type PendingRequest struct {
	Link      *Link
	Requester *account.Account
}
