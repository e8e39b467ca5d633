package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes accounts that manage devices from managed ones
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSeller Role = "seller"
)

// Account represents a registered user
type Account struct {
	ID                 int64
	Name               string
	Phone              string
	Username           string
	PasswordHash       string
	PairingCode        string
	Role               Role
	DeviceID           *string
	DeviceInfo         map[string]interface{}
	DeviceRegisteredAt *time.Time
	Debt               DebtSnapshot
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DebtSnapshot is the seller-side view of the installment debt
type DebtSnapshot struct {
	Total             decimal.Decimal
	Remaining         decimal.Decimal
	InstallmentAmount decimal.Decimal
	Paid              int
	Pending           int
	NextPaymentAt     *time.Time
	LastPaymentAt     *time.Time
}

// IsOwner reports whether the account may manage sellers
func (a *Account) IsOwner() bool {
	return a.Role == RoleOwner
}

// IsSeller reports whether the account is a managed device account
func (a *Account) IsSeller() bool {
	return a.Role == RoleSeller
}

// HasDebt reports whether a balance is still outstanding
func (d DebtSnapshot) HasDebt() bool {
	return d.Remaining.IsPositive()
}

// PaymentStatus summarises the caller's next installment
type PaymentStatus struct {
	HasDebt          bool
	DaysUntilPayment int
	NotificationType string
	Debt             DebtSnapshot
}
