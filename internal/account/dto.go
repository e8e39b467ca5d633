package account

import "time"

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=30"`
	Username string `json:"username" validate:"required,min=3,max=50,excludes=@"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=owner seller"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterDeviceRequest binds a physical device to the caller's account
type RegisterDeviceRequest struct {
	DeviceID   string                 `json:"deviceId" validate:"required,max=200"`
	DeviceInfo map[string]interface{} `json:"deviceInfo,omitempty"`
}

// DebtResponse is the public shape of a debt snapshot
type DebtResponse struct {
	Total             string  `json:"total"`
	Remaining         string  `json:"remaining"`
	InstallmentAmount string  `json:"installmentAmount"`
	Paid              int     `json:"installmentsPaid"`
	Pending           int     `json:"installmentsPending"`
	NextPaymentAt     *string `json:"nextPaymentAt,omitempty"`
	LastPaymentAt     *string `json:"lastPaymentAt,omitempty"`
}

// AccountResponse represents an account's public profile
type AccountResponse struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone"`
	Username  string       `json:"username"`
	JCID      string       `json:"jcId"`
	Role      Role         `json:"role"`
	Debt      DebtResponse `json:"debtInfo"`
	CreatedAt string       `json:"createdAt"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	Token string           `json:"token"`
	User  *AccountResponse `json:"user"`
}

// PaymentStatusResponse describes how close the caller's next installment is
type PaymentStatusResponse struct {
	HasDebt          bool          `json:"hasDebt"`
	DaysUntilPayment *int          `json:"daysUntilPayment,omitempty"`
	NotificationType string        `json:"notificationType,omitempty"`
	ShouldNotify     bool          `json:"shouldNotify"`
	Debt             *DebtResponse `json:"debtInfo,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

// ToResponse converts a debt snapshot to its public shape
func (d DebtSnapshot) ToResponse() DebtResponse {
	return DebtResponse{
		Total:             d.Total.StringFixed(2),
		Remaining:         d.Remaining.StringFixed(2),
		InstallmentAmount: d.InstallmentAmount.StringFixed(2),
		Paid:              d.Paid,
		Pending:           d.Pending,
		NextPaymentAt:     formatTime(d.NextPaymentAt),
		LastPaymentAt:     formatTime(d.LastPaymentAt),
	}
}

// ToResponse converts an Account model to its public profile
func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		Username:  a.Username,
		JCID:      a.PairingCode,
		Role:      a.Role,
		Debt:      a.Debt.ToResponse(),
		CreatedAt: a.CreatedAt.UTC().Format(timeLayout),
	}
}
