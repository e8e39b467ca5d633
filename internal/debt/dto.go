package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/paylock/internal/debt/schedule"
	"github.com/fkhayef/paylock/internal/link"
)

// ConfigRequest describes an installment plan
type ConfigRequest struct {
	Total             decimal.Decimal  `json:"totalDebt"`
	InstallmentCount  int              `json:"installmentCount" validate:"required,gt=0,lte=1000"`
	InstallmentAmount decimal.Decimal  `json:"installmentAmount"`
	Cadence           schedule.Cadence `json:"paymentCadence" validate:"required,oneof=daily weekly biweekly monthly"`
	PaymentDays       []int            `json:"paymentDays"`
	StartDate         *time.Time       `json:"startDate,omitempty"`
}

// ConfigureRequest attaches a plan to the pairing with linkedUserId
type ConfigureRequest struct {
	LinkedUserID int64         `json:"linkedUserId" validate:"required,gt=0"`
	DebtConfig   ConfigRequest `json:"debtConfig"`
}

// PaymentRequest records one installment paid by linkedUserId
type PaymentRequest struct {
	LinkedUserID int64           `json:"linkedUserId" validate:"required,gt=0"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
}

// PartialPaymentRequest records an arbitrary amount paid by vendedorId
type PartialPaymentRequest struct {
	VendedorID int64           `json:"vendedorId" validate:"required,gt=0"`
	Amount     decimal.Decimal `json:"amount"`
}

// ConfigResponse is the public shape of a pairing's installment plan
type ConfigResponse struct {
	Total             string           `json:"totalDebt"`
	InstallmentCount  int              `json:"installmentCount"`
	InstallmentAmount string           `json:"installmentAmount"`
	Cadence           schedule.Cadence `json:"paymentCadence"`
	PaymentDays       []int            `json:"paymentDays"`
	NextDueAt         *string          `json:"nextDueAt,omitempty"`
	StartedAt         *string          `json:"startedAt,omitempty"`
	InstallmentsPaid  int              `json:"installmentsPaid"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toConfigResponse(c *link.DebtConfig) *ConfigResponse {
	days := c.PaymentDays
	if days == nil {
		days = []int{}
	}
	return &ConfigResponse{
		Total:             c.Total.StringFixed(2),
		InstallmentCount:  c.InstallmentCount,
		InstallmentAmount: c.InstallmentAmount.StringFixed(2),
		Cadence:           c.Cadence,
		PaymentDays:       days,
		NextDueAt:         formatTime(c.NextDueAt),
		StartedAt:         formatTime(c.StartedAt),
		InstallmentsPaid:  c.InstallmentsPaid,
	}
}
