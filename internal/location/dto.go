package location

import (
	"time"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/link"
)

// UpdateRequest reports the caller's current position
type UpdateRequest struct {
	Latitude     *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address      string   `json:"address,omitempty" validate:"max=500"`
	Accuracy     *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	BatteryLevel *int     `json:"batteryLevel,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsCharging   *bool    `json:"isCharging,omitempty"`
}

// EntryResponse is a linked account with its last known position
type EntryResponse struct {
	link.PublicProfile
	IsLocked bool                  `json:"isLocked"`
	Debt     *account.DebtResponse `json:"debtInfo,omitempty"`
	Location *Sample               `json:"location"`
	Age      string                `json:"age,omitempty"`
}

func toEntryResponse(e *Entry, now time.Time) *EntryResponse {
	resp := &EntryResponse{
		PublicProfile: *link.ProfileOf(e.Account),
		IsLocked:      e.IsLocked,
		Location:      e.Sample,
	}
	if e.Account.IsSeller() {
		debt := e.Account.Debt.ToResponse()
		resp.Debt = &debt
	}
	if e.Sample != nil {
		resp.Age = now.Sub(e.Sample.Timestamp).Truncate(time.Second).String()
	}
	return resp
}
