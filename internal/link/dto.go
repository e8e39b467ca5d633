package link

import (
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

// RequestLinkRequest asks the account owning jcId to pair with the caller
type RequestLinkRequest struct {
	JCID string `json:"jcId" validate:"required,max=20"`
}

// RespondRequest accepts or rejects an inbound pairing request
type RespondRequest struct {
	LinkID int64 `json:"linkId" validate:"required,gt=0"`
	Accept *bool `json:"accept" validate:"required"`
}

// UnlinkRequest removes the pairing with linkedUserId in both directions
type UnlinkRequest struct {
	LinkedUserID int64 `json:"linkedUserId" validate:"required,gt=0"`
}

// LinkResponse represents a single pairing record
type LinkResponse struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	LinkedUserID int64   `json:"linkedUserId"`
	Status       Status  `json:"status"`
	RequestedAt  string  `json:"requestedAt"`
	RespondedAt  *string `json:"respondedAt,omitempty"`
}

// PublicProfile is the subset of an account shown to a counterpart
type PublicProfile struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Username string       `json:"username"`
	JCID     string       `json:"jcId"`
	Role     account.Role `json:"role"`
}

// RequestCreatedResponse is returned after sending a pairing request
type RequestCreatedResponse struct {
	Link       *LinkResponse  `json:"link"`
	TargetUser *PublicProfile `json:"targetUser"`
}

// LinkedDeviceResponse represents an active pairing with the counterpart's profile
type LinkedDeviceResponse struct {
	PublicProfile
	LinkID   int64                 `json:"linkId"`
	IsLocked bool                  `json:"isLocked"`
	Debt     *account.DebtResponse `json:"debtInfo,omitempty"`
}

// PendingRequestResponse represents an inbound pairing request
type PendingRequestResponse struct {
	LinkID      int64          `json:"linkId"`
	RequestedAt string         `json:"requestedAt"`
	Requester   *PublicProfile `json:"requester"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ToResponse converts a Link model to a LinkResponse DTO
func (l *Link) ToResponse() *LinkResponse {
	return &LinkResponse{
		ID:           l.ID,
		UserID:       l.RequesterID,
		LinkedUserID: l.TargetID,
		Status:       l.Status,
		RequestedAt:  l.RequestedAt.UTC().Format(timeLayout),
		RespondedAt:  formatTime(l.RespondedAt),
	}
}

// ProfileOf builds the public profile of an account
func ProfileOf(a *account.Account) *PublicProfile {
	return &PublicProfile{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
		JCID:     a.PairingCode,
		Role:     a.Role,
	}
}

func (d *LinkedDevice) toResponse() *LinkedDeviceResponse {
	resp := &LinkedDeviceResponse{
		PublicProfile: *ProfileOf(d.Counterpart),
		LinkID:        d.Link.ID,
		IsLocked:      d.IsLocked,
	}
	if d.Counterpart.IsSeller() {
		debt := d.Counterpart.Debt.ToResponse()
		resp.Debt = &debt
	}
	return resp
}

func (p *PendingRequest) toResponse() *PendingRequestResponse {
	return &PendingRequestResponse{
		LinkID:      p.Link.ID,
		RequestedAt: p.Link.RequestedAt.UTC().Format(timeLayout),
		Requester:   ProfileOf(p.Requester),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}
