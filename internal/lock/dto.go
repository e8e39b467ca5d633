package lock

import "time"

// LockRequest asks to lock a seller's device
type LockRequest struct {
	VendedorID  int64  `json:"vendedorId" validate:"required,gt=0"`
	LockMessage string `json:"lockMessage,omitempty" validate:"max=500"`
}

// UnlockRequest asks to release a seller's device
type UnlockRequest struct {
	VendedorID int64 `json:"vendedorId" validate:"required,gt=0"`
}

// StatusResponse is the lock state as seen by either side of the pairing
type StatusResponse struct {
	VendedorID  int64   `json:"vendedorId,omitempty"`
	IsLocked    bool    `json:"isLocked"`
	LockMessage string  `json:"lockMessage,omitempty"`
	LockedAt    *string `json:"lockedAt,omitempty"`
	UnlockedAt  *string `json:"unlockedAt,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ToResponse converts a State to the owner-facing StatusResponse
func (s *State) ToResponse() *StatusResponse {
	return &StatusResponse{
		VendedorID:  s.SellerID,
		IsLocked:    s.IsLocked,
		LockMessage: s.Message,
		LockedAt:    formatTime(s.LockedAt),
		UnlockedAt:  formatTime(s.UnlockedAt),
	}
}

// ownResponse is what a seller's device sees; only the message and lock
// time matter to it.
func ownResponse(s *State) *StatusResponse {
	if s == nil || !s.IsLocked {
		return &StatusResponse{IsLocked: false}
	}
	return &StatusResponse{
		IsLocked:    true,
		LockMessage: s.Message,
		LockedAt:    formatTime(s.LockedAt),
	}
}
