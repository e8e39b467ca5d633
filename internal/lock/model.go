package lock

import "time"

// DefaultMessage is shown on the locked device when the owner gives none
const DefaultMessage = "This device has been locked"

// State is the lock flag an owner holds over one seller's device
type State struct {
	ID         int64
	OwnerID    int64
	SellerID   int64
	IsLocked   bool
	Message    string
	LockedAt   *time.Time
	UnlockedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
