package lock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

// Common errors
var (
	ErrNotOwner     = errors.New("only owners can lock devices")
	ErrNotSeller    = errors.New("target account must be a seller")
	ErrNotLinked    = errors.New("no active link with this account")
	ErrLockNotFound = errors.New("no lock information found")
)

// Store is the lock-state persistence the service needs
type Store interface {
	Lock(ctx context.Context, ownerID, sellerID int64, message string, at time.Time) (*State, error)
	Unlock(ctx context.Context, ownerID, sellerID int64, at time.Time) (*State, error)
	Get(ctx context.Context, ownerID, sellerID int64) (*State, error)
	ListLockedForSeller(ctx context.Context, sellerID int64) ([]*State, error)
}

// AccountReader resolves accounts by id
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
}

// PairingChecker reports whether an active pairing exists
type PairingChecker interface {
	IsActive(ctx context.Context, requesterID, targetID int64) (bool, error)
}

// Service implements the remote lock state machine. Each (owner, seller)
// pair is either unlocked or locked; both transitions are idempotent.
type Service struct {
	store    Store
	accounts AccountReader
	pairings PairingChecker
	now      func() time.Time
}

// NewService creates a new lock service
func NewService(store Store, accounts AccountReader, pairings PairingChecker) *Service {
	return &Service{store: store, accounts: accounts, pairings: pairings, now: time.Now}
}

// SetLock locks the seller's device on behalf of the owner. Locking an
// already locked device refreshes its message and lock time.
func (s *Service) SetLock(ctx context.Context, ownerID, sellerID int64, message string) (*State, error) {
	owner, err := s.accounts.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsOwner() {
		return nil, ErrNotOwner
	}

	seller, err := s.accounts.GetByID(ctx, sellerID)
	if errors.Is(err, account.ErrAccountNotFound) {
		return nil, ErrNotSeller
	}
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, ErrNotSeller
	}

	active, err := s.pairings.IsActive(ctx, ownerID, sellerID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotLinked
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultMessage
	}
	return s.store.Lock(ctx, ownerID, sellerID, message, s.now())
}

// ClearLock releases the seller's device. It needs an existing lock row
// for the pair; clearing an unlocked row is a successful no-op.
func (s *Service) ClearLock(ctx context.Context, ownerID, sellerID int64) (*State, error) {
	state, err := s.store.Unlock(ctx, ownerID, sellerID, s.now())
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrLockNotFound
	}
	return state, nil
}

// QueryOwnLockState is polled by a seller's device. Owners are never
// locked, and a lock only counts while its pairing is still active.
func (s *Service) QueryOwnLockState(ctx context.Context, callerID int64) (*State, error) {
	caller, err := s.accounts.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.IsOwner() {
		return &State{SellerID: callerID}, nil
	}

	states, err := s.store.ListLockedForSeller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	for _, st := range states {
		active, err := s.pairings.IsActive(ctx, st.OwnerID, callerID)
		if err != nil {
			return nil, err
		}
		if active {
			return st, nil
		}
	}
	return &State{SellerID: callerID}, nil
}

// QueryLockStateFor returns the owner's lock row for the seller, or an
// unlocked default when none was ever created.
func (s *Service) QueryLockStateFor(ctx context.Context, ownerID, sellerID int64) (*State, error) {
	state, err := s.store.Get(ctx, ownerID, sellerID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return &State{OwnerID: ownerID, SellerID: sellerID}, nil
	}
	return state, nil
}

// IsLocked reports whether the owner currently holds the seller locked
func (s *Service) IsLocked(ctx context.Context, ownerID, sellerID int64) (bool, error) {
	state, err := s.QueryLockStateFor(ctx, ownerID, sellerID)
	if err != nil {
		return false, err
	}
	return state.IsLocked, nil
}
