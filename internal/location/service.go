package location

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

var ErrNotOwner = errors.New("only owners can view locked sellers' locations")

// Store persists the latest sample per account
type Store interface {
	Put(ctx context.Context, sample *Sample) error
	GetMany(ctx context.Context, accountIDs []int64) (map[int64]*Sample, error)
}

// PairingLister lists the accounts a caller is actively paired with
type PairingLister interface {
	ActiveCounterparts(ctx context.Context, callerID int64) ([]int64, error)
}

// AccountReader resolves accounts by id
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
}

// LockReader reports whether owner currently holds seller locked
type LockReader interface {
	IsLocked(ctx context.Context, ownerID, sellerID int64) (bool, error)
}

// Service handles location reporting and lookup
type Service struct {
	store    Store
	pairings PairingLister
	accounts AccountReader
	locks    LockReader
	now      func() time.Time
}

// NewService creates a new location service
func NewService(store Store, pairings PairingLister, accounts AccountReader, locks LockReader) *Service {
	return &Service{store: store, pairings: pairings, accounts: accounts, locks: locks, now: time.Now}
}

// Update overwrites the caller's latest sample
func (s *Service) Update(ctx context.Context, callerID int64, req *UpdateRequest) (*Sample, error) {
	sample := &Sample{
		AccountID:    callerID,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Address:      strings.TrimSpace(req.Address),
		Accuracy:     req.Accuracy,
		BatteryLevel: req.BatteryLevel,
		IsCharging:   req.IsCharging,
		Timestamp:    s.now().UTC(),
	}
	if err := s.store.Put(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// entries builds one Entry per linked account, with lock state resolved
// from the caller's side.
func (s *Service) entries(ctx context.Context, callerID int64) ([]*Entry, error) {
	ids, err := s.pairings.ActiveCounterparts(ctx, callerID)
	if err != nil {
		return nil, err
	}

	samples, err := s.store.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		a, err := s.accounts.GetByID(ctx, id)
		if errors.Is(err, account.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		e := &Entry{Account: a, Sample: samples[id]}
		if a.IsSeller() {
			if e.IsLocked, err = s.locks.IsLocked(ctx, callerID, id); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListLinked returns the positions of every account linked to the caller
// that reported one within the retention window.
func (s *Service) ListLinked(ctx context.Context, callerID int64) ([]*Entry, error) {
	all, err := s.entries(ctx, callerID)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if e.Sample != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListBlocked returns the owner's currently locked sellers with their last
// known position, which may be nil.
func (s *Service) ListBlocked(ctx context.Context, ownerID int64) ([]*Entry, error) {
	owner, err := s.accounts.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsOwner() {
		return nil, ErrNotOwner
	}

	all, err := s.entries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if e.IsLocked {
			out = append(out, e)
		}
	}
	return out, nil
}
