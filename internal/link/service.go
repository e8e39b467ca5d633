package link

import (
	"context"
	"errors"
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

// Common errors
var (
	ErrLinkNotFound   = errors.New("link request not found")
	ErrSelfLink       = errors.New("cannot link an account with itself")
	ErrAlreadyLinked  = errors.New("accounts are already linked")
	ErrAlreadyPending = errors.New("a pending request already exists")
	ErrNotTarget      = errors.New("not authorized to answer this request")
	ErrNotPending     = errors.New("link request is no longer pending")
)

// Store is the pairing persistence the service needs
type Store interface {
	Create(ctx context.Context, requesterID, targetID int64, status Status, respondedAt *time.Time) (*Link, error)
	GetByID(ctx context.Context, id int64) (*Link, error)
	Get(ctx context.Context, requesterID, targetID int64) (*Link, error)
	FindBetween(ctx context.Context, a, b int64, statuses []Status) (*Link, error)
	DeleteBetween(ctx context.Context, a, b int64, statuses []Status) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status, respondedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context, requesterID int64) ([]*Link, error)
	ListPendingFor(ctx context.Context, targetID int64) ([]*Link, error)
	IsActive(ctx context.Context, requesterID, targetID int64) (bool, error)
}

// AccountReader resolves accounts by id or pairing code
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
	GetByPairingCode(ctx context.Context, code string) (*account.Account, error)
}

// LockReader reports whether owner currently holds seller locked
type LockReader interface {
	IsLocked(ctx context.Context, ownerID, sellerID int64) (bool, error)
}

// Service handles pairing business logic
type Service struct {
	store    Store
	accounts AccountReader
	locks    LockReader
	now      func() time.Time
}

// NewService creates a new link service. locks may be nil, in which case
// linked devices are always reported unlocked.
func NewService(store Store, accounts AccountReader, locks LockReader) *Service {
	return &Service{store: store, accounts: accounts, locks: locks, now: time.Now}
}

// Request sends a pairing request from the caller to the owner of code
func (s *Service) Request(ctx context.Context, callerID int64, code string) (*Link, *account.Account, error) {
	target, err := s.accounts.GetByPairingCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if target.ID == callerID {
		return nil, nil, ErrSelfLink
	}

	// Stale rejections never block a new request
	if _, err := s.store.DeleteBetween(ctx, callerID, target.ID, []Status{StatusRejected}); err != nil {
		return nil, nil, err
	}

	existing, err := s.store.FindBetween(ctx, callerID, target.ID, []Status{StatusActive, StatusPending})
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if existing.Status == StatusActive {
			return nil, nil, ErrAlreadyLinked
		}
		return nil, nil, ErrAlreadyPending
	}

	l, err := s.store.Create(ctx, callerID, target.ID, StatusPending, nil)
	if err != nil {
		return nil, nil, err
	}
	return l, target, nil
}

// Respond accepts or rejects a pending request addressed to the caller.
// Accepting activates the record and its mirror so both sides see the
// pairing; rejecting deletes the record.
func (s *Service) Respond(ctx context.Context, callerID, linkID int64, accept bool) (*Link, error) {
	l, err := s.store.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLinkNotFound
	}
	if l.TargetID != callerID {
		return nil, ErrNotTarget
	}
	if l.Status != StatusPending {
		return nil, ErrNotPending
	}

	if !accept {
		return nil, s.store.Delete(ctx, l.ID)
	}

	now := s.now()
	if err := s.store.UpdateStatus(ctx, l.ID, StatusActive, now); err != nil {
		return nil, err
	}
	l.Status = StatusActive
	l.RespondedAt = &now

	mirror, err := s.store.Get(ctx, l.TargetID, l.RequesterID)
	if err != nil {
		return nil, err
	}
	if mirror == nil {
		_, err = s.store.Create(ctx, l.TargetID, l.RequesterID, StatusActive, &now)
	} else {
		err = s.store.UpdateStatus(ctx, mirror.ID, StatusActive, now)
	}
	if err != nil {
		return nil, err
	}

	return l, nil
}

// ListDevices returns the caller's active pairings with each counterpart
func (s *Service) ListDevices(ctx context.Context, callerID int64) ([]*LinkedDevice, error) {
	links, err := s.store.ListActive(ctx, callerID)
	if err != nil {
		return nil, err
	}

	devices := make([]*LinkedDevice, 0, len(links))
	for _, l := range links {
		counterpart, err := s.accounts.GetByID(ctx, l.TargetID)
		if errors.Is(err, account.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		d := &LinkedDevice{Link: l, Counterpart: counterpart}
		if s.locks != nil && counterpart.IsSeller() {
			if d.IsLocked, err = s.locks.IsLocked(ctx, callerID, counterpart.ID); err != nil {
				return nil, err
			}
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// ListPending returns requests waiting for the caller's answer
func (s *Service) ListPending(ctx context.Context, callerID int64) ([]*PendingRequest, error) {
	links, err := s.store.ListPendingFor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	pending := make([]*PendingRequest, 0, len(links))
	for _, l := range links {
		requester, err := s.accounts.GetByID(ctx, l.RequesterID)
		if errors.Is(err, account.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		pending = append(pending, &PendingRequest{Link: l, Requester: requester})
	}
	return pending, nil
}

// Unlink deletes every record between the caller and linkedUserID
func (s *Service) Unlink(ctx context.Context, callerID, linkedUserID int64) (int64, error) {
	return s.store.DeleteBetween(ctx, callerID, linkedUserID, nil)
}

// IsActive reports whether an active pairing exists from requester to target
func (s *Service) IsActive(ctx context.Context, requesterID, targetID int64) (bool, error) {
	return s.store.IsActive(ctx, requesterID, targetID)
}

// ActiveCounterparts returns the ids of every account the caller is
// actively paired with.
func (s *Service) ActiveCounterparts(ctx context.Context, callerID int64) ([]int64, error) {
	links, err := s.store.ListActive(ctx, callerID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TargetID)
	}
	return ids, nil
}
