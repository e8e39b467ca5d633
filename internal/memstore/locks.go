package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/paylock/internal/lock"
)

type lockRow struct {
	lock.State
}

// Locks is an in-memory lock.Store
type Locks struct {
	clock  *clock
	mu     sync.RWMutex
	nextID int64
	rows   map[pair]*lockRow
}

func cloneState(s *lock.State) *lock.State {
	cp := *s
	return &cp
}

func (s *Locks) Lock(_ context.Context, ownerID, sellerID int64, message string, at time.Time) (*lock.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	key := pair{ownerID, sellerID}
	r, ok := s.rows[key]
	if !ok {
		s.nextID++
		r = &lockRow{State: lock.State{ID: s.nextID, OwnerID: ownerID, SellerID: sellerID, CreatedAt: now}}
		s.rows[key] = r
	}
	r.IsLocked = true
	r.Message = message
	r.LockedAt = &at
	r.UnlockedAt = nil
	r.UpdatedAt = now
	return cloneState(&r.State), nil
}

func (s *Locks) Unlock(_ context.Context, ownerID, sellerID int64, at time.Time) (*lock.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[pair{ownerID, sellerID}]
	if !ok {
		return nil, nil
	}
	if r.IsLocked {
		r.UnlockedAt = &at
	}
	r.IsLocked = false
	r.UpdatedAt = s.clock.Now()
	return cloneState(&r.State), nil
}

func (s *Locks) Get(_ context.Context, ownerID, sellerID int64) (*lock.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rows[pair{ownerID, sellerID}]; ok {
		return cloneState(&r.State), nil
	}
	return nil, nil
}

func (s *Locks) ListLockedForSeller(_ context.Context, sellerID int64) ([]*lock.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*lock.State
	for _, r := range s.rows {
		if r.SellerID == sellerID && r.IsLocked {
			out = append(out, cloneState(&r.State))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LockedAt.After(*out[j].LockedAt) })
	return out, nil
}
