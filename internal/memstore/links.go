package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/paylock/internal/link"
)

type linkRow struct {
	link.Link
}

// Links is an in-memory link.Store
type Links struct {
	clock  *clock
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*linkRow
}

func cloneLink(l *link.Link) *link.Link {
	cp := *l
	if l.Debt != nil {
		d := *l.Debt
		d.PaymentDays = append([]int(nil), l.Debt.PaymentDays...)
		cp.Debt = &d
	}
	return &cp
}

func hasStatus(s link.Status, statuses []link.Status) bool {
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

func between(l *link.Link, a, b int64) bool {
	return (l.RequesterID == a && l.TargetID == b) || (l.RequesterID == b && l.TargetID == a)
}

// newest returns the matching row with the highest id
func (s *Links) newest(match func(*link.Link) bool) *link.Link {
	var best *linkRow
	for _, r := range s.rows {
		if match(&r.Link) && (best == nil || r.ID > best.ID) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return cloneLink(&best.Link)
}

func (s *Links) Create(_ context.Context, requesterID, targetID int64, status link.Status, respondedAt *time.Time) (*link.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.nextID++
	r := &linkRow{Link: link.Link{
		ID:          s.nextID,
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      status,
		RequestedAt: now,
		RespondedAt: respondedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	s.rows[r.ID] = r
	return cloneLink(&r.Link), nil
}

func (s *Links) GetByID(_ context.Context, id int64) (*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rows[id]; ok {
		return cloneLink(&r.Link), nil
	}
	return nil, nil
}

func (s *Links) Get(_ context.Context, requesterID, targetID int64) (*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newest(func(l *link.Link) bool {
		return l.RequesterID == requesterID && l.TargetID == targetID
	}), nil
}

func (s *Links) GetActive(_ context.Context, requesterID, targetID int64) (*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newest(func(l *link.Link) bool {
		return l.RequesterID == requesterID && l.TargetID == targetID && l.Status == link.StatusActive
	}), nil
}

func (s *Links) FindBetween(_ context.Context, a, b int64, statuses []link.Status) (*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newest(func(l *link.Link) bool {
		return between(l, a, b) && hasStatus(l.Status, statuses)
	}), nil
}

func (s *Links) DeleteBetween(_ context.Context, a, b int64, statuses []link.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, r := range s.rows {
		if between(&r.Link, a, b) && (len(statuses) == 0 || hasStatus(r.Status, statuses)) {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *Links) UpdateStatus(_ context.Context, id int64, status link.Status, respondedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rows[id]; ok {
		r.Status = status
		r.RespondedAt = &respondedAt
		r.UpdatedAt = s.clock.Now()
	}
	return nil
}

func (s *Links) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *Links) list(match func(*link.Link) bool) []*link.Link {
	var out []*link.Link
	for _, r := range s.rows {
		if match(&r.Link) {
			out = append(out, cloneLink(&r.Link))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Links) ListActive(_ context.Context, requesterID int64) ([]*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(l *link.Link) bool {
		return l.RequesterID == requesterID && l.Status == link.StatusActive
	}), nil
}

func (s *Links) ListPendingFor(_ context.Context, targetID int64) ([]*link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(l *link.Link) bool {
		return l.TargetID == targetID && l.Status == link.StatusPending
	}), nil
}

func (s *Links) IsActive(_ context.Context, requesterID, targetID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.RequesterID == requesterID && r.TargetID == targetID && r.Status == link.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *Links) UpdateDebtConfig(_ context.Context, id int64, cfg *link.DebtConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return link.ErrLinkNotFound
	}
	d := *cfg
	d.PaymentDays = append([]int(nil), cfg.PaymentDays...)
	r.Debt = &d
	r.UpdatedAt = s.clock.Now()
	return nil
}

// Count returns the number of stored links, whatever their status
func (s *Links) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
