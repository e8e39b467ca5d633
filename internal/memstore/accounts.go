package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

type accountRow struct {
	account.Account
}

// Accounts is an in-memory account.Store
type Accounts struct {
	clock  *clock
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*accountRow
}

func cloneAccount(a *account.Account) *account.Account {
	cp := *a
	if a.DeviceInfo != nil {
		cp.DeviceInfo = make(map[string]interface{}, len(a.DeviceInfo))
		for k, v := range a.DeviceInfo {
			cp.DeviceInfo[k] = v
		}
	}
	return &cp
}

func (s *Accounts) find(match func(*account.Account) bool) *account.Account {
	for _, r := range s.rows {
		if match(&r.Account) {
			return cloneAccount(&r.Account)
		}
	}
	return nil
}

func (s *Accounts) Create(_ context.Context, a *account.Account) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rows {
		switch {
		case r.Username == a.Username:
			return nil, account.ErrUsernameTaken
		case r.Phone == a.Phone:
			return nil, account.ErrPhoneTaken
		}
	}

	now := s.clock.Now()
	s.nextID++
	row := &accountRow{Account: *cloneAccount(a)}
	row.ID = s.nextID
	row.CreatedAt = now
	row.UpdatedAt = now
	if row.Role == "" {
		row.Role = account.RoleOwner
	}
	s.rows[row.ID] = row
	return cloneAccount(&row.Account), nil
}

func (s *Accounts) GetByID(_ context.Context, id int64) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rows[id]; ok {
		return cloneAccount(&r.Account), nil
	}
	return nil, nil
}

func (s *Accounts) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(func(a *account.Account) bool { return a.Username == username }), nil
}

func (s *Accounts) GetByPhone(_ context.Context, phone string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(func(a *account.Account) bool { return a.Phone == phone }), nil
}

func (s *Accounts) GetByPairingCode(_ context.Context, code string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(func(a *account.Account) bool { return a.PairingCode == code }), nil
}

func (s *Accounts) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok, nil
}

func (s *Accounts) UpdateDebt(_ context.Context, id int64, d account.DebtSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	r.Debt = d
	r.UpdatedAt = s.clock.Now()
	return nil
}

func (s *Accounts) RegisterDevice(_ context.Context, id int64, deviceID string, info map[string]interface{}, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	r.DeviceID = &deviceID
	r.DeviceInfo = info
	r.DeviceRegisteredAt = &at
	r.UpdatedAt = s.clock.Now()
	return nil
}

func (s *Accounts) ListSellersWithDebt(_ context.Context) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*account.Account{}
	for _, r := range s.rows {
		if r.IsSeller() && r.Debt.Remaining.IsPositive() && r.Debt.NextPaymentAt != nil {
			out = append(out, cloneAccount(&r.Account))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Debt.NextPaymentAt.Before(*out[j].Debt.NextPaymentAt)
	})
	return out, nil
}
