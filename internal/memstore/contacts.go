package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/fkhayef/paylock/internal/contact"
)

type contactRow struct {
	contact.Contact
}

// Contacts is an in-memory contact.Store
type Contacts struct {
	clock  *clock
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*contactRow
}

func (s *Contacts) find(accountID int64, phone string) *contactRow {
	for _, r := range s.rows {
		if r.AccountID == accountID && r.PhoneNumber == phone {
			return r
		}
	}
	return nil
}

func (s *Contacts) Upsert(_ context.Context, accountID int64, name, phone string) (*contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	r := s.find(accountID, phone)
	if r == nil {
		s.nextID++
		r = &contactRow{Contact: contact.Contact{ID: s.nextID, AccountID: accountID, PhoneNumber: phone, CreatedAt: now}}
		s.rows[r.ID] = r
	}
	r.Name = name
	r.IsEmergency = true
	r.UpdatedAt = now
	c := r.Contact
	return &c, nil
}

func (s *Contacts) DeleteByPhone(_ context.Context, accountID int64, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.find(accountID, phone); r != nil {
		delete(s.rows, r.ID)
		return true, nil
	}
	return false, nil
}

func (s *Contacts) Delete(_ context.Context, accountID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rows[id]; ok && r.AccountID == accountID {
		delete(s.rows, id)
		return true, nil
	}
	return false, nil
}

func (s *Contacts) List(_ context.Context, accountID int64) ([]*contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*contact.Contact{}
	for _, r := range s.rows {
		if r.AccountID == accountID && r.IsEmergency {
			c := r.Contact
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Contacts) Count(ctx context.Context, accountID int64) (int, error) {
	list, err := s.List(ctx, accountID)
	return len(list), err
}

func (s *Contacts) GetByPhone(_ context.Context, accountID int64, phone string) (*contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r := s.find(accountID, phone); r != nil && r.IsEmergency {
		c := r.Contact
		return &c, nil
	}
	return nil, nil
}
