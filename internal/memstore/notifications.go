package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/paylock/internal/notification"
)

// Notifications is an in-memory notification.Store
type Notifications struct {
	clock *clock
	mu    sync.RWMutex
	rows  []*notification.Notification
}

func (s *Notifications) Create(_ context.Context, recipientID int64, message string, entityType *string, entityID *int64) (*notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := &notification.Notification{
		ID:                int64(len(s.rows) + 1),
		RecipientID:       recipientID,
		Message:           message,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
		CreatedAt:         s.clock.Now(),
	}
	s.rows = append(s.rows, n)
	cp := *n
	return &cp, nil
}

func (s *Notifications) GetByID(_ context.Context, id int64) (*notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || int(id) > len(s.rows) {
		return nil, nil
	}
	cp := *s.rows[id-1]
	return &cp, nil
}

func (s *Notifications) ListByRecipientID(_ context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*notification.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*notification.Notification
	for _, n := range s.rows {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			cp := *n
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *Notifications) ExistsSince(_ context.Context, recipientID int64, entityType string, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.rows {
		if n.RecipientID == recipientID && n.RelatedEntityType != nil &&
			*n.RelatedEntityType == entityType && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Notifications) MarkAsRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id >= 1 && int(id) <= len(s.rows) {
		s.rows[id-1].IsRead = true
	}
	return nil
}

func (s *Notifications) MarkAllAsRead(_ context.Context, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.rows {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (s *Notifications) GetUnreadCount(_ context.Context, recipientID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
