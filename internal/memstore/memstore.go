// Package memstore holds in-memory implementations of the feature stores.
// They follow the SQL repositories' contracts (nil, nil for missing rows,
// sentinel errors for unique violations) and are used to run services and
// the full router without a database.
package memstore

import (
	"sync"
	"time"
)

// Stores bundles one of each in-memory store sharing a clock
type Stores struct {
	Accounts      *Accounts
	Links         *Links
	Locks         *Locks
	Contacts      *Contacts
	Notifications *Notifications
}

// New creates an empty set of stores
func New() *Stores {
	c := &clock{now: time.Now}
	return &Stores{
		Accounts:      &Accounts{clock: c, rows: map[int64]*accountRow{}},
		Links:         &Links{clock: c, rows: map[int64]*linkRow{}},
		Locks:         &Locks{clock: c, rows: map[pair]*lockRow{}},
		Contacts:      &Contacts{clock: c, rows: map[int64]*contactRow{}},
		Notifications: &Notifications{clock: c},
	}
}

// SetClock replaces the time source used for created/updated stamps
func (s *Stores) SetClock(now func() time.Time) {
	s.Accounts.clock.set(now)
}

type clock struct {
	mu  sync.Mutex
	now func() time.Time
}

func (c *clock) set(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

type pair struct {
	owner, seller int64
}
