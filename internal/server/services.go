package server

import (
	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/auth"
	"github.com/fkhayef/paylock/internal/contact"
	"github.com/fkhayef/paylock/internal/debt"
	"github.com/fkhayef/paylock/internal/debt/schedule"
	"github.com/fkhayef/paylock/internal/link"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/lock"
	"github.com/fkhayef/paylock/internal/notification"
)

// LinkStore is the pairing persistence shared by the link and debt features
type LinkStore interface {
	link.Store
	debt.LinkStore
}

// Stores are the persistence backends the features run on
type Stores struct {
	Accounts      account.Store
	Links         LinkStore
	Locks         lock.Store
	Locations     location.Store
	Contacts      contact.Store
	Notifications notification.Store
}

// Services holds one service per feature, wired to each other
type Services struct {
	Tokens        *auth.TokenManager
	Accounts      *account.Service
	Links         *link.Service
	Locks         *lock.Service
	Locations     *location.Service
	Debts         *debt.Service
	Contacts      *contact.Service
	Notifications *notification.Service
}

// NewServices wires the feature services. The lock service checks pairings
// against the link store directly so the link service can in turn report
// lock state for linked devices.
func NewServices(s Stores, tokens *auth.TokenManager) *Services {
	accounts := account.NewService(s.Accounts, tokens)
	locks := lock.NewService(s.Locks, accounts, s.Links)
	links := link.NewService(s.Links, accounts, locks)

	return &Services{
		Tokens:        tokens,
		Accounts:      accounts,
		Links:         links,
		Locks:         locks,
		Locations:     location.NewService(s.Locations, links, accounts, locks),
		Debts:         debt.NewService(s.Links, accounts, schedule.NewFactory()),
		Contacts:      contact.NewService(s.Contacts),
		Notifications: notification.NewService(s.Notifications),
	}
}

// Handlers builds the HTTP handlers for every feature
func (s *Services) Handlers() Handlers {
	return Handlers{
		Accounts:      account.NewHandler(s.Accounts),
		Links:         link.NewHandler(s.Links),
		Locations:     location.NewHandler(s.Locations),
		Debts:         debt.NewHandler(s.Debts),
		Locks:         lock.NewHandler(s.Locks),
		Contacts:      contact.NewHandler(s.Contacts),
		Notifications: notification.NewHandler(s.Notifications),
	}
}
