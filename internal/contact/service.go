package contact

import (
	"context"
	"errors"
	"strings"
	"unicode"
)

// Common errors
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidPhone    = errors.New("phone number must contain digits")
)

// Store is the contact persistence the service needs
type Store interface {
	Upsert(ctx context.Context, accountID int64, name, phone string) (*Contact, error)
	DeleteByPhone(ctx context.Context, accountID int64, phone string) (bool, error)
	Delete(ctx context.Context, accountID, id int64) (bool, error)
	List(ctx context.Context, accountID int64) ([]*Contact, error)
	Count(ctx context.Context, accountID int64) (int, error)
	GetByPhone(ctx context.Context, accountID int64, phone string) (*Contact, error)
}

// Service handles emergency contact business logic
type Service struct {
	store Store
}

// NewService creates a new contact service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NormalizePhone strips everything but digits
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
}

// Toggle marks the number as an emergency contact, or removes it when
// isEmergency is false. The returned contact is nil on removal.
func (s *Service) Toggle(ctx context.Context, accountID int64, req *ToggleRequest) (*Contact, error) {
	phone := NormalizePhone(req.PhoneNumber)
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	if !req.IsEmergency {
		_, err := s.store.DeleteByPhone(ctx, accountID, phone)
		return nil, err
	}
	return s.store.Upsert(ctx, accountID, strings.TrimSpace(req.Name), phone)
}

// List returns the caller's emergency contacts, newest first
func (s *Service) List(ctx context.Context, accountID int64) ([]*Contact, error) {
	return s.store.List(ctx, accountID)
}

// Count returns how many emergency contacts the caller has
func (s *Service) Count(ctx context.Context, accountID int64) (int, error) {
	return s.store.Count(ctx, accountID)
}

// FindByPhone looks a contact up by any formatting of its number
func (s *Service) FindByPhone(ctx context.Context, accountID int64, phone string) (*Contact, error) {
	clean := NormalizePhone(phone)
	if clean == "" {
		return nil, ErrContactNotFound
	}

	c, err := s.store.GetByPhone(ctx, accountID, clean)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	return c, nil
}

// Remove deletes one of the caller's contacts by id
func (s *Service) Remove(ctx context.Context, accountID, id int64) error {
	deleted, err := s.store.Delete(ctx, accountID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrContactNotFound
	}
	return nil
}
