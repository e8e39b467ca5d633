package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/paylock/internal/debt/schedule"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Store is the notification persistence the service needs
type Store interface {
	Create(ctx context.Context, recipientID int64, message string, entityType *string, entityID *int64) (*Notification, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	ExistsSince(ctx context.Context, recipientID int64, entityType string, since time.Time) (bool, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) error
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
}

// Service handles notification business logic
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create creates a new notification
func (s *Service) Create(ctx context.Context, recipientID int64, message string, entityType *string, entityID *int64) (*Notification, error) {
	return s.repo.Create(ctx, recipientID, message, entityType, entityID)
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves a page of notifications for an account
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for an account
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// NotifyPaymentDue creates a reminder for a seller whose installment is due
// soon, unless one was already sent since the given time.
func (s *Service) NotifyPaymentDue(ctx context.Context, sellerID int64, kind string, amount decimal.Decimal, since time.Time) (*Notification, error) {
	entityType := string(EntityPaymentReminder)
	sent, err := s.repo.ExistsSince(ctx, sellerID, entityType, since)
	if err != nil {
		return nil, err
	}
	if sent {
		return nil, nil
	}
	return s.repo.Create(ctx, sellerID, reminderMessage(kind, amount), &entityType, &sellerID)
}

func reminderMessage(kind string, amount decimal.Decimal) string {
	switch kind {
	case schedule.ReminderTwoDays:
		return fmt.Sprintf("Your installment of %s is due in 2 days", amount.StringFixed(2))
	case schedule.ReminderOneDay:
		return fmt.Sprintf("Your installment of %s is due tomorrow", amount.StringFixed(2))
	default:
		return fmt.Sprintf("Your installment of %s is due today", amount.StringFixed(2))
	}
}
