package notification

import "time"

// Notification is a message addressed to one account
type Notification struct {
	ID                int64
	RecipientID       int64
	Message           string
	IsRead            bool
	RelatedEntityType *string
	RelatedEntityID   *int64
	CreatedAt         time.Time
}

// EntityType tags what a notification refers to
type EntityType string

// EntityPaymentReminder marks installment reminders sent to sellers
const EntityPaymentReminder EntityType = "PAYMENT_REMINDER"
