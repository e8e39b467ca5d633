package contact

import "time"

// Contact is a phone number an account marked as an emergency contact
type Contact struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"userId"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	IsEmergency bool      `json:"isEmergency"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
