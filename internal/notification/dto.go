package notification

import "time"

// ItemResponse is one entry of the caller's notification feed
type ItemResponse struct {
	ID         int64   `json:"id"`
	Message    string  `json:"message"`
	IsRead     bool    `json:"isRead"`
	EntityType *string `json:"entityType,omitempty"`
	EntityID   *int64  `json:"entityId,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// UnreadCountResponse is the number of unread notifications
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// ToResponse converts a Notification to its feed entry
func (n *Notification) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:         n.ID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		EntityType: n.RelatedEntityType,
		EntityID:   n.RelatedEntityID,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
