package notification

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a swap request.
type EventType string

const (
	EventSwapRequestReceived EventType = "swap_request_received"
	EventSwapRequestAccepted EventType = "swap_request_accepted"
	EventSwapRequestDeclined EventType = "swap_request_declined"
	EventSwapCancelled       EventType = "swap_cancelled"
)

// Notification is an in-app message about a swap state transition.
// Delivery is fire-and-forget: losing one never rolls back a swap.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Type      EventType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	SwapID    uuid.UUID `json:"swapId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// New creates an unread notification for userID about swapID.
func New(userID uuid.UUID, eventType EventType, title, message string, swapID uuid.UUID) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      eventType,
		Title:     title,
		Message:   message,
		SwapID:    swapID,
		CreatedAt: time.Now().UTC(),
	}
}
