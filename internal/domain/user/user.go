package user

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_directory.go -package=mocks . Directory,Entitlements

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user id is unknown.
var ErrNotFound = errors.New("user not found")

// SubscriptionStatus mirrors the billing provider's subscription state.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// User is the read-only view of an account the swap engine consumes.
// Registration and billing live outside this service.
type User struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	AvatarURL          *string            `json:"avatarUrl,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
}

// Summary is the subset embedded in swap responses for display.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// Summary projects the display fields of a user.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// Subscribed reports whether the user currently holds swap entitlement.
// Trialing counts.
func (u *User) Subscribed() bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionTrialing
}

// Directory resolves user display data.
type Directory interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)
}

// Entitlements answers subscription checks that gate swap creation and
// acceptance.
type Entitlements interface {
	IsSubscribed(ctx context.Context, userID uuid.UUID) (bool, error)
}
