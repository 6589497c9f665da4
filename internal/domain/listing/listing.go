package listing

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_directory.go -package=mocks . Directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a listing id is unknown.
var ErrNotFound = errors.New("listing not found")

// Listing is the read-only view of a listing the swap engine consumes.
// Listing CRUD lives outside this service.
type Listing struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"ownerId"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	City     string    `json:"city"`
	Country  string    `json:"country"`
	IsActive bool      `json:"isActive"`
}

// Summary is the subset embedded in swap responses for display.
type Summary struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Type    string    `json:"type"`
	City    string    `json:"city"`
	Country string    `json:"country"`
}

// Summary projects the display fields of a listing.
func (l *Listing) Summary() Summary {
	return Summary{ID: l.ID, Title: l.Title, Type: l.Type, City: l.City, Country: l.Country}
}

// Directory resolves listing ownership and active status.
type Directory interface {
	Get(ctx context.Context, id uuid.UUID) (*Listing, error)
}
