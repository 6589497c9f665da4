package swap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents swap request status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts a wire value into a Status.
func ParseStatus(v string) (Status, error) {
	switch Status(strings.ToLower(v)) {
	case StatusPending:
		return StatusPending, nil
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusDeclined:
		return StatusDeclined, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, v)
	}
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined || s == StatusCancelled
}

// MaxNotesLen bounds the free-text message attached to a request.
const MaxNotesLen = 1000

// MinDuration is the shortest permitted exchange window.
const MinDuration = 24 * time.Hour

// Swap represents a proposed reciprocal stay exchange between two listings.
type Swap struct {
	ID                 uuid.UUID `json:"id"`
	RequesterID        uuid.UUID `json:"requesterId"`
	RequestedUserID    uuid.UUID `json:"requestedUserId"`
	RequesterListingID uuid.UUID `json:"requesterListingId"`
	RequestedListingID uuid.UUID `json:"requestedListingId"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Status             Status    `json:"status"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Validate checks the creation-time invariants of a swap request.
// now is the submission time; the exchange window must start after it.
func (s *Swap) Validate(now time.Time) error {
	if s.RequesterID == s.RequestedUserID {
		return fmt.Errorf("%w: cannot request a swap with yourself", ErrInvalidInput)
	}
	if s.RequesterListingID == s.RequestedListingID {
		return fmt.Errorf("%w: cannot swap a listing with itself", ErrInvalidInput)
	}
	if !s.EndDate.After(s.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	if s.EndDate.Sub(s.StartDate) < MinDuration {
		return fmt.Errorf("%w: swap must last at least one day", ErrInvalidInput)
	}
	if !s.StartDate.After(now) {
		return fmt.Errorf("%w: start date must be in the future", ErrInvalidInput)
	}
	if s.Notes != nil && len(*s.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLen)
	}
	return nil
}

// IsParty reports whether userID is one of the two parties to the swap.
func (s *Swap) IsParty(userID uuid.UUID) bool {
	return s.RequesterID == userID || s.RequestedUserID == userID
}

// Counterparty returns the other party of the swap relative to userID.
func (s *Swap) Counterparty(userID uuid.UUID) uuid.UUID {
	if s.RequesterID == userID {
		return s.RequestedUserID
	}
	return s.RequesterID
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A window ending exactly when another starts
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// References reports whether the swap claims listingID on either side.
func (s *Swap) References(listingID uuid.UUID) bool {
	return s.RequesterListingID == listingID || s.RequestedListingID == listingID
}

// SharesListing reports whether the two swaps claim a common listing.
func (s *Swap) SharesListing(other *Swap) bool {
	return s.References(other.RequesterListingID) || s.References(other.RequestedListingID)
}

// ConflictsWith reports whether the two swaps claim a common listing during
// overlapping windows. The relation is symmetric and is the basis of the
// conflict detector; it says nothing about status.
func (s *Swap) ConflictsWith(other *Swap) bool {
	return s.SharesListing(other) && Overlaps(s.StartDate, s.EndDate, other.StartDate, other.EndDate)
}
