package swap

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for swap requests. The lifecycle engine is
// the only writer; reads outside AcceptExclusive may observe stale state.
type Repository interface {
	Create(ctx context.Context, s *Swap) error
	GetByID(ctx context.Context, id uuid.UUID) (*Swap, error)
	// ListForUser returns swaps where the user is either party, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Swap, error)

	// FindConflicts returns accepted swaps that reference listingA or
	// listingB and whose window overlaps [start, end). Pure read.
	FindConflicts(ctx context.Context, listingA, listingB uuid.UUID, start, end time.Time) ([]*Swap, error)

	// AcceptExclusive runs the locking acceptance protocol in a single
	// transaction: lock the target row, lock every pending swap that
	// conflicts with it, re-check accepted conflicts, then conditionally
	// flip pending to accepted. Returns ErrNotFound, ErrInvalidState,
	// ErrConflict, or ErrTransient.
	AcceptExclusive(ctx context.Context, id uuid.UUID) (*Swap, error)

	// UpdateStatus flips status only if the row is still pending, returning
	// the updated swap. ErrInvalidState if the row was no longer pending.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Swap, error)
}
