package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roamswap/roamswap/internal/domain/swap"
)

// SwapRepository is an in-memory swap.Repository. One mutex serializes every
// mutation, so AcceptExclusive gives the same mutual-exclusion guarantee as
// the postgres row-locking protocol. Used in tests and local development.
type SwapRepository struct {
	mu    sync.Mutex
	swaps map[uuid.UUID]*swap.Swap
}

func NewSwapRepository() *SwapRepository {
	return &SwapRepository{swaps: make(map[uuid.UUID]*swap.Swap)}
}

func (r *SwapRepository) Create(_ context.Context, s *swap.Swap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.swaps[s.ID]; exists {
		return fmt.Errorf("swap %s already exists", s.ID)
	}
	r.swaps[s.ID] = clone(s)
	return nil
}

func (r *SwapRepository) GetByID(_ context.Context, id uuid.UUID) (*swap.Swap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.swaps[id]
	if !ok {
		return nil, nil
	}
	return clone(s), nil
}

func (r *SwapRepository) ListForUser(_ context.Context, userID uuid.UUID) ([]*swap.Swap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*swap.Swap
	for _, s := range r.swaps {
		if s.RequesterID == userID || s.RequestedUserID == userID {
			results = append(results, clone(s))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (r *SwapRepository) FindConflicts(_ context.Context, listingA, listingB uuid.UUID, start, end time.Time) ([]*swap.Swap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findConflictsLocked(listingA, listingB, start, end), nil
}

func (r *SwapRepository) AcceptExclusive(_ context.Context, id uuid.UUID) (*swap.Swap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.swaps[id]
	if !ok {
		return nil, swap.ErrNotFound
	}
	if target.Status != swap.StatusPending {
		return nil, fmt.Errorf("%w: current status is %q", swap.ErrInvalidState, target.Status)
	}
	conflicts := r.findConflictsLocked(target.RequesterListingID, target.RequestedListingID, target.StartDate, target.EndDate)
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d overlapping accepted swap(s)", swap.ErrConflict, len(conflicts))
	}
	target.Status = swap.StatusAccepted
	target.UpdatedAt = time.Now().UTC()
	return clone(target), nil
}

func (r *SwapRepository) UpdateStatus(_ context.Context, id uuid.UUID, status swap.Status) (*swap.Swap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.swaps[id]
	if !ok {
		return nil, swap.ErrNotFound
	}
	if s.Status != swap.StatusPending {
		return nil, fmt.Errorf("%w: current status is %q", swap.ErrInvalidState, s.Status)
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return clone(s), nil
}

// findConflictsLocked scans accepted swaps touching either listing with an
// overlapping window. Caller holds r.mu.
func (r *SwapRepository) findConflictsLocked(listingA, listingB uuid.UUID, start, end time.Time) []*swap.Swap {
	candidate := &swap.Swap{
		RequesterListingID: listingA,
		RequestedListingID: listingB,
		StartDate:          start,
		EndDate:            end,
	}
	var conflicts []*swap.Swap
	for _, s := range r.swaps {
		if s.Status == swap.StatusAccepted && s.ConflictsWith(candidate) {
			conflicts = append(conflicts, clone(s))
		}
	}
	return conflicts
}

func clone(s *swap.Swap) *swap.Swap {
	c := *s
	if s.Notes != nil {
		notes := *s.Notes
		c.Notes = &notes
	}
	return &c
}
