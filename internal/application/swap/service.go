package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roamswap/roamswap/internal/domain/listing"
	"github.com/roamswap/roamswap/internal/domain/notification"
	domainSwap "github.com/roamswap/roamswap/internal/domain/swap"
	"github.com/roamswap/roamswap/internal/domain/user"
)

// Service is the swap lifecycle engine. It is the only component with write
// access to swap storage; listings and users are read through directories.
type Service struct {
	swapRepo domainSwap.Repository
	listings listing.Directory
	users    user.Directory
	sink     notification.Sink
	logger   zerolog.Logger
}

// NewService creates a swap lifecycle service.
func NewService(
	swapRepo domainSwap.Repository,
	listings listing.Directory,
	users user.Directory,
	sink notification.Sink,
	logger zerolog.Logger,
) *Service {
	return &Service{
		swapRepo: swapRepo,
		listings: listings,
		users:    users,
		sink:     sink,
		logger:   logger.With().Str("service", "swap").Logger(),
	}
}

// CreateInput carries a swap creation request.
type CreateInput struct {
	RequesterID        uuid.UUID
	RequestedUserID    uuid.UUID
	RequesterListingID uuid.UUID
	RequestedListingID uuid.UUID
	StartDate          time.Time
	EndDate            time.Time
	Notes              *string
}

// Details is a swap with party and listing summaries resolved for display.
type Details struct {
	domainSwap.Swap
	Requester        user.Summary    `json:"requester"`
	RequestedUser    user.Summary    `json:"requestedUser"`
	RequesterListing listing.Summary `json:"requesterListing"`
	RequestedListing listing.Summary `json:"requestedListing"`
}

// CreateResult is the created swap plus any accepted swaps that already
// claim one of the listings during the window. Conflicts are advisory at
// creation time; the exclusive claim is only taken at acceptance.
type CreateResult struct {
	*Details
	ConflictWarnings []*domainSwap.Swap `json:"conflictWarnings,omitempty"`
}

// Create validates and persists a new pending swap request.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	now := time.Now().UTC()
	sw := &domainSwap.Swap{
		ID:                 uuid.New(),
		RequesterID:        in.RequesterID,
		RequestedUserID:    in.RequestedUserID,
		RequesterListingID: in.RequesterListingID,
		RequestedListingID: in.RequestedListingID,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		Status:             domainSwap.StatusPending,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := sw.Validate(now); err != nil {
		return nil, err
	}

	offered, err := s.getListing(ctx, in.RequesterListingID)
	if err != nil {
		return nil, err
	}
	if offered.OwnerID != in.RequesterID {
		return nil, fmt.Errorf("%w: you do not own the offered listing", domainSwap.ErrNotAuthorized)
	}
	if !offered.IsActive {
		return nil, fmt.Errorf("%w: offered listing is not active", domainSwap.ErrInvalidInput)
	}

	requested, err := s.getListing(ctx, in.RequestedListingID)
	if err != nil {
		return nil, err
	}
	if requested.OwnerID != in.RequestedUserID {
		return nil, fmt.Errorf("%w: requested listing does not belong to that user", domainSwap.ErrNotAuthorized)
	}
	if !requested.IsActive {
		return nil, fmt.Errorf("%w: requested listing is not active", domainSwap.ErrInvalidInput)
	}

	// Advisory only: competing pending requests for the same window are
	// allowed, the race is resolved at acceptance.
	warnings, err := s.swapRepo.FindConflicts(ctx, in.RequesterListingID, in.RequestedListingID, in.StartDate, in.EndDate)
	if err != nil {
		s.logger.Warn().Err(err).Msg("advisory conflict check failed")
		warnings = nil
	}

	if err := s.swapRepo.Create(ctx, sw); err != nil {
		return nil, err
	}

	s.sink.Notify(ctx, notification.New(
		sw.RequestedUserID,
		notification.EventSwapRequestReceived,
		"New Swap Request",
		"Someone wants to swap with your property!",
		sw.ID,
	))

	details, err := s.hydrate(ctx, sw)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("swap_id", sw.ID.String()).
		Str("requester_id", sw.RequesterID.String()).
		Int("conflict_warnings", len(warnings)).
		Msg("swap request created")
	return &CreateResult{Details: details, ConflictWarnings: warnings}, nil
}

// Get returns a swap with display summaries. Only the two parties may read it.
func (s *Service) Get(ctx context.Context, swapID, actorID uuid.UUID) (*Details, error) {
	sw, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if sw == nil {
		return nil, domainSwap.ErrNotFound
	}
	if !sw.IsParty(actorID) {
		return nil, fmt.Errorf("%w: user is not a party to this swap", domainSwap.ErrNotAuthorized)
	}
	return s.hydrate(ctx, sw)
}

// ListForUser returns every swap the user participates in, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Details, error) {
	swaps, err := s.swapRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make([]*Details, 0, len(swaps))
	for _, sw := range swaps {
		d, err := s.hydrate(ctx, sw)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, nil
}

// FindConflicts exposes the conflict detector as a pure read.
func (s *Service) FindConflicts(ctx context.Context, listingA, listingB uuid.UUID, start, end time.Time) ([]*domainSwap.Swap, error) {
	return s.swapRepo.FindConflicts(ctx, listingA, listingB, start, end)
}

// Transition moves a swap to target on behalf of actorID, enforcing the
// state machine's authorization rules.
func (s *Service) Transition(ctx context.Context, swapID, actorID uuid.UUID, target domainSwap.Status) (*Details, error) {
	sw, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if sw == nil {
		return nil, domainSwap.ErrNotFound
	}
	if err := domainSwap.Authorize(sw, actorID, target); err != nil {
		return nil, err
	}

	switch target {
	case domainSwap.StatusAccepted:
		return s.accept(ctx, sw)
	case domainSwap.StatusDeclined:
		return s.decline(ctx, sw)
	default:
		return s.cancel(ctx, sw)
	}
}

// accept runs the concurrency-critical path. The authorization check above
// ran on a possibly stale read; AcceptExclusive re-validates status under a
// row lock, so a competing acceptance that commits first surfaces here as
// ErrInvalidState or ErrConflict.
func (s *Service) accept(ctx context.Context, sw *domainSwap.Swap) (*Details, error) {
	for _, id := range []uuid.UUID{sw.RequesterListingID, sw.RequestedListingID} {
		l, err := s.getListing(ctx, id)
		if err != nil {
			if errors.Is(err, domainSwap.ErrNotFound) {
				return nil, fmt.Errorf("%w: listing is no longer available", domainSwap.ErrInvalidState)
			}
			return nil, err
		}
		if !l.IsActive {
			return nil, fmt.Errorf("%w: listing is no longer active", domainSwap.ErrInvalidState)
		}
	}

	updated, err := s.swapRepo.AcceptExclusive(ctx, sw.ID)
	if err != nil {
		return nil, err
	}

	details, err := s.hydrate(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.sink.Notify(ctx, notification.New(
		updated.RequesterID,
		notification.EventSwapRequestAccepted,
		"Swap Request Accepted!",
		fmt.Sprintf("Your swap request for %s has been accepted!", details.RequestedListing.Title),
		updated.ID,
	))
	s.sink.Notify(ctx, notification.New(
		updated.RequestedUserID,
		notification.EventSwapRequestAccepted,
		"Swap Confirmed",
		fmt.Sprintf("You accepted the swap for %s.", details.RequesterListing.Title),
		updated.ID,
	))
	s.logger.Info().Str("swap_id", updated.ID.String()).Msg("swap accepted")
	return details, nil
}

func (s *Service) decline(ctx context.Context, sw *domainSwap.Swap) (*Details, error) {
	updated, err := s.swapRepo.UpdateStatus(ctx, sw.ID, domainSwap.StatusDeclined)
	if err != nil {
		return nil, err
	}
	details, err := s.hydrate(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.sink.Notify(ctx, notification.New(
		updated.RequesterID,
		notification.EventSwapRequestDeclined,
		"Swap Request Declined",
		fmt.Sprintf("Your swap request for %s has been declined.", details.RequestedListing.Title),
		updated.ID,
	))
	s.logger.Info().Str("swap_id", updated.ID.String()).Msg("swap declined")
	return details, nil
}

func (s *Service) cancel(ctx context.Context, sw *domainSwap.Swap) (*Details, error) {
	updated, err := s.swapRepo.UpdateStatus(ctx, sw.ID, domainSwap.StatusCancelled)
	if err != nil {
		return nil, err
	}
	details, err := s.hydrate(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.sink.Notify(ctx, notification.New(
		updated.RequesterID,
		notification.EventSwapCancelled,
		"Swap Cancelled",
		fmt.Sprintf("The swap for %s has been cancelled.", details.RequestedListing.Title),
		updated.ID,
	))
	s.sink.Notify(ctx, notification.New(
		updated.RequestedUserID,
		notification.EventSwapCancelled,
		"Swap Cancelled",
		fmt.Sprintf("The swap for %s has been cancelled.", details.RequesterListing.Title),
		updated.ID,
	))
	s.logger.Info().Str("swap_id", updated.ID.String()).Msg("swap cancelled")
	return details, nil
}

func (s *Service) getListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := s.listings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing %s", domainSwap.ErrNotFound, id)
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) hydrate(ctx context.Context, sw *domainSwap.Swap) (*Details, error) {
	requester, err := s.users.Get(ctx, sw.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("resolve requester: %w", err)
	}
	requestedUser, err := s.users.Get(ctx, sw.RequestedUserID)
	if err != nil {
		return nil, fmt.Errorf("resolve requested user: %w", err)
	}
	offered, err := s.listings.Get(ctx, sw.RequesterListingID)
	if err != nil {
		return nil, fmt.Errorf("resolve offered listing: %w", err)
	}
	requested, err := s.listings.Get(ctx, sw.RequestedListingID)
	if err != nil {
		return nil, fmt.Errorf("resolve requested listing: %w", err)
	}
	return &Details{
		Swap:             *sw,
		Requester:        requester.Summary(),
		RequestedUser:    requestedUser.Summary(),
		RequesterListing: offered.Summary(),
		RequestedListing: requested.Summary(),
	}, nil
}
