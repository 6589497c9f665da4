package swap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roamswap/roamswap/internal/domain/listing"
	listingMocks "github.com/roamswap/roamswap/internal/domain/listing/mocks"
	notificationMocks "github.com/roamswap/roamswap/internal/domain/notification/mocks"
	domainSwap "github.com/roamswap/roamswap/internal/domain/swap"
	swapMocks "github.com/roamswap/roamswap/internal/domain/swap/mocks"
	"github.com/roamswap/roamswap/internal/domain/user"
	userMocks "github.com/roamswap/roamswap/internal/domain/user/mocks"
)

type fixture struct {
	repo     *swapMocks.MockRepository
	listings *listingMocks.MockDirectory
	users    *userMocks.MockDirectory
	sink     *notificationMocks.MockSink
	svc      *Service

	requesterID     uuid.UUID
	requestedUserID uuid.UUID
	offeredID       uuid.UUID
	requestedID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:            swapMocks.NewMockRepository(ctrl),
		listings:        listingMocks.NewMockDirectory(ctrl),
		users:           userMocks.NewMockDirectory(ctrl),
		sink:            notificationMocks.NewMockSink(ctrl),
		requesterID:     uuid.New(),
		requestedUserID: uuid.New(),
		offeredID:       uuid.New(),
		requestedID:     uuid.New(),
	}
	f.svc = NewService(f.repo, f.listings, f.users, f.sink, zerolog.Nop())
	return f
}

func (f *fixture) offeredListing() *listing.Listing {
	return &listing.Listing{ID: f.offeredID, OwnerID: f.requesterID, Title: "Coastal Caravan", Type: "caravan", City: "Whitby", Country: "UK", IsActive: true}
}

func (f *fixture) requestedListing() *listing.Listing {
	return &listing.Listing{ID: f.requestedID, OwnerID: f.requestedUserID, Title: "Forest Cabin", Type: "cabin", City: "Inverness", Country: "UK", IsActive: true}
}

func (f *fixture) expectHydrate() {
	f.users.EXPECT().Get(gomock.Any(), f.requesterID).Return(&user.User{ID: f.requesterID, Name: "Ann"}, nil)
	f.users.EXPECT().Get(gomock.Any(), f.requestedUserID).Return(&user.User{ID: f.requestedUserID, Name: "Ben"}, nil)
	f.listings.EXPECT().Get(gomock.Any(), f.offeredID).Return(f.offeredListing(), nil)
	f.listings.EXPECT().Get(gomock.Any(), f.requestedID).Return(f.requestedListing(), nil)
}

func (f *fixture) createInput() CreateInput {
	now := time.Now().UTC()
	return CreateInput{
		RequesterID:        f.requesterID,
		RequestedUserID:    f.requestedUserID,
		RequesterListingID: f.offeredID,
		RequestedListingID: f.requestedID,
		StartDate:          now.Add(48 * time.Hour),
		EndDate:            now.Add(7 * 24 * time.Hour),
	}
}

func (f *fixture) pendingSwap() *domainSwap.Swap {
	now := time.Now().UTC()
	return &domainSwap.Swap{
		ID:                 uuid.New(),
		RequesterID:        f.requesterID,
		RequestedUserID:    f.requestedUserID,
		RequesterListingID: f.offeredID,
		RequestedListingID: f.requestedID,
		StartDate:          now.Add(48 * time.Hour),
		EndDate:            now.Add(7 * 24 * time.Hour),
		Status:             domainSwap.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(f.offeredListing(), nil)
		f.listings.EXPECT().Get(ctx, f.requestedID).Return(f.requestedListing(), nil)
		f.repo.EXPECT().FindConflicts(ctx, f.offeredID, f.requestedID, gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		f.sink.EXPECT().Notify(ctx, gomock.Any())
		f.expectHydrate()

		result, err := f.svc.Create(ctx, f.createInput())
		require.NoError(t, err)
		assert.Equal(t, domainSwap.StatusPending, result.Status)
		assert.Equal(t, "Ann", result.Requester.Name)
		assert.Equal(t, "Forest Cabin", result.RequestedListing.Title)
		assert.Empty(t, result.ConflictWarnings)
	})

	t.Run("start date in the past fails before any lookup", func(t *testing.T) {
		f := newFixture(t)
		in := f.createInput()
		in.StartDate = time.Now().UTC().Add(-24 * time.Hour)

		_, err := f.svc.Create(ctx, in)
		require.ErrorIs(t, err, domainSwap.ErrInvalidInput)
	})

	t.Run("offered listing owned by someone else", func(t *testing.T) {
		f := newFixture(t)
		l := f.offeredListing()
		l.OwnerID = uuid.New()
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(l, nil)

		_, err := f.svc.Create(ctx, f.createInput())
		require.ErrorIs(t, err, domainSwap.ErrNotAuthorized)
	})

	t.Run("requested listing under the wrong user", func(t *testing.T) {
		f := newFixture(t)
		l := f.requestedListing()
		l.OwnerID = uuid.New()
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(f.offeredListing(), nil)
		f.listings.EXPECT().Get(ctx, f.requestedID).Return(l, nil)

		_, err := f.svc.Create(ctx, f.createInput())
		require.ErrorIs(t, err, domainSwap.ErrNotAuthorized)
	})

	t.Run("inactive offered listing", func(t *testing.T) {
		f := newFixture(t)
		l := f.offeredListing()
		l.IsActive = false
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(l, nil)

		_, err := f.svc.Create(ctx, f.createInput())
		require.ErrorIs(t, err, domainSwap.ErrInvalidInput)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newFixture(t)
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(nil, listing.ErrNotFound)

		_, err := f.svc.Create(ctx, f.createInput())
		require.ErrorIs(t, err, domainSwap.ErrNotFound)
	})

	t.Run("advisory conflicts do not block creation", func(t *testing.T) {
		f := newFixture(t)
		existing := f.pendingSwap()
		existing.Status = domainSwap.StatusAccepted
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(f.offeredListing(), nil)
		f.listings.EXPECT().Get(ctx, f.requestedID).Return(f.requestedListing(), nil)
		f.repo.EXPECT().FindConflicts(ctx, f.offeredID, f.requestedID, gomock.Any(), gomock.Any()).
			Return([]*domainSwap.Swap{existing}, nil)
		f.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		f.sink.EXPECT().Notify(ctx, gomock.Any())
		f.expectHydrate()

		result, err := f.svc.Create(ctx, f.createInput())
		require.NoError(t, err)
		assert.Len(t, result.ConflictWarnings, 1)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown swap", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().GetByID(ctx, id).Return(nil, nil)

		_, err := f.svc.Get(ctx, id, f.requesterID)
		require.ErrorIs(t, err, domainSwap.ErrNotFound)
	})

	t.Run("non-party cannot read", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)

		_, err := f.svc.Get(ctx, sw.ID, uuid.New())
		require.ErrorIs(t, err, domainSwap.ErrNotAuthorized)
	})
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("accept success notifies both parties", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		accepted := *sw
		accepted.Status = domainSwap.StatusAccepted

		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(f.offeredListing(), nil)
		f.listings.EXPECT().Get(ctx, f.requestedID).Return(f.requestedListing(), nil)
		f.repo.EXPECT().AcceptExclusive(ctx, sw.ID).Return(&accepted, nil)
		f.expectHydrate()
		f.sink.EXPECT().Notify(ctx, gomock.Any()).Times(2)

		details, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domainSwap.StatusAccepted, details.Status)
	})

	t.Run("requester cannot accept", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)

		_, err := f.svc.Transition(ctx, sw.ID, f.requesterID, domainSwap.StatusAccepted)
		require.ErrorIs(t, err, domainSwap.ErrNotAuthorized)
	})

	t.Run("requested user cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)

		_, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusCancelled)
		require.ErrorIs(t, err, domainSwap.ErrNotAuthorized)
	})

	t.Run("terminal swap yields invalid state", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		sw.Status = domainSwap.StatusDeclined
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)

		_, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusAccepted)
		require.ErrorIs(t, err, domainSwap.ErrInvalidState)
	})

	t.Run("accept with inactive listing", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		inactive := f.offeredListing()
		inactive.IsActive = false
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(inactive, nil)

		_, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusAccepted)
		require.ErrorIs(t, err, domainSwap.ErrInvalidState)
	})

	t.Run("accept conflict propagates", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)
		f.listings.EXPECT().Get(ctx, f.offeredID).Return(f.offeredListing(), nil)
		f.listings.EXPECT().Get(ctx, f.requestedID).Return(f.requestedListing(), nil)
		f.repo.EXPECT().AcceptExclusive(ctx, sw.ID).
			Return(nil, fmt.Errorf("%w: 1 overlapping accepted swap(s)", domainSwap.ErrConflict))

		_, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusAccepted)
		require.ErrorIs(t, err, domainSwap.ErrConflict)
	})

	t.Run("decline notifies requester", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		declined := *sw
		declined.Status = domainSwap.StatusDeclined

		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)
		f.repo.EXPECT().UpdateStatus(ctx, sw.ID, domainSwap.StatusDeclined).Return(&declined, nil)
		f.expectHydrate()
		f.sink.EXPECT().Notify(ctx, gomock.Any()).Times(1)

		details, err := f.svc.Transition(ctx, sw.ID, f.requestedUserID, domainSwap.StatusDeclined)
		require.NoError(t, err)
		assert.Equal(t, domainSwap.StatusDeclined, details.Status)
	})

	t.Run("cancel notifies both parties", func(t *testing.T) {
		f := newFixture(t)
		sw := f.pendingSwap()
		cancelled := *sw
		cancelled.Status = domainSwap.StatusCancelled

		f.repo.EXPECT().GetByID(ctx, sw.ID).Return(sw, nil)
		f.repo.EXPECT().UpdateStatus(ctx, sw.ID, domainSwap.StatusCancelled).Return(&cancelled, nil)
		f.expectHydrate()
		f.sink.EXPECT().Notify(ctx, gomock.Any()).Times(2)

		details, err := f.svc.Transition(ctx, sw.ID, f.requesterID, domainSwap.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, domainSwap.StatusCancelled, details.Status)
	})

	t.Run("unknown swap", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().GetByID(ctx, id).Return(nil, nil)

		_, err := f.svc.Transition(ctx, id, f.requesterID, domainSwap.StatusCancelled)
		require.ErrorIs(t, err, domainSwap.ErrNotFound)
	})
}
