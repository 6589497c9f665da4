package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roamswap/roamswap/internal/domain/notification"
	"github.com/roamswap/roamswap/internal/domain/notification/mocks"
)

type captureBroadcaster struct {
	sent []*notification.Notification
}

func (b *captureBroadcaster) BroadcastToUser(_ uuid.UUID, n *notification.Notification) {
	b.sent = append(b.sent, n)
}

func TestNotifyStoresAndBroadcasts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	bc := &captureBroadcaster{}
	svc := NewService(repo, bc, zerolog.Nop())

	n := notification.New(uuid.New(), notification.EventSwapRequestReceived, "New Swap Request", "body", uuid.New())
	repo.EXPECT().Create(gomock.Any(), n).Return(nil)

	svc.Notify(context.Background(), n)
	require.Len(t, bc.sent, 1)
	assert.Equal(t, n.ID, bc.sent[0].ID)
}

func TestNotifySwallowsStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	bc := &captureBroadcaster{}
	svc := NewService(repo, bc, zerolog.Nop())

	n := notification.New(uuid.New(), notification.EventSwapRequestAccepted, "Swap Request Accepted!", "body", uuid.New())
	repo.EXPECT().Create(gomock.Any(), n).Return(errors.New("db down"))

	// Must not panic or propagate; the stream still gets the message.
	svc.Notify(context.Background(), n)
	assert.Len(t, bc.sent, 1)
}

func TestListForUserClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, nil, zerolog.Nop())
	userID := uuid.New()

	repo.EXPECT().ListForUser(gomock.Any(), userID, 50).Return(nil, nil).Times(2)
	_, err := svc.ListForUser(context.Background(), userID, 0)
	require.NoError(t, err)
	_, err = svc.ListForUser(context.Background(), userID, 1000)
	require.NoError(t, err)

	repo.EXPECT().ListForUser(gomock.Any(), userID, 20).Return(nil, nil)
	_, err = svc.ListForUser(context.Background(), userID, 20)
	require.NoError(t, err)
}
