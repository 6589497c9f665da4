package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roamswap/roamswap/internal/domain/notification"
)

// Broadcaster pushes a notification to any live event streams the user
// holds. Delivery is best-effort.
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, n *notification.Notification)
}

// Service persists and serves in-app notifications. It implements
// notification.Sink for the swap engine: delivery failures are logged and
// dropped, never propagated into a swap transaction.
type Service struct {
	repo        notification.Repository
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewService creates a notification service. broadcaster may be nil.
func NewService(repo notification.Repository, broadcaster Broadcaster, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger.With().Str("service", "notification").Logger(),
	}
}

// Notify records a notification for the target user and pushes it to any
// open streams. Best-effort.
func (s *Service) Notify(ctx context.Context, n *notification.Notification) {
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", n.UserID.String()).
			Str("type", string(n.Type)).
			Msg("failed to store notification")
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(n.UserID, n)
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// CountUnread returns how many unread notifications the user has.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
