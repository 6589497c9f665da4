package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamswap/roamswap/internal/domain/user"
)

// UserRepository implements user.Directory and user.Entitlements.
// Registration and billing writes happen elsewhere.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, avatar_url, subscription_status
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.Name, &u.AvatarURL, &u.SubscriptionStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) IsSubscribed(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Subscribed(), nil
}
