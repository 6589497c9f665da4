package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamswap/roamswap/internal/domain/listing"
)

// ListingRepository implements listing.Directory. Listing CRUD is owned by
// another service; this repo only reads.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var l listing.Listing
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, type, city, country, is_active
		FROM listings WHERE id=$1
	`, id).Scan(&l.ID, &l.OwnerID, &l.Title, &l.Type, &l.City, &l.Country, &l.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}
