package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamswap/roamswap/internal/domain/swap"
)

const swapColumns = `id, requester_id, requested_user_id, requester_listing_id, requested_listing_id, start_date, end_date, status, notes, created_at, updated_at`

// conflictWhere matches rows that share a listing with ($2,$3) and whose
// half-open window overlaps [$4,$5). $1 is the status to scan.
const conflictWhere = `
	status = $1
	AND (requester_listing_id IN ($2, $3) OR requested_listing_id IN ($2, $3))
	AND start_date < $5 AND end_date > $4
`

// SwapRepository implements swap.Repository over postgres.
type SwapRepository struct {
	pool *pgxpool.Pool
}

func NewSwapRepository(pool *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{pool: pool}
}

func (r *SwapRepository) Create(ctx context.Context, s *swap.Swap) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO swaps (`+swapColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, s.ID, s.RequesterID, s.RequestedUserID, s.RequesterListingID, s.RequestedListingID,
		s.StartDate, s.EndDate, s.Status, s.Notes, s.CreatedAt, s.UpdatedAt)
	return mapStorageErr(err)
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*swap.Swap, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id=$1`, id)
	return scanSwap(row)
}

func (r *SwapRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*swap.Swap, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+swapColumns+` FROM swaps
		WHERE requester_id=$1 OR requested_user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()
	return collectSwaps(rows)
}

func (r *SwapRepository) FindConflicts(ctx context.Context, listingA, listingB uuid.UUID, start, end time.Time) ([]*swap.Swap, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE `+conflictWhere,
		swap.StatusAccepted, listingA, listingB, start, end)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()
	return collectSwaps(rows)
}

// AcceptExclusive implements the two-phase locking acceptance protocol:
// lock the target row, lock every pending competitor that shares a listing
// and overlaps the window, re-check accepted conflicts, then flip the status
// with a conditional update. Competing acceptances block on the row locks
// and re-evaluate fresh state once this transaction finishes.
func (r *SwapRepository) AcceptExclusive(ctx context.Context, id uuid.UUID) (*swap.Swap, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer tx.Rollback(ctx)

	target, err := scanSwap(tx.QueryRow(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, swap.ErrNotFound
	}
	if target.Status != swap.StatusPending {
		return nil, fmt.Errorf("%w: current status is %q", swap.ErrInvalidState, target.Status)
	}

	// Lock pending competitors in id order so concurrent acceptances of
	// overlapping swaps acquire locks deterministically.
	if _, err := tx.Exec(ctx, `
		SELECT id FROM swaps WHERE id <> $6 AND `+conflictWhere+`
		ORDER BY id FOR UPDATE
	`, swap.StatusPending, target.RequesterListingID, target.RequestedListingID,
		target.StartDate, target.EndDate, target.ID); err != nil {
		return nil, mapStorageErr(err)
	}

	// Should be empty given the locks above; re-checked before the write.
	rows, err := tx.Query(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE `+conflictWhere,
		swap.StatusAccepted, target.RequesterListingID, target.RequestedListingID,
		target.StartDate, target.EndDate)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	conflicts, err := collectSwaps(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d overlapping accepted swap(s)", swap.ErrConflict, len(conflicts))
	}

	updated, err := scanSwap(tx.QueryRow(ctx, `
		UPDATE swaps SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+swapColumns+`
	`, swap.StatusAccepted, target.ID, swap.StatusPending))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: swap is no longer pending", swap.ErrInvalidState)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapStorageErr(err)
	}
	return updated, nil
}

func (r *SwapRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status swap.Status) (*swap.Swap, error) {
	updated, err := scanSwap(r.pool.QueryRow(ctx, `
		UPDATE swaps SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+swapColumns+`
	`, status, id, swap.StatusPending))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Either the id is unknown or the row already left pending.
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, swap.ErrNotFound
		}
		return nil, fmt.Errorf("%w: current status is %q", swap.ErrInvalidState, existing.Status)
	}
	return updated, nil
}

func scanSwap(row pgx.Row) (*swap.Swap, error) {
	var s swap.Swap
	if err := row.Scan(&s.ID, &s.RequesterID, &s.RequestedUserID, &s.RequesterListingID, &s.RequestedListingID,
		&s.StartDate, &s.EndDate, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapStorageErr(err)
	}
	return &s, nil
}

func collectSwaps(rows pgx.Rows) ([]*swap.Swap, error) {
	var swaps []*swap.Swap
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStorageErr(err)
	}
	return swaps, nil
}

// mapStorageErr tags lock and serialization failures as retryable.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization, deadlock, lock_not_available
			return fmt.Errorf("%w: %s", swap.ErrTransient, pgErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", swap.ErrTransient, err)
	}
	return err
}
