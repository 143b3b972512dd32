package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
)

const serializationFailureCode = "40001"

var errSerializationFailure = errors.New("serialization failure")

// Archive persists terminal bookings to Postgres for reporting. It is an
// optional TransitionHook; the in-memory controller stays canonical.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

func (a *Archive) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == serializationFailureCode {
			return errSerializationFailure
		}
		return err
	}

	return tx.Commit(ctx)
}

// BookingTransition inserts the booking and its seats once it reaches a
// terminal state. Replays of the same booking id are absorbed.
func (a *Archive) BookingTransition(ctx context.Context, b domain.Booking, from domain.BookingStatus) error {
	return a.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO booking_archive (id, name, email, phone, resource_id, status, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
		`, b.ID, b.Identity.Name, b.Identity.Email, b.Identity.Phone, b.ResourceID, string(b.Status), b.CreatedAt, b.ExpiresAt)
		if err != nil {
			return err
		}

		for _, seat := range b.SeatIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO booking_archive_seats (booking_id, seat_id)
				VALUES ($1, $2)
				ON CONFLICT (booking_id, seat_id) DO NOTHING
			`, b.ID, seat)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetArchived reads one archived booking back, mainly for verification.
func (a *Archive) GetArchived(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	var status string
	err := a.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, resource_id, status, created_at, expires_at
		FROM booking_archive WHERE id = $1
	`, id).Scan(&b.ID, &b.Identity.Name, &b.Identity.Email, &b.Identity.Phone, &b.ResourceID, &status, &b.CreatedAt, &b.ExpiresAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)

	rows, err := a.pool.Query(ctx, `SELECT seat_id FROM booking_archive_seats WHERE booking_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		b.SeatIDs = append(b.SeatIDs, seat)
	}
	return &b, rows.Err()
}
