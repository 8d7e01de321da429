package repository

import (
	"context"
	"errors"
	"time"

	"taskbridge-server/internal/domain/booking"
	"taskbridge-server/internal/infra"
	"taskbridge-server/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"

	// Partial unique index over active statuses; a duplicate-key failure on it
	// is the authoritative slot-conflict signal.
	activeSlotIndexName = "bookings_active_slot_idx"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(pool db.DBTX) *BookingRepository {
	return &BookingRepository{db: pool}
}

const createBookingSQL = `
INSERT INTO bookings (
	id, customer_id, provider_id, service_type, service_date, time_slot,
	duration_hours, status, total_amount_cents, platform_fee_cents,
	notes, address, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`

// Create inserts the booking in pending_payment. The partial unique index on
// (provider_id, service_date, time_slot) for active statuses arbitrates
// conflicts at commit time, so there is no check-then-insert window.
func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	_, err := tx.Exec(ctx, createBookingSQL,
		b.ID(),
		b.CustomerID(),
		b.ProviderID(),
		b.ServiceType(),
		b.Date().Time(),
		b.TimeSlot().String(),
		b.DurationHours(),
		b.Status().String(),
		b.Total().Cents(),
		b.PlatformFeeCents(),
		b.Note().String(),
		b.Address().String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				if pgErr.ConstraintName == activeSlotIndexName {
					return infra.WrapRepoErr("time slot already booked", err, infra.KindConflict)
				}
				return infra.WrapRepoErr("duplicate booking", err, infra.KindDuplicateKey)
			case pgErrCodeForeignKeyViolation:
				return infra.WrapRepoErr("booking references missing row", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

// AttachPaymentRef links the external authorization to a still-pending
// booking.
func (r *BookingRepository) AttachPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET payment_ref = $2, updated_at = now()
		 WHERE id = $1 AND status = 'pending_payment' AND payment_ref IS NULL`,
		id, ref,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to attach payment ref", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("no pending booking to attach payment ref", nil, infra.KindNotFound)
	}
	return nil
}

// ConfirmByPaymentRef moves pending_payment -> confirmed for the booking
// holding the given authorization and returns its ID. A false second return
// means the booking is unknown or already settled; callers treat that as a
// no-op for idempotency.
func (r *BookingRepository) ConfirmByPaymentRef(ctx context.Context, ref string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`UPDATE bookings SET status = 'confirmed', updated_at = now()
		 WHERE payment_ref = $1 AND status = 'pending_payment'
		 RETURNING id`,
		ref,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, infra.WrapRepoErr("failed to confirm booking by payment ref", err)
	}
	return id, true, nil
}

// CancelByPaymentRef moves pending_payment -> cancelled on payment failure.
// Terminal bookings are never resurrected: only pending rows match.
func (r *BookingRepository) CancelByPaymentRef(ctx context.Context, ref string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = now()
		 WHERE payment_ref = $1 AND status = 'pending_payment'`,
		ref,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel booking by payment ref", err)
	}
	return tag.RowsAffected(), nil
}

// CancelPending cancels a specific booking only while it still awaits
// payment. Used for customer cancellation and for compensating a failed
// authorization step.
func (r *BookingRepository) CancelPending(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = now()
		 WHERE id = $1 AND status = 'pending_payment'`,
		id,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel pending booking", err)
	}
	return tag.RowsAffected(), nil
}

type StalePendingBooking struct {
	ID         uuid.UUID
	PaymentRef *string
}

// FindStalePending returns pending_payment bookings created before the
// cutoff. The reaper cancels them and voids any attached authorization.
func (r *BookingRepository) FindStalePending(ctx context.Context, cutoff time.Time) ([]StalePendingBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, payment_ref FROM bookings
		 WHERE status = 'pending_payment' AND created_at < $1
		 ORDER BY created_at`,
		cutoff,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find stale pending bookings", err)
	}
	defer rows.Close()

	var result []StalePendingBooking
	for rows.Next() {
		var b StalePendingBooking
		if err := rows.Scan(&b.ID, &b.PaymentRef); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stale pending booking", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stale pending bookings", err)
	}
	return result, nil
}
