package readstore

import (
	"context"
	"errors"
	"time"

	"taskbridge-server/internal/domain/booking"
	"taskbridge-server/internal/infra"
	"taskbridge-server/internal/infra/db"
	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(pool db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: pool}
}

const bookingViewSQL = `
SELECT b.id, b.customer_id, b.provider_id, p.display_name, b.service_type,
       b.service_date, b.time_slot, b.duration_hours, b.status,
       b.total_amount_cents, b.platform_fee_cents, b.payment_ref, b.notes,
       b.address, b.created_at, b.updated_at
FROM bookings b
JOIN service_providers p ON p.id = b.provider_id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewSQL+` WHERE b.id = $1`, id)

	view, err := scanBookingView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

func (r *BookingReadStore) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.provider_id, p.display_name, b.service_type,
		        b.service_date, b.time_slot, b.status, b.total_amount_cents, b.created_at
		 FROM bookings b
		 JOIN service_providers p ON p.id = b.provider_id
		 WHERE b.customer_id = $1
		 ORDER BY b.created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by customer", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		var date time.Time
		if err := rows.Scan(&item.ID, &item.ProviderID, &item.ProviderName, &item.ServiceType,
			&date, &item.TimeSlot, &item.Status, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.Date = booking.ServiceDateFromTime(date).String()
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings by customer", err)
	}
	return result, nil
}

// FindTakenSlots lists slots claimed by active bookings for the provider on
// the given date. Terminal bookings free their slot.
func (r *BookingReadStore) FindTakenSlots(ctx context.Context, providerID uuid.UUID, date booking.ServiceDate) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT time_slot FROM bookings
		 WHERE provider_id = $1 AND service_date = $2
		   AND status IN ('pending_payment', 'confirmed', 'in_progress')`,
		providerID, date.Time(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find taken slots", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, infra.WrapRepoErr("failed to scan taken slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate taken slots", err)
	}
	return slots, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var view queries.BookingView
	var date time.Time
	err := row.Scan(&view.ID, &view.CustomerID, &view.ProviderID, &view.ProviderName,
		&view.ServiceType, &date, &view.TimeSlot, &view.DurationHours, &view.Status,
		&view.TotalCents, &view.PlatformFeeCents, &view.PaymentRef, &view.Notes,
		&view.Address, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	view.Date = booking.ServiceDateFromTime(date).String()
	return &view, nil
}
