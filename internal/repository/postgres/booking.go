package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
)

const uniqueViolation = "23505"

// Create inserts a booking. The bookings table carries a partial unique index
// on (offering_id, scheduled_at) over non-cancelled rows; a violation means
// another customer already holds that slot and surfaces as ErrDuplicate.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, offering_id, customer_id, scheduled_at,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.OfferingID,
		booking.CustomerID,
		booking.ScheduledAt,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("slot %s for offering %s: %w",
				booking.ScheduledAt.Format(time.RFC3339), booking.OfferingID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, offering_id, customer_id, scheduled_at,
			   status, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET scheduled_at = $1, status = $2, notes = $3, cancel_reason = $4, updated_at = $5
		WHERE id = $6
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.ScheduledAt,
		booking.Status,
		booking.Notes,
		booking.CancelReason,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", booking.ID, repository.ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, offering_id, customer_id, scheduled_at,
			   status, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.OfferingID != uuid.Nil {
			query += fmt.Sprintf(" AND offering_id = $%d", argCount)
			args = append(args, filters.OfferingID)
			argCount++
		}
		if filters.CustomerID != uuid.Nil {
			query += fmt.Sprintf(" AND customer_id = $%d", argCount)
			args = append(args, filters.CustomerID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND scheduled_at < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY scheduled_at ASC"

	if filters != nil && filters.Pagination.PageSize > 0 {
		page := filters.Pagination.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.Pagination.PageSize, (page-1)*filters.Pagination.PageSize)
	}

	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListForOfferingOnDay returns the bookings occupying slots of an offering on
// one calendar day. Cancelled bookings release their slot and are excluded.
func (r *bookingRepository) ListForOfferingOnDay(ctx context.Context, offeringID uuid.UUID, day time.Time) ([]*model.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT id, offering_id, customer_id, scheduled_at,
			   status, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE offering_id = $1
		AND scheduled_at >= $2
		AND scheduled_at < $3
		AND status != 'cancelled'
		ORDER BY scheduled_at ASC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, offeringID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for day: %w", err)
	}
	return bookings, nil
}
