package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
)

// Upsert keys on the (staff_id, weekday) unique constraint so each staff
// member has at most one shift per weekday.
func (r *shiftRepository) Upsert(ctx context.Context, shift *model.Shift) error {
	query := `
		INSERT INTO shifts (
			id, staff_id, weekday, start_time, end_time,
			unavailable, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (staff_id, weekday) DO UPDATE
		SET start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			unavailable = EXCLUDED.unavailable,
			updated_at = EXCLUDED.updated_at
	`
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = time.Now()
	}
	shift.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		shift.ID,
		shift.StaffID,
		int(shift.Weekday),
		shift.StartTime,
		shift.EndTime,
		shift.Unavailable,
		shift.CreatedAt,
		shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert shift: %w", err)
	}
	return nil
}

func (r *shiftRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	query := `
		SELECT id, staff_id, weekday, start_time, end_time,
			   unavailable, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`
	var shift model.Shift
	err := r.db.GetContext(ctx, &shift, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

func (r *shiftRepository) GetByStaffAndWeekday(ctx context.Context, staffID uuid.UUID, weekday time.Weekday) (*model.Shift, error) {
	query := `
		SELECT id, staff_id, weekday, start_time, end_time,
			   unavailable, created_at, updated_at
		FROM shifts
		WHERE staff_id = $1 AND weekday = $2
	`
	var shift model.Shift
	err := r.db.GetContext(ctx, &shift, query, staffID, int(weekday))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift for staff %s on weekday %d: %w", staffID, weekday, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

func (r *shiftRepository) ListForStaff(ctx context.Context, staffID uuid.UUID) ([]*model.Shift, error) {
	query := `
		SELECT id, staff_id, weekday, start_time, end_time,
			   unavailable, created_at, updated_at
		FROM shifts
		WHERE staff_id = $1
		ORDER BY weekday ASC
	`
	var shifts []*model.Shift
	err := r.db.SelectContext(ctx, &shifts, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM shifts
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("shift %s: %w", id, repository.ErrNotFound)
	}

	return nil
}
