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

func (r *offeringRepository) Create(ctx context.Context, offering *model.Offering) error {
	query := `
		INSERT INTO offerings (
			id, staff_id, name, description, duration_minutes,
			price, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	offering.ID = uuid.New()
	offering.CreatedAt = time.Now()
	offering.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		offering.ID,
		offering.StaffID,
		offering.Name,
		offering.Description,
		offering.DurationMinutes,
		offering.Price,
		offering.Active,
		offering.CreatedAt,
		offering.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

func (r *offeringRepository) Get(ctx context.Context, id uuid.UUID) (*model.Offering, error) {
	query := `
		SELECT id, staff_id, name, description, duration_minutes,
			   price, active, created_at, updated_at
		FROM offerings
		WHERE id = $1
	`
	var offering model.Offering
	err := r.db.GetContext(ctx, &offering, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("offering %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return &offering, nil
}

func (r *offeringRepository) Update(ctx context.Context, offering *model.Offering) error {
	query := `
		UPDATE offerings
		SET name = $1, description = $2, duration_minutes = $3,
			price = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	offering.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		offering.Name,
		offering.Description,
		offering.DurationMinutes,
		offering.Price,
		offering.Active,
		offering.UpdatedAt,
		offering.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update offering: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("offering %s: %w", offering.ID, repository.ErrNotFound)
	}

	return nil
}

func (r *offeringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM offerings
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete offering: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("offering %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

func (r *offeringRepository) List(ctx context.Context, filters *model.OfferingFilters) ([]*model.Offering, error) {
	query := `
		SELECT id, staff_id, name, description, duration_minutes,
			   price, active, created_at, updated_at
		FROM offerings
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.StaffID != uuid.Nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argCount)
		args = append(args, filters.StaffID)
		argCount++
	}

	if filters != nil && filters.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", argCount)
		args = append(args, *filters.Active)
		argCount++
	}

	query += " ORDER BY name ASC"

	var offerings []*model.Offering
	err := r.db.SelectContext(ctx, &offerings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}
