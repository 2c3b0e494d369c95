package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
)

// CreateVillage persists a new village, assigning its ID and timestamp.
func (s *SQLiteStore) CreateVillage(ctx context.Context, v *models.Village) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt == 0 {
		v.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO villages (id, name, district, state, created_at) VALUES (?, ?, ?, ?, ?)",
		v.ID, v.Name, v.District, v.State, v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("village %s: %w", v.ID, errs.ErrConflict)
		}
		return fmt.Errorf("failed to insert village: %w", err)
	}
	return nil
}

// GetVillage retrieves a village by ID.
func (s *SQLiteStore) GetVillage(ctx context.Context, id string) (*models.Village, error) {
	v := &models.Village{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, district, state, created_at FROM villages WHERE id = ?",
		id,
	).Scan(&v.ID, &v.Name, &v.District, &v.State, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("village %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get village: %w", err)
	}
	return v, nil
}

// ListVillages returns all villages ordered by name.
func (s *SQLiteStore) ListVillages(ctx context.Context, skip, limit int) ([]models.Village, error) {
	skip, limit = limitOrDefault(skip, limit)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, district, state, created_at FROM villages ORDER BY name LIMIT ? OFFSET ?",
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list villages: %w", err)
	}
	defer rows.Close()

	var villages []models.Village
	for rows.Next() {
		var v models.Village
		if err := rows.Scan(&v.ID, &v.Name, &v.District, &v.State, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan village: %w", err)
		}
		villages = append(villages, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate villages: %w", err)
	}
	return villages, nil
}

// UpdateVillage writes the full village row back.
func (s *SQLiteStore) UpdateVillage(ctx context.Context, v *models.Village) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE villages SET name = ?, district = ?, state = ? WHERE id = ?",
		v.Name, v.District, v.State, v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update village: %w", err)
	}
	return requireRowAffected(res, "village", v.ID)
}

// DeleteVillage removes a village; budgets, categories, and expenses
// below it go with it via the cascading foreign keys.
func (s *SQLiteStore) DeleteVillage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM villages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete village: %w", err)
	}
	return requireRowAffected(res, "village", id)
}

// requireRowAffected converts a zero-row UPDATE/DELETE into ErrNotFound.
func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, errs.ErrNotFound)
	}
	return nil
}
