package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
)

// CreateBudget persists a new budget. A duplicate (village_id, year)
// pair surfaces as ErrConflict, a missing village as ErrNotFound.
func (s *SQLiteStore) CreateBudget(ctx context.Context, b *models.Budget) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO budgets (id, village_id, year, total_allocated) VALUES (?, ?, ?, ?)",
		b.ID, b.VillageID, b.Year, int64(b.TotalAllocated),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for village %s year %d: %w", b.VillageID, b.Year, errs.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("village %s: %w", b.VillageID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a budget by ID.
func (s *SQLiteStore) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	b := &models.Budget{}
	var allocated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, village_id, year, total_allocated FROM budgets WHERE id = ?",
		id,
	).Scan(&b.ID, &b.VillageID, &b.Year, &allocated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	b.TotalAllocated = money.Amount(allocated)
	return b, nil
}

// ListBudgets returns all budgets, newest year first.
func (s *SQLiteStore) ListBudgets(ctx context.Context, skip, limit int) ([]models.Budget, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryBudgets(ctx,
		"SELECT id, village_id, year, total_allocated FROM budgets ORDER BY year DESC, id LIMIT ? OFFSET ?",
		limit, skip,
	)
}

// ListBudgetsByVillage returns the budgets of one village.
func (s *SQLiteStore) ListBudgetsByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.Budget, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryBudgets(ctx,
		"SELECT id, village_id, year, total_allocated FROM budgets WHERE village_id = ? ORDER BY year DESC, id LIMIT ? OFFSET ?",
		villageID, limit, skip,
	)
}

func (s *SQLiteStore) queryBudgets(ctx context.Context, query string, args ...any) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		var allocated int64
		if err := rows.Scan(&b.ID, &b.VillageID, &b.Year, &allocated); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.TotalAllocated = money.Amount(allocated)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget writes the full budget row back. Moving a budget onto an
// occupied (village_id, year) pair surfaces as ErrConflict.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, b *models.Budget) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE budgets SET village_id = ?, year = ?, total_allocated = ? WHERE id = ?",
		b.VillageID, b.Year, int64(b.TotalAllocated), b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for village %s year %d: %w", b.VillageID, b.Year, errs.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("village %s: %w", b.VillageID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return requireRowAffected(res, "budget", b.ID)
}

// DeleteBudget removes a budget and cascades to its categories and
// expenses.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return requireRowAffected(res, "budget", id)
}
