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

// CreateCategory persists a new budget category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *models.BudgetCategory) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO budget_categories (id, budget_id, category_name, allocated_amount) VALUES (?, ?, ?, ?)",
		c.ID, c.BudgetID, c.CategoryName, int64(c.AllocatedAmount),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("budget %s: %w", c.BudgetID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.BudgetCategory, error) {
	c := &models.BudgetCategory{}
	var allocated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, budget_id, category_name, allocated_amount FROM budget_categories WHERE id = ?",
		id,
	).Scan(&c.ID, &c.BudgetID, &c.CategoryName, &allocated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	c.AllocatedAmount = money.Amount(allocated)
	return c, nil
}

// ListCategories returns all categories.
func (s *SQLiteStore) ListCategories(ctx context.Context, skip, limit int) ([]models.BudgetCategory, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryCategories(ctx,
		"SELECT id, budget_id, category_name, allocated_amount FROM budget_categories ORDER BY category_name, id LIMIT ? OFFSET ?",
		limit, skip,
	)
}

// ListCategoriesByBudget returns the categories of one budget.
func (s *SQLiteStore) ListCategoriesByBudget(ctx context.Context, budgetID string, skip, limit int) ([]models.BudgetCategory, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryCategories(ctx,
		"SELECT id, budget_id, category_name, allocated_amount FROM budget_categories WHERE budget_id = ? ORDER BY category_name, id LIMIT ? OFFSET ?",
		budgetID, limit, skip,
	)
}

// ListCategoriesByVillage narrows categories to one village by joining
// up the ownership chain.
func (s *SQLiteStore) ListCategoriesByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.BudgetCategory, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryCategories(ctx,
		`SELECT c.id, c.budget_id, c.category_name, c.allocated_amount
		 FROM budget_categories c
		 JOIN budgets b ON c.budget_id = b.id
		 WHERE b.village_id = ?
		 ORDER BY c.category_name, c.id LIMIT ? OFFSET ?`,
		villageID, limit, skip,
	)
}

func (s *SQLiteStore) queryCategories(ctx context.Context, query string, args ...any) ([]models.BudgetCategory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.BudgetCategory
	for rows.Next() {
		var c models.BudgetCategory
		var allocated int64
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.CategoryName, &allocated); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.AllocatedAmount = money.Amount(allocated)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory writes the full category row back.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *models.BudgetCategory) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE budget_categories SET budget_id = ?, category_name = ?, allocated_amount = ? WHERE id = ?",
		c.BudgetID, c.CategoryName, int64(c.AllocatedAmount), c.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("budget %s: %w", c.BudgetID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowAffected(res, "category", c.ID)
}

// DeleteCategory removes a category and cascades to its expenses.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budget_categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowAffected(res, "category", id)
}
