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
	"github.com/gramkosh/gramkosh/internal/money"
)

// CreateExpense persists a new expense, assigning its ID and timestamp.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (id, category_id, description, amount, vendor_name, expense_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.CategoryID, e.Description, int64(e.Amount), e.VendorName, e.ExpenseDate, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %s: %w", e.CategoryID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	e := &models.Expense{}
	var amount int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, category_id, description, amount, vendor_name, expense_date, created_at FROM expenses WHERE id = ?",
		id,
	).Scan(&e.ID, &e.CategoryID, &e.Description, &amount, &e.VendorName, &e.ExpenseDate, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	e.Amount = money.Amount(amount)
	return e, nil
}

// ListExpenses returns all expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, skip, limit int) ([]models.Expense, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryExpenses(ctx,
		"SELECT id, category_id, description, amount, vendor_name, expense_date, created_at FROM expenses ORDER BY expense_date DESC, id LIMIT ? OFFSET ?",
		limit, skip,
	)
}

// ListExpensesByCategory returns the expenses of one category.
func (s *SQLiteStore) ListExpensesByCategory(ctx context.Context, categoryID string, skip, limit int) ([]models.Expense, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryExpenses(ctx,
		"SELECT id, category_id, description, amount, vendor_name, expense_date, created_at FROM expenses WHERE category_id = ? ORDER BY expense_date DESC, id LIMIT ? OFFSET ?",
		categoryID, limit, skip,
	)
}

// ListExpensesByVillage narrows expenses to one village by joining the
// full ownership chain upward.
func (s *SQLiteStore) ListExpensesByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.Expense, error) {
	skip, limit = limitOrDefault(skip, limit)
	return s.queryExpenses(ctx,
		`SELECT e.id, e.category_id, e.description, e.amount, e.vendor_name, e.expense_date, e.created_at
		 FROM expenses e
		 JOIN budget_categories c ON e.category_id = c.id
		 JOIN budgets b ON c.budget_id = b.id
		 WHERE b.village_id = ?
		 ORDER BY e.expense_date DESC, e.id LIMIT ? OFFSET ?`,
		villageID, limit, skip,
	)
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amount int64
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Description, &amount, &e.VendorName, &e.ExpenseDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Amount(amount)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense writes the full expense row back.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET category_id = ?, description = ?, amount = ?, vendor_name = ?, expense_date = ? WHERE id = ?",
		e.CategoryID, e.Description, int64(e.Amount), e.VendorName, e.ExpenseDate, e.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %s: %w", e.CategoryID, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRowAffected(res, "expense", e.ID)
}

// DeleteExpense removes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRowAffected(res, "expense", id)
}

// SumExpensesByCategory totals the expense amounts in a category using
// integer SQL aggregation, so the sum is exact. Zero if there are no
// expenses; the category's own existence is the caller's concern.
func (s *SQLiteStore) SumExpensesByCategory(ctx context.Context, categoryID string) (money.Amount, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE category_id = ?",
		categoryID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return money.Amount(total), nil
}
