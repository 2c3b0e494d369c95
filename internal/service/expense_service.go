package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// ExpenseService implements expense recording and listing.
type ExpenseService struct {
	store    storage.Store
	resolver *policy.Resolver
	logger   *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, resolver *policy.Resolver, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, resolver: resolver, logger: logger}
}

// CreateExpenseInput is the payload for recording an expense.
type CreateExpenseInput struct {
	CategoryID  string
	Description string
	Amount      money.Amount
	VendorName  string
	ExpenseDate string
}

// UpdateExpenseInput carries a partial update; nil fields are left
// untouched.
type UpdateExpenseInput struct {
	Description *string
	Amount      *money.Amount
	VendorName  *string
	ExpenseDate *string
}

// List returns the expenses within the principal's scope.
func (s *ExpenseService) List(ctx context.Context, p policy.Principal, skip, limit int) ([]models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, all, err := policy.ListScope(p)
	if err != nil {
		return nil, err
	}
	if all {
		return s.store.ListExpenses(ctx, skip, limit)
	}
	return s.store.ListExpensesByVillage(ctx, villageID, skip, limit)
}

// ListByCategory returns one category's expenses if the principal may
// see the category's village. The category's existence is checked
// first.
func (s *ExpenseService) ListByCategory(ctx context.Context, p policy.Principal, categoryID string, skip, limit int) ([]models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, err := s.resolver.CategoryVillage(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("category %s is outside your scope: %w", categoryID, errs.ErrForbidden)
	}
	return s.store.ListExpensesByCategory(ctx, categoryID, skip, limit)
}

// ListByVillage returns one village's expenses across all of its
// budgets and categories.
func (s *ExpenseService) ListByVillage(ctx context.Context, p policy.Principal, villageID string, skip, limit int) ([]models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if _, err := s.store.GetVillage(ctx, villageID); err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("village %s is outside your scope: %w", villageID, errs.ErrForbidden)
	}
	return s.store.ListExpensesByVillage(ctx, villageID, skip, limit)
}

// Get returns one expense if the principal's scope covers it.
func (s *ExpenseService) Get(ctx context.Context, p policy.Principal, id string) (*models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	villageID, err := s.resolver.CategoryVillage(ctx, expense.CategoryID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("expense %s is outside your scope: %w", id, errs.ErrForbidden)
	}
	return expense, nil
}

// Create records an expense against a category. The admin may target
// any category; a villager only categories of their own village.
func (s *ExpenseService) Create(ctx context.Context, p policy.Principal, in CreateExpenseInput) (*models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if in.CategoryID == "" {
		return nil, fmt.Errorf("category is required: %w", errs.ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("expense amount must be positive: %w", errs.ErrInvalidInput)
	}
	if err := validateExpenseDate(in.ExpenseDate); err != nil {
		return nil, err
	}
	villageID, err := s.resolver.CategoryVillage(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateIn(p, villageID) {
		return nil, fmt.Errorf("category %s belongs to another village: %w", in.CategoryID, errs.ErrForbidden)
	}

	expense := &models.Expense{
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Amount:      in.Amount,
		VendorName:  in.VendorName,
		ExpenseDate: in.ExpenseDate,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense recorded", "expense_id", expense.ID, "category_id", expense.CategoryID, "amount", expense.Amount)
	return expense, nil
}

// Update applies the supplied fields to an expense. Admin-only.
func (s *ExpenseService) Update(ctx context.Context, p policy.Principal, id string, in UpdateExpenseInput) (*models.Expense, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("expense update is admin-only: %w", errs.ErrForbidden)
	}

	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return nil, fmt.Errorf("expense amount must be positive: %w", errs.ErrInvalidInput)
		}
		expense.Amount = *in.Amount
	}
	if in.VendorName != nil {
		expense.VendorName = *in.VendorName
	}
	if in.ExpenseDate != nil {
		if err := validateExpenseDate(*in.ExpenseDate); err != nil {
			return nil, err
		}
		expense.ExpenseDate = *in.ExpenseDate
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID)
	return expense, nil
}

// Delete removes an expense. Admin-only.
func (s *ExpenseService) Delete(ctx context.Context, p policy.Principal, id string) error {
	if err := policy.RequireActive(p); err != nil {
		return err
	}
	if _, err := s.store.GetExpense(ctx, id); err != nil {
		return err
	}
	if !policy.CanManage(p) {
		return fmt.Errorf("expense deletion is admin-only: %w", errs.ErrForbidden)
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Expense deleted", "expense_id", id)
	return nil
}

func validateExpenseDate(date string) error {
	if date == "" {
		return fmt.Errorf("expense date is required: %w", errs.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("expense date must be YYYY-MM-DD: %w", errs.ErrInvalidInput)
	}
	return nil
}
