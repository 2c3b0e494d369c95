package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// CategoryService implements budget category operations, including the
// remaining-budget aggregation.
type CategoryService struct {
	store    storage.Store
	resolver *policy.Resolver
	logger   *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store storage.Store, resolver *policy.Resolver, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: store, resolver: resolver, logger: logger}
}

// CreateCategoryInput is the payload for creating a category.
type CreateCategoryInput struct {
	BudgetID        string
	CategoryName    string
	AllocatedAmount money.Amount
}

// UpdateCategoryInput carries a partial update; nil fields are left
// untouched.
type UpdateCategoryInput struct {
	CategoryName    *string
	AllocatedAmount *money.Amount
}

// List returns the categories within the principal's scope.
func (s *CategoryService) List(ctx context.Context, p policy.Principal, skip, limit int) ([]models.BudgetCategory, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, all, err := policy.ListScope(p)
	if err != nil {
		return nil, err
	}
	if all {
		return s.store.ListCategories(ctx, skip, limit)
	}
	return s.store.ListCategoriesByVillage(ctx, villageID, skip, limit)
}

// ListByBudget returns one budget's categories if the principal may see
// the budget's village. The budget's existence is checked first.
func (s *CategoryService) ListByBudget(ctx context.Context, p policy.Principal, budgetID string, skip, limit int) ([]models.BudgetCategory, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, err := s.resolver.BudgetVillage(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("budget %s is outside your scope: %w", budgetID, errs.ErrForbidden)
	}
	return s.store.ListCategoriesByBudget(ctx, budgetID, skip, limit)
}

// Get returns one category if the principal's scope covers it.
func (s *CategoryService) Get(ctx context.Context, p policy.Principal, id string) (*models.BudgetCategory, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	villageID, err := s.resolver.BudgetVillage(ctx, category.BudgetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("category %s is outside your scope: %w", id, errs.ErrForbidden)
	}
	return category, nil
}

// Create adds a category under a budget. The admin may target any
// budget; a villager only budgets of their own village.
func (s *CategoryService) Create(ctx context.Context, p policy.Principal, in CreateCategoryInput) (*models.BudgetCategory, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if in.BudgetID == "" || in.CategoryName == "" {
		return nil, fmt.Errorf("budget and category name are required: %w", errs.ErrInvalidInput)
	}
	villageID, err := s.resolver.BudgetVillage(ctx, in.BudgetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateIn(p, villageID) {
		return nil, fmt.Errorf("budget %s belongs to another village: %w", in.BudgetID, errs.ErrForbidden)
	}

	category := &models.BudgetCategory{
		BudgetID:        in.BudgetID,
		CategoryName:    in.CategoryName,
		AllocatedAmount: in.AllocatedAmount,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", "category_id", category.ID, "budget_id", category.BudgetID, "name", category.CategoryName)
	return category, nil
}

// Update applies the supplied fields to a category. Admin-only.
func (s *CategoryService) Update(ctx context.Context, p policy.Principal, id string, in UpdateCategoryInput) (*models.BudgetCategory, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("category update is admin-only: %w", errs.ErrForbidden)
	}

	if in.CategoryName != nil {
		if *in.CategoryName == "" {
			return nil, fmt.Errorf("category name cannot be empty: %w", errs.ErrInvalidInput)
		}
		category.CategoryName = *in.CategoryName
	}
	if in.AllocatedAmount != nil {
		category.AllocatedAmount = *in.AllocatedAmount
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category updated", "category_id", category.ID)
	return category, nil
}

// Delete removes a category and its expenses. Admin-only.
func (s *CategoryService) Delete(ctx context.Context, p policy.Principal, id string) error {
	if err := policy.RequireActive(p); err != nil {
		return err
	}
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	if !policy.CanManage(p) {
		return fmt.Errorf("category deletion is admin-only: %w", errs.ErrForbidden)
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", "category_id", id)
	return nil
}

// Remaining computes the category's spending position: spent is the
// exact sum of its expenses (zero if none), remaining is allocated
// minus spent and may be negative. The result is always recomputed
// from the expense rows, never cached, so it reflects whatever writes
// are committed at call time.
func (s *CategoryService) Remaining(ctx context.Context, p policy.Principal, id string) (*models.CategorySummary, error) {
	category, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	spent, err := s.store.SumExpensesByCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.CategorySummary{
		CategoryID:   category.ID,
		CategoryName: category.CategoryName,
		Allocated:    category.AllocatedAmount,
		Spent:        spent,
		Remaining:    category.AllocatedAmount.Sub(spent),
	}, nil
}
