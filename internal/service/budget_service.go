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

// BudgetService implements budget operations. Budget creation and every
// mutation are admin-only; reads follow village scope.
type BudgetService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store storage.Store, logger *slog.Logger) *BudgetService {
	return &BudgetService{store: store, logger: logger}
}

// CreateBudgetInput is the payload for creating a budget. The admin
// supplies the target village explicitly.
type CreateBudgetInput struct {
	VillageID      string
	Year           int
	TotalAllocated money.Amount
}

// UpdateBudgetInput carries a partial update; nil fields are left
// untouched.
type UpdateBudgetInput struct {
	Year           *int
	TotalAllocated *money.Amount
}

// List returns the budgets within the principal's scope.
func (s *BudgetService) List(ctx context.Context, p policy.Principal, skip, limit int) ([]models.Budget, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, all, err := policy.ListScope(p)
	if err != nil {
		return nil, err
	}
	if all {
		return s.store.ListBudgets(ctx, skip, limit)
	}
	return s.store.ListBudgetsByVillage(ctx, villageID, skip, limit)
}

// ListByVillage returns one village's budgets if the principal may see
// that village. The village's existence is checked first.
func (s *BudgetService) ListByVillage(ctx context.Context, p policy.Principal, villageID string, skip, limit int) ([]models.Budget, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if _, err := s.store.GetVillage(ctx, villageID); err != nil {
		return nil, err
	}
	if !policy.CanView(p, villageID) {
		return nil, fmt.Errorf("village %s is outside your scope: %w", villageID, errs.ErrForbidden)
	}
	return s.store.ListBudgetsByVillage(ctx, villageID, skip, limit)
}

// Get returns one budget if the principal's scope covers its village.
func (s *BudgetService) Get(ctx context.Context, p policy.Principal, id string) (*models.Budget, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, budget.VillageID) {
		return nil, fmt.Errorf("budget %s is outside your scope: %w", id, errs.ErrForbidden)
	}
	return budget, nil
}

// Create adds a budget for a village and year. Admin-only; a duplicate
// (village, year) pair is a conflict.
func (s *BudgetService) Create(ctx context.Context, p policy.Principal, in CreateBudgetInput) (*models.Budget, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if in.VillageID == "" || in.Year == 0 {
		return nil, fmt.Errorf("village and year are required: %w", errs.ErrInvalidInput)
	}
	if _, err := s.store.GetVillage(ctx, in.VillageID); err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("budget creation is admin-only: %w", errs.ErrForbidden)
	}

	budget := &models.Budget{
		VillageID:      in.VillageID,
		Year:           in.Year,
		TotalAllocated: in.TotalAllocated,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.logger.Info("Budget created", "budget_id", budget.ID, "village_id", budget.VillageID, "year", budget.Year)
	return budget, nil
}

// Update applies the supplied fields to a budget. Admin-only; moving
// onto an occupied (village, year) pair is a conflict.
func (s *BudgetService) Update(ctx context.Context, p policy.Principal, id string, in UpdateBudgetInput) (*models.Budget, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("budget update is admin-only: %w", errs.ErrForbidden)
	}

	if in.Year != nil {
		if *in.Year == 0 {
			return nil, fmt.Errorf("year cannot be zero: %w", errs.ErrInvalidInput)
		}
		budget.Year = *in.Year
	}
	if in.TotalAllocated != nil {
		budget.TotalAllocated = *in.TotalAllocated
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.logger.Info("Budget updated", "budget_id", budget.ID)
	return budget, nil
}

// Delete removes a budget and its categories and expenses. Admin-only.
func (s *BudgetService) Delete(ctx context.Context, p policy.Principal, id string) error {
	if err := policy.RequireActive(p); err != nil {
		return err
	}
	if _, err := s.store.GetBudget(ctx, id); err != nil {
		return err
	}
	if !policy.CanManage(p) {
		return fmt.Errorf("budget deletion is admin-only: %w", errs.ErrForbidden)
	}

	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Budget deleted", "budget_id", id)
	return nil
}
