package policy

import (
	"context"

	"github.com/gramkosh/gramkosh/internal/models"
)

// ChainStore is the subset of the store the resolver needs to walk the
// ownership chain upward. storage.Store satisfies it.
type ChainStore interface {
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	GetCategory(ctx context.Context, id string) (*models.BudgetCategory, error)
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
}

// Resolver maps a row to the village that owns it by walking
// Expense -> Category -> Budget -> Village. Every authorization check
// goes through this one implementation.
type Resolver struct {
	store ChainStore
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store ChainStore) *Resolver {
	return &Resolver{store: store}
}

// BudgetVillage returns the village owning the budget, or ErrNotFound.
func (r *Resolver) BudgetVillage(ctx context.Context, budgetID string) (string, error) {
	budget, err := r.store.GetBudget(ctx, budgetID)
	if err != nil {
		return "", err
	}
	return budget.VillageID, nil
}

// CategoryVillage returns the village owning the category's budget, or
// ErrNotFound if the category or its budget is gone.
func (r *Resolver) CategoryVillage(ctx context.Context, categoryID string) (string, error) {
	category, err := r.store.GetCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}
	return r.BudgetVillage(ctx, category.BudgetID)
}

// ExpenseVillage resolves through the full chain, or ErrNotFound if any
// link is gone.
func (r *Resolver) ExpenseVillage(ctx context.Context, expenseID string) (string, error) {
	expense, err := r.store.GetExpense(ctx, expenseID)
	if err != nil {
		return "", err
	}
	return r.CategoryVillage(ctx, expense.CategoryID)
}
