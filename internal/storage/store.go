// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
)

// Store defines the persistence operations the service layer depends
// on. This abstraction allows swapping storage backends without
// changing the services.
//
// Mutations observe the relational guarantees the services rely on:
// deletes cascade down the Village -> Budget -> Category -> Expense
// chain, and uniqueness violations (budget (village_id, year), user
// email) surface as errs.ErrConflict. Missing rows surface as
// errs.ErrNotFound.
type Store interface {
	// Villages

	CreateVillage(ctx context.Context, v *models.Village) error
	GetVillage(ctx context.Context, id string) (*models.Village, error)
	ListVillages(ctx context.Context, skip, limit int) ([]models.Village, error)
	UpdateVillage(ctx context.Context, v *models.Village) error
	DeleteVillage(ctx context.Context, id string) error

	// Budgets

	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, skip, limit int) ([]models.Budget, error)
	ListBudgetsByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error

	// Categories

	CreateCategory(ctx context.Context, c *models.BudgetCategory) error
	GetCategory(ctx context.Context, id string) (*models.BudgetCategory, error)
	ListCategories(ctx context.Context, skip, limit int) ([]models.BudgetCategory, error)
	ListCategoriesByBudget(ctx context.Context, budgetID string, skip, limit int) ([]models.BudgetCategory, error)
	ListCategoriesByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.BudgetCategory, error)
	UpdateCategory(ctx context.Context, c *models.BudgetCategory) error
	DeleteCategory(ctx context.Context, id string) error

	// Expenses

	CreateExpense(ctx context.Context, e *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context, skip, limit int) ([]models.Expense, error)
	ListExpensesByCategory(ctx context.Context, categoryID string, skip, limit int) ([]models.Expense, error)
	ListExpensesByVillage(ctx context.Context, villageID string, skip, limit int) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	// SumExpensesByCategory returns the exact total of all expense
	// amounts in the category, zero if there are none. It does not
	// check that the category exists.
	SumExpensesByCategory(ctx context.Context, categoryID string) (money.Amount, error)

	// Users

	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsersByRole(ctx context.Context, role models.Role) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
