package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

func newCategoryService(t *testing.T) (*CategoryService, storage.Store) {
	t.Helper()
	store := newTestStore(t)
	resolver := policy.NewResolver(store)
	return NewCategoryService(store, resolver, testLogger()), store
}

func TestCategoryRemaining(t *testing.T) {
	svc, store := newCategoryService(t)
	ctx := context.Background()
	admin := adminPrincipal()

	village := seedVillage(t, store, "Rampur")
	budget := seedBudget(t, store, village.ID, 2024, "1000000.00")
	category := seedCategory(t, store, budget.ID, "Health", "200000.00")

	t.Run("no expenses", func(t *testing.T) {
		summary, err := svc.Remaining(ctx, admin, category.ID)
		if err != nil {
			t.Fatalf("Remaining failed: %v", err)
		}
		if summary.Spent.String() != "0.00" {
			t.Errorf("Expected spent 0.00, got %s", summary.Spent)
		}
		if summary.Remaining.String() != "200000.00" {
			t.Errorf("Expected remaining 200000.00, got %s", summary.Remaining)
		}
	})

	t.Run("exact arithmetic", func(t *testing.T) {
		seedExpense(t, store, category.ID, "Medicines", "50000.00")
		seedExpense(t, store, category.ID, "Ambulance fuel", "25000.00")
		seedExpense(t, store, category.ID, "Clinic repair", "0.10")

		summary, err := svc.Remaining(ctx, admin, category.ID)
		if err != nil {
			t.Fatalf("Remaining failed: %v", err)
		}
		if summary.Spent.String() != "75000.10" {
			t.Errorf("Expected spent 75000.10, got %s", summary.Spent)
		}
		if summary.Remaining.String() != "124999.90" {
			t.Errorf("Expected remaining 124999.90, got %s", summary.Remaining)
		}
		if summary.CategoryName != "Health" {
			t.Errorf("Expected category name Health, got %q", summary.CategoryName)
		}
	})

	t.Run("overspend goes negative", func(t *testing.T) {
		seedExpense(t, store, category.ID, "Emergency works", "150000.00")

		summary, err := svc.Remaining(ctx, admin, category.ID)
		if err != nil {
			t.Fatalf("Remaining failed: %v", err)
		}
		if summary.Remaining.String() != "-75000.10" {
			t.Errorf("Expected remaining -75000.10, got %s", summary.Remaining)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := svc.Remaining(ctx, admin, "no-such-category")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign villager is forbidden", func(t *testing.T) {
		other := seedVillage(t, store, "Sitapur")
		_, err := svc.Remaining(ctx, villagerPrincipal(other.ID), category.ID)
		if !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

func TestCategoryAuthorization(t *testing.T) {
	svc, store := newCategoryService(t)
	ctx := context.Background()

	village := seedVillage(t, store, "Rampur")
	other := seedVillage(t, store, "Sitapur")
	budget := seedBudget(t, store, village.ID, 2024, "1000000.00")
	otherBudget := seedBudget(t, store, other.ID, 2024, "500000.00")
	category := seedCategory(t, store, budget.ID, "Health", "200000.00")

	home := villagerPrincipal(village.ID)
	foreign := villagerPrincipal(other.ID)

	t.Run("villager creates in own village", func(t *testing.T) {
		created, err := svc.Create(ctx, home, CreateCategoryInput{
			BudgetID:        budget.ID,
			CategoryName:    "Education",
			AllocatedAmount: mustAmount(t, "100000.00"),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("Expected a generated category id")
		}
	})

	t.Run("villager cannot create elsewhere", func(t *testing.T) {
		_, err := svc.Create(ctx, home, CreateCategoryInput{
			BudgetID:        otherBudget.ID,
			CategoryName:    "Roads",
			AllocatedAmount: mustAmount(t, "100000.00"),
		})
		if !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing budget wins over authorization", func(t *testing.T) {
		_, err := svc.Create(ctx, foreign, CreateCategoryInput{
			BudgetID:        "no-such-budget",
			CategoryName:    "Roads",
			AllocatedAmount: mustAmount(t, "100000.00"),
		})
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("villager cannot update or delete", func(t *testing.T) {
		name := "Renamed"
		if _, err := svc.Update(ctx, home, category.ID, UpdateCategoryInput{CategoryName: &name}); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden on update, got %v", err)
		}
		if err := svc.Delete(ctx, home, category.ID); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden on delete, got %v", err)
		}
	})

	t.Run("admin partial update", func(t *testing.T) {
		allocated := mustAmount(t, "250000.00")
		updated, err := svc.Update(ctx, adminPrincipal(), category.ID, UpdateCategoryInput{AllocatedAmount: &allocated})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.CategoryName != "Health" {
			t.Errorf("Expected name untouched, got %q", updated.CategoryName)
		}
		if updated.AllocatedAmount.String() != "250000.00" {
			t.Errorf("Expected allocation 250000.00, got %s", updated.AllocatedAmount)
		}
	})

	t.Run("foreign villager cannot view", func(t *testing.T) {
		if _, err := svc.Get(ctx, foreign, category.ID); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("inactive principal is forbidden", func(t *testing.T) {
		p := home
		p.Active = false
		if _, err := svc.Get(ctx, p, category.ID); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}
