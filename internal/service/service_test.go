package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
	"github.com/gramkosh/gramkosh/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "gramkosh-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-service-tests", time.Hour)
}

func mustAmount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return a
}

func adminPrincipal() policy.Principal {
	return policy.Principal{ID: "admin-user", Role: models.RoleAdmin, Active: true}
}

func villagerPrincipal(villageID string) policy.Principal {
	return policy.Principal{ID: "villager-user", Role: models.RoleVillager, VillageID: villageID, Active: true}
}

func seedVillage(t *testing.T, store storage.Store, name string) *models.Village {
	t.Helper()
	v := &models.Village{Name: name, District: "Central", State: "Maharashtra"}
	if err := store.CreateVillage(context.Background(), v); err != nil {
		t.Fatalf("CreateVillage failed: %v", err)
	}
	return v
}

func seedBudget(t *testing.T, store storage.Store, villageID string, year int, allocated string) *models.Budget {
	t.Helper()
	b := &models.Budget{VillageID: villageID, Year: year, TotalAllocated: mustAmount(t, allocated)}
	if err := store.CreateBudget(context.Background(), b); err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	return b
}

func seedCategory(t *testing.T, store storage.Store, budgetID, name, allocated string) *models.BudgetCategory {
	t.Helper()
	c := &models.BudgetCategory{BudgetID: budgetID, CategoryName: name, AllocatedAmount: mustAmount(t, allocated)}
	if err := store.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	return c
}

func seedExpense(t *testing.T, store storage.Store, categoryID, description, amount string) *models.Expense {
	t.Helper()
	e := &models.Expense{
		CategoryID:  categoryID,
		Description: description,
		Amount:      mustAmount(t, amount),
		VendorName:  "Test Vendor",
		ExpenseDate: "2024-06-15",
	}
	if err := store.CreateExpense(context.Background(), e); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return e
}
