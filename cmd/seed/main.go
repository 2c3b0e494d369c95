// Command seed loads sample villages, budgets, categories, and expenses
// into a fresh database, plus the admin account. Re-running against a
// populated database is a no-op for each section that already has rows.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/config"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/storage"
	"github.com/gramkosh/gramkosh/internal/storage/sqlite"
	"github.com/gramkosh/gramkosh/pkg/logging"
)

const adminPassword = "admin123"

func main() {
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := seed(context.Background(), store, cfg.AdminEmail); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database seeded", "database", cfg.DBPath)
}

func seed(ctx context.Context, store storage.Store, adminEmail string) error {
	villages, err := seedVillages(ctx, store)
	if err != nil {
		return err
	}
	if err := seedAdmin(ctx, store, adminEmail); err != nil {
		return err
	}
	return seedBudgets(ctx, store, villages)
}

func seedVillages(ctx context.Context, store storage.Store) ([]models.Village, error) {
	existing, err := store.ListVillages(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		slog.Info("Villages already present, skipping")
		return store.ListVillages(ctx, 0, 100)
	}

	villages := []models.Village{
		{Name: "Greenfield Village", District: "Central District", State: "Maharashtra"},
		{Name: "Riverside Village", District: "North District", State: "Punjab"},
		{Name: "Mountain View Village", District: "Hill District", State: "Himachal Pradesh"},
	}
	for i := range villages {
		if err := store.CreateVillage(ctx, &villages[i]); err != nil {
			return nil, err
		}
	}
	slog.Info("Villages created", "count", len(villages))
	return villages, nil
}

func seedAdmin(ctx context.Context, store storage.Store, adminEmail string) error {
	count, err := store.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Admin already present, skipping")
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:         "Admin User",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return err
	}
	slog.Info("Admin created", "email", admin.Email)
	return nil
}

func seedBudgets(ctx context.Context, store storage.Store, villages []models.Village) error {
	existing, err := store.ListBudgets(ctx, 0, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("Budgets already present, skipping")
		return nil
	}

	type categorySpec struct {
		name      string
		allocated string
	}
	categorySpecs := []categorySpec{
		{"Infrastructure", "400000.00"},
		{"Education", "300000.00"},
		{"Healthcare", "200000.00"},
		{"Agriculture", "100000.00"},
	}

	type expenseSpec struct {
		description string
		amount      string
		vendor      string
		date        string
	}
	expenseSpecs := []expenseSpec{
		{"Road construction materials", "150000.00", "BuildRight Suppliers", "2024-03-15"},
		{"School furniture", "75000.00", "Edu Furnishings Ltd", "2024-04-20"},
		{"Medical equipment", "85000.00", "HealthCare Supplies", "2024-05-10"},
		{"Fertilizer distribution", "45000.00", "Agro Solutions", "2024-06-05"},
	}

	var categories []models.BudgetCategory
	for i, village := range villages {
		allocated, err := money.Parse("1000000.00")
		if err != nil {
			return err
		}
		extra, err := money.Parse("500000.00")
		if err != nil {
			return err
		}
		for range i {
			allocated = allocated.Add(extra)
		}

		budget := &models.Budget{
			VillageID:      village.ID,
			Year:           2024 + i%2,
			TotalAllocated: allocated,
		}
		if err := store.CreateBudget(ctx, budget); err != nil {
			return err
		}

		for _, spec := range categorySpecs {
			amount, err := money.Parse(spec.allocated)
			if err != nil {
				return err
			}
			category := models.BudgetCategory{
				BudgetID:        budget.ID,
				CategoryName:    spec.name,
				AllocatedAmount: amount,
			}
			if err := store.CreateCategory(ctx, &category); err != nil {
				return err
			}
			categories = append(categories, category)
		}
	}
	slog.Info("Budgets and categories created", "budgets", len(villages), "categories", len(categories))

	for i, category := range categories {
		if i >= len(expenseSpecs) {
			break
		}
		spec := expenseSpecs[i]
		amount, err := money.Parse(spec.amount)
		if err != nil {
			return err
		}
		expense := &models.Expense{
			CategoryID:  category.ID,
			Description: spec.description,
			Amount:      amount,
			VendorName:  spec.vendor,
			ExpenseDate: spec.date,
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			return err
		}
	}
	slog.Info("Expenses created", "count", min(len(categories), len(expenseSpecs)))
	return nil
}
