package models

import "github.com/gramkosh/gramkosh/internal/money"

// Budget is a village's allocation for one year. At most one budget may
// exist per (village, year) pair.
type Budget struct {
	// ID is the unique identifier (UUID format).
	ID string

	// VillageID references the owning village.
	VillageID string

	// Year is the budget year, e.g. 2024.
	Year int

	// TotalAllocated is the total allocation for the year.
	TotalAllocated money.Amount
}

// BudgetCategory is a named slice of a budget, e.g. "Health".
type BudgetCategory struct {
	// ID is the unique identifier (UUID format).
	ID string

	// BudgetID references the owning budget.
	BudgetID string

	// CategoryName is the display name of the category.
	CategoryName string

	// AllocatedAmount is the portion of the budget assigned here.
	AllocatedAmount money.Amount
}

// CategorySummary is the derived spending position of one category.
// It is recomputed from the expense rows on every request.
type CategorySummary struct {
	CategoryID   string
	CategoryName string
	Allocated    money.Amount
	Spent        money.Amount
	// Remaining is Allocated - Spent and may be negative; overspend is
	// reported, not rejected.
	Remaining money.Amount
}
