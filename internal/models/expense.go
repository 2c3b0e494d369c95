package models

import "github.com/gramkosh/gramkosh/internal/money"

// Expense is a single spend recorded against a budget category.
type Expense struct {
	// ID is the unique identifier (UUID format).
	ID string

	// CategoryID references the owning category.
	CategoryID string

	// Description is optional free text.
	Description string

	// Amount is the amount spent.
	Amount money.Amount

	// VendorName is the optional payee.
	VendorName string

	// ExpenseDate is the day of the spend in YYYY-MM-DD form.
	ExpenseDate string

	// CreatedAt is the Unix timestamp when the row was recorded.
	CreatedAt int64
}
