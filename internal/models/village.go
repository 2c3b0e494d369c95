package models

// Village is the root of the ownership chain. Deleting a village
// cascades through its budgets, categories, and expenses.
type Village struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the village name.
	Name string

	// District is optional administrative metadata.
	District string

	// State is optional administrative metadata.
	State string

	// CreatedAt is the Unix timestamp when the village was registered.
	CreatedAt int64
}
