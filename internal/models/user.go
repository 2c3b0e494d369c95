package models

import "fmt"

// Role is the closed set of principal roles. Authorization decisions
// match on it exhaustively; an unrecognized role never passes a check.
type Role string

const (
	// RoleAdmin is the single administrative account.
	RoleAdmin Role = "admin"
	// RoleVillager is a regular account scoped to one village.
	RoleVillager Role = "villager"
)

// ParseRole validates a role string from a request or a database row.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleVillager:
		return RoleVillager, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is a registered account. Exactly one user may hold RoleAdmin,
// bound to the designated admin email.
type User struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Email is the login identifier (unique).
	Email string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// Role determines the authorization scope.
	Role Role

	// VillageID is the village affiliation. Empty for the admin;
	// required for villagers performing village-scoped actions.
	VillageID string

	// IsActive gates all protected operations. Deactivation is the only
	// form of account removal.
	IsActive bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
