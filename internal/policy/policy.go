// Package policy decides which rows a principal may act on.
//
// Every decision resolves the target row's owning village first (see
// Resolver) and then applies the role table: the admin may act on any
// village, a villager only on rows belonging to their own village, and
// mutations (update/delete, plus village and budget creation) are
// admin-only.
package policy

import (
	"fmt"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
)

// Principal is the authenticated actor a request runs as. It is built
// by the auth middleware from a fresh user row, so Role, VillageID, and
// Active reflect current state rather than token-issue-time state.
type Principal struct {
	ID        string
	Role      models.Role
	VillageID string
	Active    bool
}

// RequireActive rejects deactivated principals. Checked before any
// other rule: a deactivated account is denied everything regardless of
// role.
func RequireActive(p Principal) error {
	if !p.Active {
		return fmt.Errorf("account deactivated: %w", errs.ErrForbidden)
	}
	return nil
}

// CanView reports whether p may read rows owned by villageID.
func CanView(p Principal, villageID string) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVillager:
		return p.VillageID != "" && p.VillageID == villageID
	default:
		return false
	}
}

// CanCreateIn reports whether p may create a row whose owning village
// resolves to villageID. The admin supplies the target village
// explicitly; a villager's target is derived from the parent row and
// must be their own village.
func CanCreateIn(p Principal, villageID string) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVillager:
		return p.VillageID != "" && p.VillageID == villageID
	default:
		return false
	}
}

// CanManage reports whether p may update or delete rows, or create
// villages and budgets. Admin-only.
func CanManage(p Principal) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVillager:
		return false
	default:
		return false
	}
}

// ListScope narrows a listing to the permitted subset. When all is
// true the principal sees every row; otherwise only rows owned by the
// returned village id. A villager with no affiliation has no scope.
func ListScope(p Principal) (villageID string, all bool, err error) {
	switch p.Role {
	case models.RoleAdmin:
		return "", true, nil
	case models.RoleVillager:
		if p.VillageID == "" {
			return "", false, fmt.Errorf("villager has no village affiliation: %w", errs.ErrForbidden)
		}
		return p.VillageID, false, nil
	default:
		return "", false, fmt.Errorf("unrecognized role %q: %w", p.Role, errs.ErrForbidden)
	}
}
