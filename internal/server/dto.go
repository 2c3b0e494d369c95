package server

import (
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/service"
)

// View types are the JSON shapes the API exposes. Storage models stay
// free of transport tags; these map them explicitly.

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	VillageID string `json:"village_id,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt int64  `json:"created_at"`
}

type tokenView struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userView `json:"user"`
}

type villageView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	District  string `json:"district,omitempty"`
	State     string `json:"state,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type budgetView struct {
	ID             string       `json:"id"`
	VillageID      string       `json:"village_id"`
	Year           int          `json:"year"`
	TotalAllocated money.Amount `json:"total_allocated"`
}

type categoryView struct {
	ID              string       `json:"id"`
	BudgetID        string       `json:"budget_id"`
	CategoryName    string       `json:"category_name"`
	AllocatedAmount money.Amount `json:"allocated_amount"`
}

type summaryView struct {
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Allocated    money.Amount `json:"allocated"`
	Spent        money.Amount `json:"spent"`
	Remaining    money.Amount `json:"remaining"`
}

type expenseView struct {
	ID          string       `json:"id"`
	CategoryID  string       `json:"category_id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	VendorName  string       `json:"vendor_name,omitempty"`
	ExpenseDate string       `json:"expense_date"`
	CreatedAt   int64        `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		VillageID: u.VillageID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func toTokenView(t *service.Token) tokenView {
	return tokenView{AccessToken: t.AccessToken, TokenType: t.TokenType, User: toUserView(t.User)}
}

func toVillageView(v *models.Village) villageView {
	return villageView{ID: v.ID, Name: v.Name, District: v.District, State: v.State, CreatedAt: v.CreatedAt}
}

func toVillageViews(vs []models.Village) []villageView {
	out := make([]villageView, len(vs))
	for i := range vs {
		out[i] = toVillageView(&vs[i])
	}
	return out
}

func toBudgetView(b *models.Budget) budgetView {
	return budgetView{ID: b.ID, VillageID: b.VillageID, Year: b.Year, TotalAllocated: b.TotalAllocated}
}

func toBudgetViews(bs []models.Budget) []budgetView {
	out := make([]budgetView, len(bs))
	for i := range bs {
		out[i] = toBudgetView(&bs[i])
	}
	return out
}

func toCategoryView(c *models.BudgetCategory) categoryView {
	return categoryView{ID: c.ID, BudgetID: c.BudgetID, CategoryName: c.CategoryName, AllocatedAmount: c.AllocatedAmount}
}

func toCategoryViews(cs []models.BudgetCategory) []categoryView {
	out := make([]categoryView, len(cs))
	for i := range cs {
		out[i] = toCategoryView(&cs[i])
	}
	return out
}

func toSummaryView(s *models.CategorySummary) summaryView {
	return summaryView{
		CategoryID:   s.CategoryID,
		CategoryName: s.CategoryName,
		Allocated:    s.Allocated,
		Spent:        s.Spent,
		Remaining:    s.Remaining,
	}
}

func toExpenseView(e *models.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		Amount:      e.Amount,
		VendorName:  e.VendorName,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenseViews(es []models.Expense) []expenseView {
	out := make([]expenseView, len(es))
	for i := range es {
		out[i] = toExpenseView(&es[i])
	}
	return out
}
