package server

import (
	"net/http"

	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/service"
)

type createExpenseRequest struct {
	CategoryID  string       `json:"category_id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	VendorName  string       `json:"vendor_name"`
	ExpenseDate string       `json:"expense_date"`
}

type updateExpenseRequest struct {
	Description *string       `json:"description"`
	Amount      *money.Amount `json:"amount"`
	VendorName  *string       `json:"vendor_name"`
	ExpenseDate *string       `json:"expense_date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	skip, limit := pagination(r)
	query := r.URL.Query()

	var expenses []models.Expense
	var err error
	switch {
	case query.Get("category_id") != "":
		expenses, err = s.expenses.ListByCategory(r.Context(), p, query.Get("category_id"), skip, limit)
	case query.Get("village_id") != "":
		expenses, err = s.expenses.ListByVillage(r.Context(), p, query.Get("village_id"), skip, limit)
	default:
		expenses, err = s.expenses.List(r.Context(), p, skip, limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseViews(expenses))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	expense, err := s.expenses.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseView(expense))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	expense, err := s.expenses.Create(r.Context(), p, service.CreateExpenseInput{
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		VendorName:  req.VendorName,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseView(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	expense, err := s.expenses.Update(r.Context(), p, r.PathValue("id"), service.UpdateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		VendorName:  req.VendorName,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseView(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := s.expenses.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
