package server

import (
	"net/http"

	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/service"
)

type createCategoryRequest struct {
	BudgetID        string       `json:"budget_id"`
	CategoryName    string       `json:"category_name"`
	AllocatedAmount money.Amount `json:"allocated_amount"`
}

type updateCategoryRequest struct {
	CategoryName    *string       `json:"category_name"`
	AllocatedAmount *money.Amount `json:"allocated_amount"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	skip, limit := pagination(r)

	var categories []models.BudgetCategory
	var err error
	if budgetID := r.URL.Query().Get("budget_id"); budgetID != "" {
		categories, err = s.categories.ListByBudget(r.Context(), p, budgetID, skip, limit)
	} else {
		categories, err = s.categories.List(r.Context(), p, skip, limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryViews(categories))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	category, err := s.categories.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryView(category))
}

func (s *Server) handleCategoryRemaining(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := s.categories.Remaining(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryView(summary))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := s.categories.Create(r.Context(), p, service.CreateCategoryInput{
		BudgetID:        req.BudgetID,
		CategoryName:    req.CategoryName,
		AllocatedAmount: req.AllocatedAmount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryView(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := s.categories.Update(r.Context(), p, r.PathValue("id"), service.UpdateCategoryInput{
		CategoryName:    req.CategoryName,
		AllocatedAmount: req.AllocatedAmount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryView(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := s.categories.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
