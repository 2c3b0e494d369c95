package server

import (
	"net/http"

	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/money"
	"github.com/gramkosh/gramkosh/internal/service"
)

type createBudgetRequest struct {
	VillageID      string       `json:"village_id"`
	Year           int          `json:"year"`
	TotalAllocated money.Amount `json:"total_allocated"`
}

type updateBudgetRequest struct {
	Year           *int          `json:"year"`
	TotalAllocated *money.Amount `json:"total_allocated"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	skip, limit := pagination(r)

	var budgets []models.Budget
	var err error
	if villageID := r.URL.Query().Get("village_id"); villageID != "" {
		budgets, err = s.budgets.ListByVillage(r.Context(), p, villageID, skip, limit)
	} else {
		budgets, err = s.budgets.List(r.Context(), p, skip, limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetViews(budgets))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	budget, err := s.budgets.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetView(budget))
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createBudgetRequest
	if !decode(w, r, &req) {
		return
	}

	budget, err := s.budgets.Create(r.Context(), p, service.CreateBudgetInput{
		VillageID:      req.VillageID,
		Year:           req.Year,
		TotalAllocated: req.TotalAllocated,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetView(budget))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req updateBudgetRequest
	if !decode(w, r, &req) {
		return
	}

	budget, err := s.budgets.Update(r.Context(), p, r.PathValue("id"), service.UpdateBudgetInput{
		Year:           req.Year,
		TotalAllocated: req.TotalAllocated,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetView(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := s.budgets.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
