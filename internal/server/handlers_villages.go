package server

import (
	"net/http"

	"github.com/gramkosh/gramkosh/internal/service"
)

type createVillageRequest struct {
	Name     string `json:"name"`
	District string `json:"district"`
	State    string `json:"state"`
}

type updateVillageRequest struct {
	Name     *string `json:"name"`
	District *string `json:"district"`
	State    *string `json:"state"`
}

func (s *Server) handleListVillagesPublic(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	villages, err := s.villages.ListPublic(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillageViews(villages))
}

func (s *Server) handleGetVillage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	village, err := s.villages.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillageView(village))
}

func (s *Server) handleMyVillage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	village, err := s.villages.Mine(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillageView(village))
}

func (s *Server) handleCreateVillage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createVillageRequest
	if !decode(w, r, &req) {
		return
	}

	village, err := s.villages.Create(r.Context(), p, service.CreateVillageInput{
		Name:     req.Name,
		District: req.District,
		State:    req.State,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVillageView(village))
}

func (s *Server) handleUpdateVillage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req updateVillageRequest
	if !decode(w, r, &req) {
		return
	}

	village, err := s.villages.Update(r.Context(), p, r.PathValue("id"), service.UpdateVillageInput{
		Name:     req.Name,
		District: req.District,
		State:    req.State,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillageView(village))
}

func (s *Server) handleDeleteVillage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := s.villages.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
