package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// VillageService implements village operations. Villages are managed by
// the admin; villagers may read their own.
type VillageService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewVillageService creates a new VillageService.
func NewVillageService(store storage.Store, logger *slog.Logger) *VillageService {
	return &VillageService{store: store, logger: logger}
}

// CreateVillageInput is the payload for creating a village.
type CreateVillageInput struct {
	Name     string
	District string
	State    string
}

// UpdateVillageInput carries a partial update; nil fields are left
// untouched.
type UpdateVillageInput struct {
	Name     *string
	District *string
	State    *string
}

// ListPublic returns all villages without authentication. The
// registration page needs the list before the caller has a token.
func (s *VillageService) ListPublic(ctx context.Context, skip, limit int) ([]models.Village, error) {
	return s.store.ListVillages(ctx, skip, limit)
}

// List returns the villages the principal may see: all of them for the
// admin, only their own for a villager.
func (s *VillageService) List(ctx context.Context, p policy.Principal, skip, limit int) ([]models.Village, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	villageID, all, err := policy.ListScope(p)
	if err != nil {
		return nil, err
	}
	if all {
		return s.store.ListVillages(ctx, skip, limit)
	}
	v, err := s.store.GetVillage(ctx, villageID)
	if err != nil {
		return nil, err
	}
	return []models.Village{*v}, nil
}

// Get returns one village if the principal's scope covers it.
func (s *VillageService) Get(ctx context.Context, p policy.Principal, id string) (*models.Village, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	village, err := s.store.GetVillage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, village.ID) {
		return nil, fmt.Errorf("village %s is outside your scope: %w", id, errs.ErrForbidden)
	}
	return village, nil
}

// Mine returns the principal's own village.
func (s *VillageService) Mine(ctx context.Context, p policy.Principal) (*models.Village, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if p.VillageID == "" {
		return nil, fmt.Errorf("no village affiliation: %w", errs.ErrNotFound)
	}
	return s.store.GetVillage(ctx, p.VillageID)
}

// Create registers a new village. Admin-only.
func (s *VillageService) Create(ctx context.Context, p policy.Principal, in CreateVillageInput) (*models.Village, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("village creation is admin-only: %w", errs.ErrForbidden)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("village name is required: %w", errs.ErrInvalidInput)
	}

	village := &models.Village{Name: in.Name, District: in.District, State: in.State}
	if err := s.store.CreateVillage(ctx, village); err != nil {
		return nil, err
	}

	s.logger.Info("Village created", "village_id", village.ID, "name", village.Name)
	return village, nil
}

// Update applies the supplied fields to a village. Admin-only.
func (s *VillageService) Update(ctx context.Context, p policy.Principal, id string, in UpdateVillageInput) (*models.Village, error) {
	if err := policy.RequireActive(p); err != nil {
		return nil, err
	}
	village, err := s.store.GetVillage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(p) {
		return nil, fmt.Errorf("village update is admin-only: %w", errs.ErrForbidden)
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("village name cannot be empty: %w", errs.ErrInvalidInput)
		}
		village.Name = *in.Name
	}
	if in.District != nil {
		village.District = *in.District
	}
	if in.State != nil {
		village.State = *in.State
	}

	if err := s.store.UpdateVillage(ctx, village); err != nil {
		return nil, err
	}

	s.logger.Info("Village updated", "village_id", village.ID)
	return village, nil
}

// Delete removes a village and, via cascade, everything below it.
// Admin-only.
func (s *VillageService) Delete(ctx context.Context, p policy.Principal, id string) error {
	if err := policy.RequireActive(p); err != nil {
		return err
	}
	if _, err := s.store.GetVillage(ctx, id); err != nil {
		return err
	}
	if !policy.CanManage(p) {
		return fmt.Errorf("village deletion is admin-only: %w", errs.ErrForbidden)
	}

	if err := s.store.DeleteVillage(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Village deleted", "village_id", id)
	return nil
}
