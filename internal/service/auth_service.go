// Package service implements the authorized operations the HTTP layer
// exposes. Every operation checks existence before authorization and
// returns errors wrapping the errs sentinels.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/models"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// AuthService handles registration, login, and principal lookup.
type AuthService struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	adminEmail string
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service. adminEmail is
// the one address permitted to register the admin account.
func NewAuthService(store storage.Store, jwtManager *auth.JWTManager, adminEmail string, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		jwtManager: jwtManager,
		adminEmail: strings.ToLower(adminEmail),
		logger:     logger,
	}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	VillageID string
}

// LoginInput is the payload for authenticating. Role is the role the
// caller claims; for villagers VillageID must name their affiliation.
type LoginInput struct {
	Email     string
	Password  string
	Role      string
	VillageID string
}

// Token is the credential returned by Register and Login.
type Token struct {
	AccessToken string
	TokenType   string
	User        *models.User
}

// Register creates a new account.
//
// Villagers must name an existing village. The admin role may be
// registered exactly once, and only under the designated email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Token, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("name and email are required: %w", errs.ErrInvalidInput)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrInvalidInput)
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	switch role {
	case models.RoleAdmin:
		if email != s.adminEmail {
			return nil, fmt.Errorf("admin registration is restricted to the designated address: %w", errs.ErrForbidden)
		}
		existing, err := s.store.CountUsersByRole(ctx, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if existing > 0 {
			return nil, fmt.Errorf("an admin account already exists: %w", errs.ErrForbidden)
		}
	case models.RoleVillager:
		if in.VillageID == "" {
			return nil, fmt.Errorf("villager registration requires a village: %w", errs.ErrInvalidInput)
		}
		if _, err := s.store.GetVillage(ctx, in.VillageID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if role == models.RoleVillager {
		user.VillageID = in.VillageID
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return s.issueToken(user)
}

// Login authenticates a user and returns a bearer token.
//
// The claimed role must match the stored role, and a villager must name
// their stored village; any mismatch is reported exactly like a wrong
// password so login cannot be used to probe accounts.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Token, error) {
	invalid := fmt.Errorf("%v: %w", auth.ErrInvalidCredentials, errs.ErrUnauthenticated)

	if in.Email == "" || in.Password == "" {
		return nil, invalid
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		s.logger.Warn("Login failed", "email", in.Email)
		return nil, invalid
	}

	claimed, err := models.ParseRole(in.Role)
	if err != nil || claimed != user.Role {
		s.logger.Warn("Login role mismatch", "email", in.Email)
		return nil, invalid
	}
	if user.Role == models.RoleVillager && in.VillageID != user.VillageID {
		s.logger.Warn("Login village mismatch", "email", in.Email)
		return nil, invalid
	}

	s.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return s.issueToken(user)
}

// Me returns the profile of the authenticated principal.
func (s *AuthService) Me(ctx context.Context, p policy.Principal) (*models.User, error) {
	return s.store.GetUserByID(ctx, p.ID)
}

func (s *AuthService) issueToken(user *models.User) (*Token, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer", User: user}, nil
}
