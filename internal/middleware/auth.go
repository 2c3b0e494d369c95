// Package middleware provides the HTTP middleware chain: request
// authentication, logging, and metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// principalKey is the context key for the authenticated principal.
const principalKey contextKey = "principal"

// GetPrincipal extracts the authenticated principal from the context.
// The second return is false on requests that never passed RequireAuth.
func GetPrincipal(ctx context.Context) (policy.Principal, bool) {
	p, ok := ctx.Value(principalKey).(policy.Principal)
	return p, ok
}

// Authenticator validates bearer tokens and attaches a Principal to the
// request context. The principal is built from a fresh user row, not
// from the token claims, so deactivation and role changes apply to the
// very next request.
type Authenticator struct {
	jwtManager *auth.JWTManager
	store      storage.Store
	onError    func(w http.ResponseWriter, r *http.Request, err error)
}

// NewAuthenticator creates an Authenticator. onError renders
// authentication failures; it receives errors wrapping
// auth.ErrMissingToken or auth.ErrInvalidToken.
func NewAuthenticator(jwtManager *auth.JWTManager, store storage.Store, onError func(w http.ResponseWriter, r *http.Request, err error)) *Authenticator {
	return &Authenticator{jwtManager: jwtManager, store: store, onError: onError}
}

// RequireAuth rejects requests without a valid bearer token for a user
// that still exists.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.authenticate(r)
		if err != nil {
			a.onError(w, r, err)
			return
		}
		if holder, ok := r.Context().Value(principalHolderKey).(*principalHolder); ok {
			holder.principal = &p
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (policy.Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return policy.Principal{}, auth.ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return policy.Principal{}, auth.ErrInvalidToken
	}

	claims, err := a.jwtManager.Validate(parts[1])
	if err != nil {
		return policy.Principal{}, err
	}

	user, err := a.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		// Deleted users keep valid tokens until expiry; treat them
		// the same as a bad token.
		return policy.Principal{}, errors.Join(auth.ErrInvalidToken, err)
	}

	return policy.Principal{
		ID:        user.ID,
		Role:      user.Role,
		VillageID: user.VillageID,
		Active:    user.IsActive,
	}, nil
}
