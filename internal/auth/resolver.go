package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/repository"
)

// UserLookup is the part of the user store the resolver reads.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionResolver turns a bearer token into the caller's current identity.
type SessionResolver struct {
	tokens *TokenManager
	users  UserLookup
}

// NewSessionResolver constructs a resolver.
func NewSessionResolver(tokens *TokenManager, users UserLookup) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users}
}

// Resolve decodes token and reloads its subject from the store. The returned
// identity carries the stored role, not the one embedded in the token.
func (r *SessionResolver) Resolve(ctx context.Context, token string, now time.Time) (domain.Identity, error) {
	assertion, err := r.tokens.Decode(token, now)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := r.users.GetByEmail(ctx, assertion.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: subject no longer exists", ErrUnauthenticated)
		}
		return domain.Identity{}, fmt.Errorf("load token subject: %w", err)
	}
	return user.Identity(), nil
}
