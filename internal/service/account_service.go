package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thejerf/abtime"
	"go.uber.org/zap"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/events"
	"github.com/campusworks/college-portal/internal/repository"
)

// CredentialVerifier hashes and checks account secrets.
type CredentialVerifier interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
	DummyHash() string
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Encode(subject string, role domain.Role, now time.Time) (string, time.Time, error)
}

// LoginGuard throttles repeated failed logins per email.
type LoginGuard interface {
	Locked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AccountService coordinates signup, login and role management.
type AccountService struct {
	users      repository.UserRepository
	hasher     CredentialVerifier
	tokens     TokenIssuer
	guard      LoginGuard
	clock      abtime.AbstractTime
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies encapsulates requirements for the account service.
// Guard and Dispatcher are optional.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     CredentialVerifier
	Tokens     TokenIssuer
	Guard      LoginGuard
	Clock      abtime.AbstractTime
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	clock := deps.Clock
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		guard:      deps.Guard,
		clock:      clock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Signup registers a new account. The role is always student.
func (s *AccountService) Signup(ctx context.Context, name, email, secret string) (domain.Identity, error) {
	user, err := s.createUser(ctx, name, email, secret, domain.RoleStudent)
	if err != nil {
		return domain.Identity{}, err
	}
	s.publish(ctx, events.EventUserRegistered, user.Email, events.UserRegisteredPayload{UserID: user.ID, Role: user.Role})
	return user.Identity(), nil
}

// AdminCreateUser registers an account with an explicit role. Callers must
// already be authorized for auth.ActionCreateUser.
func (s *AccountService) AdminCreateUser(ctx context.Context, name, email, secret string, role domain.Role) (domain.Identity, error) {
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}
	user, err := s.createUser(ctx, name, email, secret, role)
	if err != nil {
		return domain.Identity{}, err
	}
	s.publish(ctx, events.EventUserCreated, user.Email, events.UserRegisteredPayload{UserID: user.ID, Role: user.Role})
	return user.Identity(), nil
}

// EnsureSuperuser creates the bootstrap superuser unless the email is taken.
func (s *AccountService) EnsureSuperuser(ctx context.Context, name, email, secret string) (bool, error) {
	_, err := s.createUser(ctx, name, email, secret, domain.RoleSuperuser)
	if errors.Is(err, domain.ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Login verifies credentials and issues a token carrying the stored role.
// Unknown email, wrong secret and a locked email are indistinguishable to the
// caller and each costs exactly one hash comparison.
func (s *AccountService) Login(ctx context.Context, email, secret string) (domain.SessionToken, error) {
	email = normalizeEmail(email)

	if s.locked(ctx, email) {
		s.hasher.Verify(secret, s.hasher.DummyHash())
		s.loginFailed(ctx, email, "locked")
		return domain.SessionToken{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.SessionToken{}, err
	}

	hash := s.hasher.DummyHash()
	if user != nil {
		hash = user.PasswordHash
	}
	matched := s.hasher.Verify(secret, hash)

	switch {
	case user == nil:
		s.loginFailed(ctx, email, "unknown_email")
		return domain.SessionToken{}, domain.ErrInvalidCredentials
	case !matched:
		s.loginFailed(ctx, email, "wrong_secret")
		return domain.SessionToken{}, domain.ErrInvalidCredentials
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, email); err != nil {
			s.logger.Warn("reset login failures", zap.Error(err))
		}
	}

	now := s.clock.Now()
	token, expiresAt, err := s.tokens.Encode(user.Email, user.Role, now)
	if err != nil {
		return domain.SessionToken{}, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.EventLoginSucceeded, user.Email, nil)
	return domain.SessionToken{
		AccessToken: token,
		TokenType:   domain.TokenTypeBearer,
		IssuedAt:    now.UTC().Truncate(time.Second),
		ExpiresAt:   expiresAt,
	}, nil
}

// UpdateRole replaces the role of user id. Concurrent updates resolve as last write wins.
func (s *AccountService) UpdateRole(ctx context.Context, id int64, role domain.Role) (domain.Identity, error) {
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, domain.ErrUserNotFound
		}
		return domain.Identity{}, err
	}

	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, domain.ErrUserNotFound
		}
		return domain.Identity{}, err
	}

	s.publish(ctx, events.EventUserRoleChanged, updated.Email, events.UserRoleChangedPayload{
		UserID:  updated.ID,
		OldRole: current.Role,
		NewRole: updated.Role,
	})
	return updated.Identity(), nil
}

// ListUsers returns every account.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.Identity, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Identity, 0, len(users))
	for _, user := range users {
		out = append(out, user.Identity())
	}
	return out, nil
}

func (s *AccountService) createUser(ctx context.Context, name, email, secret string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) locked(ctx context.Context, email string) bool {
	if s.guard == nil {
		return false
	}
	locked, err := s.guard.Locked(ctx, email)
	if err != nil {
		s.logger.Warn("login guard unavailable", zap.Error(err))
		return false
	}
	return locked
}

func (s *AccountService) loginFailed(ctx context.Context, email, reason string) {
	if s.guard != nil && reason != "locked" {
		if err := s.guard.RecordFailure(ctx, email); err != nil {
			s.logger.Warn("record login failure", zap.Error(err))
		}
	}
	s.publish(ctx, events.EventLoginFailed, email, events.LoginFailedPayload{Reason: reason})
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
