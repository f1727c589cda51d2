package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thejerf/abtime"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/events"
)

const identityKey = "auth_identity"

// AuthMiddleware resolves bearer tokens and enforces per-action role sets.
type AuthMiddleware struct {
	resolver   *SessionResolver
	clock      abtime.AbstractTime
	dispatcher events.Dispatcher
}

// NewAuthMiddleware constructs middleware. dispatcher may be nil.
func NewAuthMiddleware(resolver *SessionResolver, clock abtime.AbstractTime, dispatcher events.Dispatcher) *AuthMiddleware {
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &AuthMiddleware{resolver: resolver, clock: clock, dispatcher: dispatcher}
}

// Handle authenticates the request and stores the caller's identity.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return ErrUnauthenticated
	}

	identity, err := m.resolver.Resolve(c.UserContext(), token, m.clock.Now())
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// Require admits the request only if the authenticated role may perform action.
func (m *AuthMiddleware) Require(action Action) fiber.Handler {
	allowed := action.AllowedRoles()

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return ErrUnauthenticated
		}

		_, err := Authorize(identity, allowed)
		m.recordDecision(c, identity, action, err == nil)
		if err != nil {
			return err
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) recordDecision(c *fiber.Ctx, identity domain.Identity, action Action, allowed bool) {
	if m.dispatcher == nil {
		return
	}
	decision := events.DecisionDeny
	if allowed {
		decision = events.DecisionAllow
	}
	_ = m.dispatcher.Publish(c.UserContext(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccessDecision,
		Subject:   identity.Subject,
		Timestamp: m.clock.Now(),
		Payload: events.AccessDecisionPayload{
			Action:   string(action),
			Decision: decision,
			Role:     identity.Role,
			Method:   c.Method(),
			Path:     c.Path(),
		},
	})
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
