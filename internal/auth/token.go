package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusworks/college-portal/internal/domain"
)

const defaultTokenTTL = 60 * time.Minute

// TokenManager issues and validates signed access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. A non-positive ttlMinutes selects
// the 60 minute default.
func NewTokenManager(secret string, ttlMinutes int) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	ttl := defaultTokenTTL
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Claims describes the JWT payload.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Assertion is the verified content of a token.
type Assertion struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL returns the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Encode signs a token for subject valid from now until now+TTL. Times are
// kept at second precision, matching the wire format.
func (tm *TokenManager) Encode(subject string, role domain.Role, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is empty")
	}
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}

	issuedAt := now.UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies tokenStr as of now. The returned error wraps exactly one of
// ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
func (tm *TokenManager) Decode(tokenStr string, now time.Time) (Assertion, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		return Assertion{}, classifyTokenError(tokenStr, err)
	}
	if !parsed.Valid {
		return Assertion{}, ErrTokenMalformed
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Assertion{}, fmt.Errorf("%w: missing subject or unknown role", ErrTokenMalformed)
	}

	assertion := Assertion{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		assertion.IssuedAt = claims.IssuedAt.Time
	}
	return assertion, nil
}

// classifyTokenError folds the jwt error tree onto the three token failures.
// A token whose header and payload parse but whose signature segment does not
// decode is treated as a signature failure, not a structural one.
func classifyTokenError(tokenStr string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		if _, _, uerr := jwt.NewParser().ParseUnverified(tokenStr, &Claims{}); uerr == nil {
			return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
		}
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
