package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/campusworks/college-portal/internal/domain"
)

var issuedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret", 60)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return tm
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)

	token, expiresAt, err := tm.Encode("ada@college.edu", domain.RoleTeacher, issuedAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.Count(token, "."); got != 2 {
		t.Fatalf("expected three segments, got %d dots", got)
	}
	if !expiresAt.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", issuedAt.Add(time.Hour), expiresAt)
	}

	assertion, err := tm.Decode(token, issuedAt)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if assertion.Subject != "ada@college.edu" || assertion.Role != domain.RoleTeacher {
		t.Fatalf("unexpected assertion %+v", assertion)
	}
	if !assertion.IssuedAt.Equal(issuedAt) || !assertion.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("unexpected times %+v", assertion)
	}
}

func TestTokenTimesUseSecondPrecision(t *testing.T) {
	tm := newTestTokenManager(t)
	now := issuedAt.Add(750 * time.Millisecond)

	_, expiresAt, err := tm.Encode("ada@college.edu", domain.RoleStudent, now)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !expiresAt.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("expected truncated expiry, got %v", expiresAt)
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	tm := newTestTokenManager(t)
	token, _, err := tm.Encode("ada@college.edu", domain.RoleStudent, issuedAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := tm.Decode(token, issuedAt.Add(tm.TTL()-time.Second)); err != nil {
		t.Fatalf("expected token valid one second before expiry, got %v", err)
	}
	_, err = tm.Decode(token, issuedAt.Add(tm.TTL()))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at expiry, got %v", err)
	}
}

func TestTokenTamperedSignature(t *testing.T) {
	tm := newTestTokenManager(t)
	token, _, err := tm.Encode("ada@college.edu", domain.RoleStudent, issuedAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := tm.Decode(tampered, issuedAt); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenEscalatedPayloadIsRejected(t *testing.T) {
	tm := newTestTokenManager(t)
	token, _, err := tm.Encode("ada@college.edu", domain.RoleStudent, issuedAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	forged := strings.Replace(string(payload), `"role":"student"`, `"role":"superuser"`, 1)
	if forged == string(payload) {
		t.Fatalf("payload did not contain the role claim: %s", payload)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	if _, err := tm.Decode(strings.Join(parts, "."), issuedAt); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, err := NewTokenManager("another-secret", 60)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	token, _, err := other.Encode("ada@college.edu", domain.RoleHOD, issuedAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := tm.Decode(token, issuedAt); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenUnexpectedAlgorithm(t *testing.T) {
	tm := newTestTokenManager(t)
	claims := &Claims{
		Role: domain.RoleSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada@college.edu",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tm.Decode(none, issuedAt); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature for alg none, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := tm.Decode(hs512, issuedAt); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature for HS512, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	tm := newTestTokenManager(t)

	cases := map[string]string{
		"empty":        "",
		"one segment":  "not-a-token",
		"garbage":      "a.b.c",
		"four segment": "a.b.c.d",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Decode(token, issuedAt); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}

func TestTokenMissingClaims(t *testing.T) {
	tm := newTestTokenManager(t)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             domain.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ada@college.edu"},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.Decode(noExp, issuedAt); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed without exp, got %v", err)
	}

	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: domain.Role("dean"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada@college.edu",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.Decode(unknownRole, issuedAt); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for unknown role, got %v", err)
	}
}

func TestEncodeRejectsUnknownRole(t *testing.T) {
	tm := newTestTokenManager(t)
	if _, _, err := tm.Encode("ada@college.edu", domain.Role("dean"), issuedAt); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", 60); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	tm, err := NewTokenManager("s", 0)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	if tm.TTL() != 60*time.Minute {
		t.Fatalf("expected default ttl, got %v", tm.TTL())
	}
}
