package auth

import "errors"

// Token decoding failures. Callers outside this package only ever see them
// wrapped in ErrUnauthenticated.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// Session and authorization failures.
var (
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrForbidden       = errors.New("insufficient permission")
)
