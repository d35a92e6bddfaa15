// Package auth implements operator sign-in: a one-time code challenge
// followed by a JWT-backed session. Challenges and sessions live in the
// operational database so a restart does not log everyone out.
package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	otpLength      = 6
	otpTTL         = 10 * time.Minute
	maxOTPAttempts = 5
	sessionTTL     = 6 * time.Hour
)

var (
	ErrInvalidCode     = errors.New("invalid one-time code")
	ErrExpiredCode     = errors.New("one-time code expired")
	ErrTooManyAttempts = errors.New("too many failed attempts")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionRevoked  = errors.New("session revoked")
)

// Claims is the JWT payload for an operator session.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues one-time codes and session tokens.
type Service struct {
	db     *sql.DB
	secret []byte

	// now is swappable in tests.
	now func() time.Time
}
