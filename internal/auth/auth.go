package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// New creates the auth service.
func New(db *sql.DB, jwtSecret string) *Service {
	return &Service{
		db:     db,
		secret: []byte(jwtSecret),
		now:    time.Now,
	}
}

var _ Authenticator = (*Service)(nil)

func (s *Service) BeginLogin(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	code, err := generateCode(otpLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (email, code_hash, expires_at, attempts) VALUES (?, ?, ?, 0)
		ON CONFLICT(email) DO UPDATE SET code_hash = excluded.code_hash, expires_at = excluded.expires_at, attempts = 0;
	`, email, hashCode(code), s.now().Add(otpTTL).Unix())
	if err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}
	log.Info("Issued one-time code", "email", email)
	return code, nil
}

func (s *Service) CompleteLogin(ctx context.Context, email, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var codeHash string
	var expiresAt int64
	var attempts int
	err := s.db.QueryRowContext(ctx,
		"SELECT code_hash, expires_at, attempts FROM otp_challenges WHERE email = ?", email).
		Scan(&codeHash, &expiresAt, &attempts)
	if err == sql.ErrNoRows {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("failed to load challenge: %w", err)
	}

	if attempts >= maxOTPAttempts {
		return "", ErrTooManyAttempts
	}
	if s.now().Unix() > expiresAt {
		return "", ErrExpiredCode
	}
	if subtle.ConstantTimeCompare([]byte(codeHash), []byte(hashCode(code))) != 1 {
		if _, err := s.db.ExecContext(ctx,
			"UPDATE otp_challenges SET attempts = attempts + 1 WHERE email = ?", email); err != nil {
			log.Error("Failed to record failed attempt", "error", err)
		}
		return "", ErrInvalidCode
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM otp_challenges WHERE email = ?", email); err != nil {
		log.Error("Failed to clear challenge", "error", err)
	}
	return s.issueSession(ctx, email)
}

func (s *Service) issueSession(ctx context.Context, email string) (string, error) {
	sessionID := uuid.NewString()
	issued := s.now()
	expires := issued.Add(sessionTTL)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, email, issued_at, expires_at, revoked) VALUES (?, ?, ?, ?, 0)",
		sessionID, email, issued.Unix(), expires.Unix())
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	log.Info("Session issued", "email", email, "session", sessionID)
	return token, nil
}

func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	var revoked int
	err = s.db.QueryRowContext(ctx,
		"SELECT revoked FROM sessions WHERE id = ?", claims.ID).Scan(&revoked)
	if err == sql.ErrNoRows {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if revoked != 0 {
		return "", ErrSessionRevoked
	}
	return claims.Email, nil
}

func (s *Service) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "UPDATE sessions SET revoked = 1 WHERE id = ?", claims.ID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	log.Info("Session revoked", "session", claims.ID)
	return nil
}

// parse checks the signature, then validates expiry against the service
// clock. Library claim validation is skipped; it reads the wall clock and
// would ignore an injected now.
func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
