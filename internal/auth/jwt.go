package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpiredToken is returned when the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken covers bad signatures, wrong algorithms, malformed
	// tokens and missing required claims.
	ErrInvalidToken = errors.New("invalid token")
)

// JWTManager signs and validates the bearer tokens used by the API.
type JWTManager struct {
	secretKey []byte           // HMAC secret from configuration
	duration  time.Duration    // Token validity window
	now       func() time.Time // Clock, replaceable in tests
}

// Claims is the token payload. Subject carries the user id and ID (jti)
// identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject the token was issued for.
func (c *Claims) UserID() string { return c.Subject }

// TokenID returns the jti claim.
func (c *Claims) TokenID() string { return c.ID }

// ExpiresAtTime returns the expiry as a time.Time (zero if absent).
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// NewJWTManager returns a configured JWTManager.
func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		duration:  duration,
		now:       time.Now,
	}
}

// WithClock replaces the manager's clock and returns the manager.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

// GenerateToken issues a signed token for userID that expires after the
// manager's validity window.
func (m *JWTManager) GenerateToken(userID string) (string, time.Time, error) {
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, errors.New("user id is required")
	}
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.duration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(), // jti, the key a logout denylists
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	// Sign with HS256 (HMAC with SHA-256) using the configured secret
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns its
// claims. Failures are ErrExpiredToken or ErrInvalidToken.
func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	// ParseWithClaims validates the signature. Time-based claims are checked
	// below against the manager's clock.
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Security check: ensure token was signed with HMAC (not asymmetric key)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// Return the secret key used to verify the signature
		return m.secretKey, nil
	},
		// Only HS256 is accepted; rejects "none" and other HMAC sizes
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Subject and expiry are required; a token without exp never expires
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !claims.ExpiresAt.Time.After(m.now()) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
