package auth

import (
	"errors"
	"fmt"
	"time"

	"admin-gateway/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is a minted session. The gateway hands it to the Credential Store
// and keeps no copy.
type Session struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsValid reports whether the session is present and now < ExpiresAt.
func IsValid(s *Session, now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// Manager mints and verifies HS256 session tokens with a fixed lifetime.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.SessionTTL,
	}, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue mints a session token for username valid for the configured lifetime.
func (m *Manager) Issue(now time.Time, username, role string) (Session, error) {
	jti := uuid.NewString()
	issuedAt := now.Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   username,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
		Username: username,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: signed, ID: jti, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and lifetime at now. Expired tokens return
// ErrSessionExpired; every other failure returns ErrInvalidSession.
func (m *Manager) Verify(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMissingSession
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}
	if err := jwt.NewValidator(opts...).Validate(claims.RegisteredClaims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if claims.Username == "" || claims.ID == "" {
		return Claims{}, fmt.Errorf("%w: identity claims missing", ErrInvalidSession)
	}
	return claims, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
