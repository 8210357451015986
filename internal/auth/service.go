package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"admin-gateway/internal/config"
	"admin-gateway/internal/credentials"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the role carried by sessions minted for the console administrator.
const RoleAdmin = "admin"

// Service is the Session Manager: login, validation, logout.
type Service struct {
	tokens      *Manager
	revocations Revocations

	username     string
	passwordHash []byte
	// dummyHash keeps the failure path as slow as the success path.
	dummyHash []byte

	clock func() time.Time
}

func NewService(cfg config.AuthConfig, tokens *Manager, revocations Revocations) (*Service, error) {
	if tokens == nil {
		return nil, errors.New("auth: token manager is required")
	}
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	if cfg.AdminUsername == "" {
		return nil, errors.New("auth: admin username is required")
	}

	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if cfg.AdminPassword == "" {
			return nil, errors.New("auth: admin password or password hash is required")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash admin password: %w", err)
		}
		hash = h
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("auth: admin password hash: %w", err)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	return &Service{
		tokens:       tokens,
		revocations:  revocations,
		username:     cfg.AdminUsername,
		passwordHash: hash,
		dummyHash:    dummy,
		clock:        time.Now,
	}, nil
}

// Login checks the credential pair and mints a session.
func (s *Service) Login(_ context.Context, username, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	hash := s.passwordHash
	if !userOK {
		hash = s.dummyHash
	}
	passErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if !userOK || passErr != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.tokens.Issue(s.clock(), username, RoleAdmin)
}

// Authenticate verifies a raw token and rejects revoked sessions.
func (s *Service) Authenticate(ctx context.Context, token string) (Claims, error) {
	claims, err := s.tokens.Verify(token, s.clock())
	if err != nil {
		return Claims{}, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("auth: revocation lookup: %w", err)
	}
	if revoked {
		return Claims{}, ErrSessionRevoked
	}
	return claims, nil
}

// Valid reports whether the token in store is a live session.
func (s *Service) Valid(ctx context.Context, store credentials.Store) bool {
	_, err := s.Authenticate(ctx, store.Token())
	return err == nil
}

// Logout clears the store and revokes the session if one was present.
// It is idempotent and never fails because of a missing or stale token.
func (s *Service) Logout(ctx context.Context, store credentials.Store) error {
	token := store.Token()
	store.Clear()
	return s.revoke(ctx, token)
}

// EndSession drops and revokes the session token but keeps the tenant
// selection. Used when the backend rejects the caller's credentials.
func (s *Service) EndSession(ctx context.Context, store credentials.Store) error {
	token := store.Token()
	store.ClearToken()
	return s.revoke(ctx, token)
}

func (s *Service) revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token, s.clock())
	if err != nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
