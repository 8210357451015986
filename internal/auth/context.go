package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUsername ctxKey = iota
	ctxRole
	ctxSessionID
)

func WithIdentity(ctx context.Context, username, role, sessionID string) context.Context {
	ctx = context.WithValue(ctx, ctxUsername, username)
	ctx = context.WithValue(ctx, ctxRole, role)
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	return ctx
}

func Username(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxUsername).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("username not in context")
}

func Role(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxRole).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role not in context")
}

// SessionID returns the token id (jti) of the authenticated session.
func SessionID(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxSessionID).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("session id not in context")
}
