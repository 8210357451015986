package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/auth"
	"admin-gateway/internal/credentials"
	"admin-gateway/internal/gateway"
	"admin-gateway/internal/proxy"
	"admin-gateway/internal/rbac"
	"admin-gateway/internal/tenant"
	"admin-gateway/pkg/logger"
	"admin-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth        *auth.Service
	Tenants     *tenant.Resolver
	Permissions *rbac.Engine
	Escalations *proxy.Escalations
	Themes      *proxy.Themes
	Files       *proxy.Files
	Audit       *audit.Service

	// WriteGuard refuses overlapping saves from one session to one tenant
	// record. Nil disables the check.
	WriteGuard    utils.SlotGuard
	WriteGuardTTL time.Duration

	MaxUploadBytes int64
}

var errWriteInFlight = errors.New("another save is already in progress")

func credentialsOf(c *gin.Context) gateway.Credentials {
	store := credentials.FromGin(c)
	return gateway.Credentials{Token: store.Token(), TenantID: store.TenantID()}
}

func abortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// writeError maps component errors to the client-facing status and message.
func (h Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrDiscarded):
		// The caller is gone; there is nobody to answer.
		logger.FromGin(c).Info("backend response discarded", "path", c.FullPath())
		c.Abort()
		return
	case errors.Is(err, errWriteInFlight):
		abortMessage(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, tenant.ErrEmptyTenantID):
		abortMessage(c, http.StatusBadRequest, "orgId is missing")
		return
	case errors.Is(err, tenant.ErrInvalidTenantID):
		abortMessage(c, http.StatusBadRequest, "orgId is invalid")
		return
	case errors.Is(err, tenant.ErrNameRequired),
		errors.Is(err, proxy.ErrMainColorRequired),
		errors.Is(err, rbac.ErrValidation):
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	if ge, ok := gateway.AsError(err); ok {
		status := gateway.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		if ge.Kind == gateway.KindUpstreamRejected && status == http.StatusUnauthorized {
			// The backend no longer accepts these credentials.
			if err := h.Auth.EndSession(c.Request.Context(), credentials.FromGin(c)); err != nil {
				_ = c.Error(err)
			}
		}
		abortMessage(c, status, ge.Message)
		return
	}

	_ = c.Error(err)
	abortMessage(c, http.StatusInternalServerError, "Internal server error")
}

// passThrough writes a verified 2xx backend answer unmodified.
func passThrough(c *gin.Context, resp gateway.Response) {
	ct := resp.ContentType
	if ct == "" {
		ct = "application/json"
	}
	c.Data(resp.Status, ct, resp.Body)
}

func (h Handlers) record(c *gin.Context, tenantID string, typ audit.EventType, msg string) {
	ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
	h.Audit.Record(ctx, tenantID, typ, msg)
}

// acquireWrite takes the write slot for resource on the caller's session and
// tenant. The returned release is always safe to call.
func (h Handlers) acquireWrite(c *gin.Context, tenantID, resource string) (func(), error) {
	if h.WriteGuard == nil {
		return func() {}, nil
	}
	sid, _ := auth.SessionID(c.Request.Context())
	key := strings.Join([]string{"write", sid, tenantID, resource}, ":")

	ttl := h.WriteGuardTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := h.WriteGuard.Acquire(c.Request.Context(), key, 1, ttl)
	if err != nil {
		return func() {}, err
	}
	if !ok {
		return func() {}, errWriteInFlight
	}
	ctx := context.WithoutCancel(c.Request.Context())
	return func() {
		if err := h.WriteGuard.Release(ctx, key); err != nil {
			logger.From(ctx).Warn("write guard release failed", "key", key, "err", err)
		}
	}, nil
}
