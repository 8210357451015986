package rbac

import (
	"net/http"

	"admin-gateway/internal/credentials"
	"admin-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequireTenant enforces that a tenant selection exists before any
// tenant-scoped handler runs. It does not validate entitlement; the backend does.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tid := credentials.FromGin(c).TenantID()
		if tid == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "orgId is missing"})
			return
		}
		c.Set(logger.KeyTenantID, tid)
		c.Next()
	}
}
