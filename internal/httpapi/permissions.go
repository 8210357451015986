package httpapi

import (
	"net/http"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/rbac"

	"github.com/gin-gonic/gin"
)

// GetPermissions returns the selected tenant's rules as role names plus the
// full mapping.
func (h Handlers) GetPermissions(c *gin.Context) {
	rules, err := h.Permissions.Fetch(c.Request.Context(), credentialsOf(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	list := rules.List()
	roles := make([]string, 0, len(list))
	for _, rr := range list {
		roles = append(roles, rr.Role)
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles, "permissions": rules})
}

// SavePermissions replaces the tenant's rule set with the submitted list.
func (h Handlers) SavePermissions(c *gin.Context) {
	var list []rbac.RoleRule
	if err := c.ShouldBindJSON(&list); err != nil {
		abortMessage(c, http.StatusBadRequest, "invalid json")
		return
	}
	rules, err := rbac.FromList(list)
	if err != nil {
		h.writeError(c, err)
		return
	}

	creds := credentialsOf(c)
	release, err := h.acquireWrite(c, creds.TenantID, "permissions")
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer release()

	if err := h.Permissions.Save(c.Request.Context(), creds, rules); err != nil {
		h.writeError(c, err)
		return
	}
	h.record(c, creds.TenantID, audit.EventPermissionsSaved, "")
	c.JSON(http.StatusOK, gin.H{"message": "Permissions saved successfully"})
}

// Can answers an advisory permission check from the tenant's last-fetched
// rules, fetching once when none are cached.
func (h Handlers) Can(c *gin.Context) {
	role, action, page := c.Query("role"), c.Query("action"), c.Query("page")
	if role == "" || action == "" || page == "" {
		abortMessage(c, http.StatusBadRequest, "role, action and page are required")
		return
	}
	creds := credentialsOf(c)
	if _, ok := h.Permissions.Snapshot(creds.TenantID); !ok {
		if _, err := h.Permissions.Fetch(c.Request.Context(), creds); err != nil {
			h.writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"allowed": h.Permissions.IsAllowed(creds.TenantID, role, action, page)})
}
