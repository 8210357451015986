package httpapi

import (
	"net/http"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/credentials"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListOrgs(c *gin.Context) {
	orgs, err := h.Tenants.ListTenants(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

type createOrgRequest struct {
	Name string `json:"name"`
}

func (h Handlers) CreateOrg(c *gin.Context) {
	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "invalid json")
		return
	}
	org, err := h.Tenants.CreateTenant(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.record(c, org.ID, audit.EventTenantCreated, org.Name)
	c.JSON(http.StatusCreated, org)
}

type selectOrgRequest struct {
	OrgID string `json:"orgId"`
}

func (h Handlers) SelectOrg(c *gin.Context) {
	var req selectOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "invalid json")
		return
	}
	store := credentials.FromGin(c)
	if err := h.Tenants.SelectTenant(c.Request.Context(), store, req.OrgID); err != nil {
		h.writeError(c, err)
		return
	}
	id, _ := h.Tenants.CurrentTenant(store)
	h.record(c, id, audit.EventTenantSelected, "")
	c.JSON(http.StatusOK, gin.H{"orgId": id})
}

func (h Handlers) CurrentOrg(c *gin.Context) {
	id, ok := h.Tenants.CurrentTenant(credentials.FromGin(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"orgId": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orgId": id})
}
