package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"admin-gateway/internal/auth"
	"admin-gateway/internal/rbac"

	"github.com/gin-gonic/gin"
)

var routedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// Register mounts every console route under /api. Each path answers one
// method; the others get 405 with an Allow header.
func (h Handlers) Register(r *gin.Engine) {
	api := r.Group("/api")

	mount := func(g gin.IRoutes, method, path string, handlers ...gin.HandlerFunc) {
		g.Handle(method, path, handlers...)
		full := "/api" + path
		for _, m := range routedMethods {
			if m != method {
				r.Handle(m, full, methodNotAllowed(method))
			}
		}
	}

	// public
	mount(api, http.MethodPost, "/login", h.Login)
	mount(api, http.MethodPost, "/logout", h.Logout)
	mount(api, http.MethodGet, "/route-guard", h.RouteGuard)

	session := api.Group("", auth.RequireSession(h.Auth))
	mount(session, http.MethodGet, "/list-orgs", h.ListOrgs)
	mount(session, http.MethodPost, "/create-org", h.CreateOrg)
	mount(session, http.MethodPost, "/select-org", h.SelectOrg)
	mount(session, http.MethodGet, "/current-org", h.CurrentOrg)

	scoped := session.Group("", rbac.RequireTenant())
	mount(scoped, http.MethodGet, "/get-escalations", h.GetEscalations)
	mount(scoped, http.MethodGet, "/get-permissions", h.GetPermissions)
	mount(scoped, http.MethodPost, "/save-permissions", h.SavePermissions)
	mount(scoped, http.MethodGet, "/can", h.Can)
	mount(scoped, http.MethodGet, "/get-theme", h.GetTheme)
	mount(scoped, http.MethodPost, "/save-theme", h.SaveTheme)
	mount(scoped, http.MethodGet, "/list-files", h.ListFiles)
	mount(scoped, http.MethodPost, "/ingest-docs", h.IngestDocs)
}

func methodNotAllowed(allow ...string) gin.HandlerFunc {
	allowed := strings.Join(allow, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allowed)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
			"message": fmt.Sprintf("Method %s Not Allowed", c.Request.Method),
		})
	}
}
