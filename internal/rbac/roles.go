package rbac

// Role, action and page enumerations. Keep these stable; they are part of the
// permission contract shared with the backend and the console.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleEditor = "editor"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"

	PageHome      = "/"
	PageDashboard = "/dashboard"
	PageSettings  = "/settings"
)

var (
	knownRoles   = map[string]struct{}{RoleAdmin: {}, RoleUser: {}, RoleEditor: {}}
	knownActions = map[string]struct{}{ActionRead: {}, ActionWrite: {}, ActionDelete: {}}
	knownPages   = map[string]struct{}{PageHome: {}, PageDashboard: {}, PageSettings: {}}
)

func IsRole(v string) bool   { _, ok := knownRoles[v]; return ok }
func IsAction(v string) bool { _, ok := knownActions[v]; return ok }
func IsPage(v string) bool   { _, ok := knownPages[v]; return ok }
