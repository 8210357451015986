package auth

import "strings"

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type NavAction string

const (
	NavAllow    NavAction = "allow"
	NavRedirect NavAction = "redirect"
)

// Navigation is the route guard's decision. The caller performs it.
type Navigation struct {
	Action   NavAction `json:"action"`
	Location string    `json:"location,omitempty"`
}

// Guard decides, once per navigation, whether path may be shown for a caller
// whose session validity is sessionValid.
func Guard(path string, sessionValid bool) Navigation {
	onLogin := strings.TrimRight(path, "/") == LoginPath
	switch {
	case !sessionValid && !onLogin:
		return Navigation{Action: NavRedirect, Location: LoginPath}
	case sessionValid && onLogin:
		return Navigation{Action: NavRedirect, Location: LandingPath}
	default:
		return Navigation{Action: NavAllow}
	}
}
