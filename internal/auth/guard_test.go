package auth

import "testing"

func TestGuard(t *testing.T) {
	cases := []struct {
		path  string
		valid bool
		want  Navigation
	}{
		{"/dashboard", false, Navigation{Action: NavRedirect, Location: LoginPath}},
		{"/orgs/1/theme", false, Navigation{Action: NavRedirect, Location: LoginPath}},
		{"/login", false, Navigation{Action: NavAllow}},
		{"/login/", true, Navigation{Action: NavRedirect, Location: LandingPath}},
		{"/orgs/1/theme", true, Navigation{Action: NavAllow}},
	}
	for _, tc := range cases {
		if got := Guard(tc.path, tc.valid); got != tc.want {
			t.Fatalf("Guard(%q, %v) = %+v, want %+v", tc.path, tc.valid, got, tc.want)
		}
	}
}
