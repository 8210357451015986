package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func sessionRouter(s *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireSession(s), func(c *gin.Context) {
		name, _ := Username(c.Request.Context())
		role, _ := Role(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"username": name, "role": role})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	s := newTestService(t, nil)
	r := sessionRouter(s)

	sess, err := s.tokens.Issue(time.Now(), "admin", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := s.tokens.Issue(time.Now().Add(-2*time.Hour), "admin", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	revoked, err := s.tokens.Issue(time.Now(), "admin", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := s.revocations.Revoke(context.Background(), revoked.ID, revoked.ExpiresAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	cases := []struct {
		name    string
		set     func(*http.Request)
		want    int
		cleared bool
	}{
		{"missing", func(*http.Request) {}, http.StatusBadRequest, false},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, true},
		{"expired", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: expired.Token}) }, http.StatusUnauthorized, true},
		{"revoked", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: revoked.Token}) }, http.StatusUnauthorized, true},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: sess.Token}) }, http.StatusOK, false},
		{"api key header", func(r *http.Request) { r.Header.Set("X-API-Key", sess.Token) }, http.StatusOK, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			tc.set(req)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, w.Code, w.Body.String())
			}
			var tokenCookie *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == "token" {
					tokenCookie = c
				}
			}
			if tc.cleared && (tokenCookie == nil || tokenCookie.MaxAge >= 0) {
				t.Fatalf("expected token cookie to be expired, got %+v", tokenCookie)
			}
			if !tc.cleared && tokenCookie != nil {
				t.Fatalf("expected no token cookie, got %+v", tokenCookie)
			}
		})
	}
}
