package credentials

import (
	"net/http"
	"strings"
	"time"
)

// CookieOptions controls the attributes of cookies written by CookieStore.
type CookieOptions struct {
	// Insecure drops the Secure attribute for plain-http local development.
	Insecure bool
	Now      func() time.Time
}

// CookieStore reads credentials from an inbound request and persists changes
// on the client through Set-Cookie. Writes are visible to later reads within
// the same request.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	token    *string
	tenantID *string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CookieStore{w: w, r: r, opts: opts}
}

// Token resolves the session token from the token cookie, then an
// Authorization bearer header, then X-API-Key.
func (s *CookieStore) Token() string {
	if s.token != nil {
		return *s.token
	}
	if c, err := s.r.Cookie(CookieToken); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	if raw := strings.TrimSpace(s.r.Header.Get(headerAuthorization)); strings.HasPrefix(raw, bearerPrefix) {
		if tok := strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix)); tok != "" {
			return tok
		}
	}
	return strings.TrimSpace(s.r.Header.Get(HeaderAPIKey))
}

// TenantID resolves the tenant selection from the orgId cookie, then X-Org-ID.
func (s *CookieStore) TenantID() string {
	if s.tenantID != nil {
		return *s.tenantID
	}
	if c, err := s.r.Cookie(CookieTenant); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return strings.TrimSpace(s.r.Header.Get(HeaderOrgID))
}

func (s *CookieStore) SetToken(token string, expiresAt time.Time) {
	s.token = &token
	maxAge := int(expiresAt.Sub(s.opts.Now()).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieToken,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   !s.opts.Insecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) SetTenant(tenantID string, ttl time.Duration) {
	s.tenantID = &tenantID
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieTenant,
		Value:    tenantID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   !s.opts.Insecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) ClearToken() {
	empty := ""
	s.token = &empty
	s.expire(CookieToken)
}

func (s *CookieStore) Clear() {
	empty := ""
	s.token = &empty
	s.tenantID = &empty
	s.expire(CookieToken)
	s.expire(CookieTenant)
}

func (s *CookieStore) expire(name string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   !s.opts.Insecure,
		HttpOnly: name == CookieToken,
		SameSite: http.SameSiteStrictMode,
	})
}

// ValidValue reports whether v survives a round trip through a cookie
// unchanged. net/http drops bytes outside printable ASCII and the separators
// below instead of rejecting them.
func ValidValue(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b <= 0x20 || b >= 0x7f || b == '"' || b == ';' || b == '\\' || b == ',' {
			return false
		}
	}
	return true
}
