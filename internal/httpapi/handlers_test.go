package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/auth"
	"admin-gateway/internal/config"
	"admin-gateway/internal/credentials"
	"admin-gateway/internal/gateway"
	"admin-gateway/internal/proxy"
	"admin-gateway/internal/rbac"
	"admin-gateway/internal/tenant"
	"admin-gateway/pkg/logger"
	"admin-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

// fakeBackend records every call and answers from per-path handlers.
type fakeBackend struct {
	srv *httptest.Server

	mu       sync.Mutex
	calls    []backendCall
	handlers map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{handlers: map[string]http.HandlerFunc{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, backendCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   body,
		})
		h := b.handlers[r.URL.Path]
		b.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		if h == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) handle(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = h
}

func (b *fakeBackend) reply(path string, status int, body string) {
	b.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (b *fakeBackend) callsTo(path string) []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []backendCall
	for _, c := range b.calls {
		if c.path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type testApp struct {
	router  *gin.Engine
	backend *fakeBackend
	audit   *audit.MemoryRepo
	engine  *rbac.Engine
}

func newTestApp(t *testing.T, maxUpload int64) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{App: config.AppConfig{Env: "local", Port: 8080}}
	require.NoError(t, cfg.Validate())

	b := newFakeBackend(t)
	gw, err := gateway.New(config.BackendConfig{URL: b.srv.URL, ServiceKey: "svc-key"}, b.srv.Client())
	require.NoError(t, err)

	tokens, err := auth.NewManager(cfg.Auth)
	require.NoError(t, err)
	sessions, err := auth.NewService(cfg.Auth, tokens, auth.NewMemoryRevocations())
	require.NoError(t, err)

	engine := rbac.NewEngine(proxy.NewPermissions(gw))
	resolver := tenant.NewResolver(proxy.NewTenants(gw), tenant.NewMemoryRegistry(), cfg.Tenant.CookieTTL)
	resolver.Subscribe(func(_ context.Context, previous, current string) {
		engine.Invalidate(previous)
		engine.Invalidate(current)
	})
	repo := audit.NewMemoryRepo(0)

	h := Handlers{
		Auth:           sessions,
		Tenants:        resolver,
		Permissions:    engine,
		Escalations:    proxy.NewEscalations(gw),
		Themes:         proxy.NewThemes(gw, cfg.Tenant.DefaultThemeColor),
		Files:          proxy.NewFiles(gw),
		Audit:          audit.NewService(repo),
		WriteGuard:     utils.NewMemorySlotGuard(),
		WriteGuardTTL:  cfg.Tenant.WriteGuardTTL,
		MaxUploadBytes: maxUpload,
	}

	r := gin.New()
	r.Use(logger.Middleware(logger.Discard()))
	r.Use(credentials.Middleware(credentials.CookieOptions{Insecure: true}))
	h.Register(r)

	return &testApp{router: r, backend: b, audit: repo, engine: engine}
}

func (a *testApp) do(method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return a.do(method, path, r, "application/json", cookies...)
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Message
}

// login returns the session cookie.
func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := a.doJSON(http.MethodPost, "/api/login", `{"username":"admin","password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, c)
	return c
}

func (a *testApp) selectOrg(t *testing.T, token *http.Cookie, id string) *http.Cookie {
	t.Helper()
	w := a.doJSON(http.MethodPost, "/api/select-org", `{"orgId":"`+id+`"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := cookieNamed(w, credentials.CookieTenant)
	require.NotNil(t, c)
	return c
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.doJSON(http.MethodPost, "/api/login", `{"username":"admin","password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var ok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	require.NotEmpty(t, ok.Token)
	c := cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.Equal(t, ok.Token, c.Value)

	for _, body := range []string{
		`{"username":"admin","password":"nope"}`,
		`{"username":"root","password":"password"}`,
		`{}`,
	} {
		w := app.doJSON(http.MethodPost, "/api/login", body)
		require.Equal(t, http.StatusUnauthorized, w.Code, body)
		require.Equal(t, "Invalid credentials", messageOf(t, w))
		require.NotContains(t, w.Body.String(), "token")
		require.Nil(t, cookieNamed(w, credentials.CookieToken))
	}
}

func TestWrongMethodSetsAllow(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.doJSON(http.MethodGet, "/api/login", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	require.Equal(t, "Method GET Not Allowed", messageOf(t, w))

	w = app.doJSON(http.MethodPost, "/api/get-escalations", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, http.MethodGet, w.Header().Get("Allow"))

	for _, m := range []string{http.MethodHead, http.MethodOptions} {
		w = app.do(m, "/api/login", nil, "")
		require.Equal(t, http.StatusMethodNotAllowed, w.Code, m)
		require.Equal(t, http.MethodPost, w.Header().Get("Allow"), m)
	}
}

func TestBackendRejection_EndsSession(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/get-escalations", http.StatusUnauthorized, `{"detail":"Invalid API key"}`)

	token := app.login(t)
	org := app.selectOrg(t, token, "org_42")

	w := app.doJSON(http.MethodGet, "/api/get-escalations", "", token, org)
	require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	require.Equal(t, "Invalid API key", messageOf(t, w))
	cleared := cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, cleared)
	require.Less(t, cleared.MaxAge, 0)
	require.Nil(t, cookieNamed(w, credentials.CookieTenant))

	w = app.doJSON(http.MethodGet, "/api/current-org", "", token, org)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A rejection that is not about credentials leaves the session alone.
	fresh := app.login(t)
	app.backend.reply("/get-escalations", http.StatusForbidden, `{"detail":"forbidden"}`)
	w = app.doJSON(http.MethodGet, "/api/get-escalations", "", fresh, org)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Nil(t, cookieNamed(w, credentials.CookieToken))
}

func TestDeadSession_ClearsTokenCookie(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.doJSON(http.MethodGet, "/api/current-org", "", &http.Cookie{Name: credentials.CookieToken, Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	cleared := cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, cleared)
	require.Less(t, cleared.MaxAge, 0)

	token := app.login(t)
	w = app.doJSON(http.MethodPost, "/api/logout", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(http.MethodGet, "/api/current-org", "", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	cleared = cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, cleared)
	require.Less(t, cleared.MaxAge, 0)
}

func TestEscalations_EndToEnd(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/get-escalations", http.StatusOK, `[{"message":"m","response":"r","date":"2024-01-01"}]`)

	token := app.login(t)
	org := app.selectOrg(t, token, "org_42")

	w := app.doJSON(http.MethodGet, "/api/get-escalations", "", token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `[{"message":"m","response":"r","date":"2024-01-01"}]`, w.Body.String())

	calls := app.backend.callsTo("/get-escalations")
	require.Len(t, calls, 1)
	require.Equal(t, "org_42", calls[0].header.Get(gateway.HeaderAPIKey))

	app.backend.reply("/get-escalations", http.StatusInternalServerError, `{"message":"db down"}`)
	w = app.doJSON(http.MethodGet, "/api/get-escalations", "", token, org)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "db down", messageOf(t, w))
}

func TestTenantScopedRoutesRequireSelection(t *testing.T) {
	app := newTestApp(t, 0)
	token := app.login(t)

	for _, path := range []string{"/api/get-escalations", "/api/get-theme", "/api/list-files", "/api/get-permissions"} {
		w := app.doJSON(http.MethodGet, path, "", token)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		require.Equal(t, "orgId is missing", messageOf(t, w))
	}
	require.Zero(t, app.backend.total())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.doJSON(http.MethodGet, "/api/list-orgs", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doJSON(http.MethodGet, "/api/list-orgs", "", &http.Cookie{Name: credentials.CookieToken, Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, app.backend.total())
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestIngestDocs_ForwardsExactBytes(t *testing.T) {
	app := newTestApp(t, 1<<20)
	meta := `{"filename":"notes.txt","size":10,"uploadDate":"2024-03-01T10:00:00Z"}`
	app.backend.reply("/ingest-docs", http.StatusOK, meta)

	token := app.login(t)
	org := app.selectOrg(t, token, "org_7")

	data := []byte("0123456789")
	body, ct := multipartBody(t, "file", "notes.txt", data)
	w := app.do(http.MethodPost, "/api/ingest-docs", body, ct, token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, meta, w.Body.String())

	calls := app.backend.callsTo("/ingest-docs")
	require.Len(t, calls, 1)
	require.Equal(t, data, calls[0].body)
	require.Equal(t, "org_7", calls[0].header.Get(gateway.HeaderOrgID))
	require.Equal(t, "notes.txt", calls[0].header.Get(proxy.HeaderFileName))

	evs, err := app.audit.List(context.Background(), "org_7")
	require.NoError(t, err)
	require.Len(t, evs, 2)
	require.Equal(t, audit.EventDocumentsIngested, evs[0].Type)
	require.Equal(t, "notes.txt", evs[0].Message)
	require.Equal(t, audit.EventTenantSelected, evs[1].Type)
}

func TestIngestDocs_Rejections(t *testing.T) {
	app := newTestApp(t, 256)
	app.backend.reply("/ingest-docs", http.StatusOK, `{}`)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_7")

	body, ct := multipartBody(t, "", "", nil)
	w := app.do(http.MethodPost, "/api/ingest-docs", body, ct, token, org)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "No file uploaded", messageOf(t, w))

	body, ct = multipartBody(t, "file", "big.bin", bytes.Repeat([]byte("x"), 4096))
	w = app.do(http.MethodPost, "/api/ingest-docs", body, ct, token, org)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	require.Empty(t, app.backend.callsTo("/ingest-docs"))
}

// permissionsBackend stores whatever save-permissions receives and serves it
// back from get-permissions.
func permissionsBackend(b *fakeBackend) {
	var mu sync.Mutex
	stored := map[string]json.RawMessage{}
	b.handle("/save-permissions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Permissions json.RawMessage `json:"permissions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		stored[r.URL.Query().Get("org_id")] = body.Permissions
		mu.Unlock()
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	b.handle("/get-permissions", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		p, ok := stored[r.URL.Query().Get("org_id")]
		mu.Unlock()
		if !ok {
			p = json.RawMessage(`{}`)
		}
		_, _ = w.Write(p)
	})
}

func TestPermissions_RoundTripAndCan(t *testing.T) {
	app := newTestApp(t, 0)
	permissionsBackend(app.backend)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	w := app.doJSON(http.MethodGet, "/api/can?role=admin&action=read&page=/dashboard", "", token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `{"allowed":false}`, w.Body.String())

	save := `[{"role":"editor","actions":["write","read","read"],"pages":["/settings"]}]`
	w = app.doJSON(http.MethodPost, "/api/save-permissions", save, token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.doJSON(http.MethodGet, "/api/get-permissions", "", token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `{"roles":["editor"],"permissions":{"editor":{"actions":["read","write"],"pages":["/settings"]}}}`, w.Body.String())

	w = app.doJSON(http.MethodGet, "/api/can?role=editor&action=write&page=/settings", "", token, org)
	require.JSONEq(t, `{"allowed":true}`, w.Body.String())

	other := app.selectOrg(t, token, "org_2")
	w = app.doJSON(http.MethodGet, "/api/can?role=editor&action=write&page=/settings", "", token, other)
	require.JSONEq(t, `{"allowed":false}`, w.Body.String())
}

func TestSavePermissions_RejectsUnknownValues(t *testing.T) {
	app := newTestApp(t, 0)
	permissionsBackend(app.backend)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	w := app.doJSON(http.MethodPost, "/api/save-permissions", `[{"role":"root","actions":["read"],"pages":["/"]}]`, token, org)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, app.backend.callsTo("/save-permissions"))
}

func TestTheme(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/get-theme", http.StatusOK, `{}`)
	app.backend.reply("/save-theme", http.StatusOK, `{"message":"stored"}`)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	w := app.doJSON(http.MethodGet, "/api/get-theme", "", token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `{"mainColor":"#007bff"}`, w.Body.String())
	call := app.backend.callsTo("/get-theme")[0]
	require.Equal(t, "Bearer "+token.Value, call.header.Get("Authorization"))
	require.Equal(t, "org_1", call.header.Get(gateway.HeaderAPIKey))

	w = app.doJSON(http.MethodPost, "/api/save-theme", `{}`, token, org)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "mainColor is required", messageOf(t, w))

	w = app.doJSON(http.MethodPost, "/api/save-theme", `{"mainColor":"banana"}`, token, org)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, app.backend.callsTo("/save-theme"))

	w = app.doJSON(http.MethodPost, "/api/save-theme", `{"mainColor":"#ff0000"}`, token, org)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Theme saved successfully", messageOf(t, w))
	require.JSONEq(t, `{"theme":{"mainColor":"#ff0000"}}`, string(app.backend.callsTo("/save-theme")[0].body))
}

func TestSaveTheme_RejectsOverlappingWrite(t *testing.T) {
	app := newTestApp(t, 0)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	app.backend.handle("/save-theme", func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		_, _ = w.Write([]byte(`{}`))
	})
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	done := make(chan int)
	go func() {
		w := app.doJSON(http.MethodPost, "/api/save-theme", `{"mainColor":"#ff0000"}`, token, org)
		done <- w.Code
	}()
	<-entered

	w := app.doJSON(http.MethodPost, "/api/save-theme", `{"mainColor":"#00ff00"}`, token, org)
	require.Equal(t, http.StatusConflict, w.Code)

	close(release)
	require.Equal(t, http.StatusOK, <-done)

	w = app.doJSON(http.MethodPost, "/api/save-theme", `{"mainColor":"#00ff00"}`, token, org)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestFiles_MalformedListIs502(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/list-files", http.StatusOK, `["a.pdf"]`)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	w := app.doJSON(http.MethodGet, "/api/list-files", "", token, org)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestOrgs_CreateSelectList(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/list-orgs", http.StatusOK, `[{"id":"o1","name":"Acme"}]`)
	token := app.login(t)

	w := app.doJSON(http.MethodGet, "/api/current-org", "", token)
	require.JSONEq(t, `{"orgId":null}`, w.Body.String())

	w = app.doJSON(http.MethodPost, "/api/create-org", `{"name":""}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doJSON(http.MethodPost, "/api/create-org", `{"name":"Globex"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created tenant.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = app.doJSON(http.MethodGet, "/api/list-orgs", "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var orgs []tenant.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orgs))
	require.Equal(t, []tenant.Tenant{{ID: "o1", Name: "Acme"}, created}, orgs)
	require.Equal(t, "svc-key", app.backend.callsTo("/list-orgs")[0].header.Get(gateway.HeaderAPIKey))

	w = app.doJSON(http.MethodPost, "/api/select-org", `{"orgId":""}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Nil(t, cookieNamed(w, credentials.CookieTenant))

	org := app.selectOrg(t, token, created.ID)
	require.Equal(t, "/", org.Path)
	require.Equal(t, http.SameSiteStrictMode, org.SameSite)
	require.Equal(t, 7*24*60*60, org.MaxAge)

	w = app.doJSON(http.MethodGet, "/api/current-org", "", token, org)
	require.JSONEq(t, `{"orgId":"`+created.ID+`"}`, w.Body.String())
}

func TestSelectOrg_RejectsUnstorableID(t *testing.T) {
	app := newTestApp(t, 0)
	token := app.login(t)
	org := app.selectOrg(t, token, "org_1")

	for _, body := range []string{`{"orgId":"org;7"}`, `{"orgId":"org 7"}`, `{"orgId":"org\"7"}`, `{"orgId":"orgé"}`} {
		w := app.doJSON(http.MethodPost, "/api/select-org", body, token, org)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.Equal(t, "orgId is invalid", messageOf(t, w))
		require.Nil(t, cookieNamed(w, credentials.CookieTenant), body)
	}

	w := app.doJSON(http.MethodGet, "/api/current-org", "", token, org)
	require.JSONEq(t, `{"orgId":"org_1"}`, w.Body.String())
}

func TestLogout_RevokesSession(t *testing.T) {
	app := newTestApp(t, 0)
	app.backend.reply("/list-orgs", http.StatusOK, `[]`)
	token := app.login(t)

	w := app.doJSON(http.MethodPost, "/api/logout", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieNamed(w, credentials.CookieToken)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.NotNil(t, cookieNamed(w, credentials.CookieTenant))

	w = app.doJSON(http.MethodGet, "/api/list-orgs", "", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.doJSON(http.MethodPost, "/api/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuard(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.doJSON(http.MethodGet, "/api/route-guard?path=/dashboard", "")
	require.JSONEq(t, `{"action":"redirect","location":"/login"}`, w.Body.String())

	token := app.login(t)
	w = app.doJSON(http.MethodGet, "/api/route-guard?path=/login", "", token)
	require.JSONEq(t, `{"action":"redirect","location":"/dashboard"}`, w.Body.String())

	w = app.doJSON(http.MethodGet, "/api/route-guard?path=/settings", "", token)
	require.JSONEq(t, `{"action":"allow"}`, w.Body.String())

	w = app.doJSON(http.MethodGet, "/api/route-guard", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
