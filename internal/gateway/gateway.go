package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"admin-gateway/internal/config"
	"admin-gateway/pkg/logger"
)

// Shape is the credential set a backend route requires.
type Shape int

const (
	// ServiceKey routes are not tenant scoped and authenticate as the gateway.
	ServiceKey Shape = iota
	// Tenant routes carry the tenant id as X-API-Key. A live session is still
	// required; it is just not forwarded.
	Tenant
	// TenantAndSession routes also forward the session token as a bearer credential.
	TenantAndSession
)

const (
	HeaderAPIKey        = "X-API-Key"
	HeaderOrgID         = "X-Org-ID"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"

	contentTypeJSON = "application/json"

	defaultFailureMessage = "Request to backend failed"
)

// Credentials are the caller's session token and tenant selection.
type Credentials struct {
	Token    string
	TenantID string
}

// Check fails with a missing-credential error when c lacks what shape needs.
// Every tenant-scoped shape needs both a tenant and a session. Tenant is
// checked first so the caller learns the more actionable gap.
func (c Credentials) Check(shape Shape) error {
	switch shape {
	case ServiceKey:
		return nil
	case Tenant, TenantAndSession:
		if c.TenantID == "" {
			return missing(CredentialTenant)
		}
		if c.Token == "" {
			return missing(CredentialSession)
		}
		return nil
	default:
		return fmt.Errorf("gateway: unknown credential shape %d", shape)
	}
}

// Request describes one backend call.
type Request struct {
	Method      string
	Route       string
	Query       url.Values
	Shape       Shape
	Credentials Credentials

	Body        []byte
	ContentType string
	Header      http.Header

	// FailureMessage is surfaced when a rejection body carries no reason.
	FailureMessage string
}

// Response is a 2xx backend answer, passed through verbatim.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Doer is the transport used to reach the backend.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Gateway forwards client requests to the backend with the right credentials.
type Gateway struct {
	base       *url.URL
	serviceKey string
	client     Doer
}

func New(cfg config.BackendConfig, client Doer) (*Gateway, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: backend url %q is not absolute", cfg.URL)
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("gateway: service key is required")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Gateway{base: base, serviceKey: cfg.ServiceKey, client: client}, nil
}

// Forward performs req against the backend.
//
// Missing credentials fail before any I/O. The backend call is detached from
// ctx cancellation; if ctx is done by the time the backend answers, the
// response is dropped and ErrDiscarded returned.
func (g *Gateway) Forward(ctx context.Context, req Request) (Response, error) {
	if err := req.Credentials.Check(req.Shape); err != nil {
		return Response{}, err
	}

	log := logger.From(ctx).With("route", req.Route, "method", req.Method)

	httpReq, err := g.build(context.WithoutCancel(ctx), req)
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Warn("backend call failed", "err", err)
		return Response{}, &Error{Kind: KindUpstreamUnavailable, Message: "Backend is unavailable", Err: err}
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if ctx.Err() != nil {
		log.Debug("discarding backend response", "status", resp.StatusCode)
		return Response{}, ErrDiscarded
	}
	if readErr != nil {
		return Response{}, &Error{Kind: KindUpstreamUnavailable, Message: "Backend response was interrupted", Err: readErr}
	}

	log.Debug("backend call", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fallback := req.FailureMessage
		if fallback == "" {
			fallback = defaultFailureMessage
		}
		return Response{}, &Error{
			Kind:    KindUpstreamRejected,
			Status:  resp.StatusCode,
			Message: upstreamMessage(body, fallback),
		}
	}

	return Response{Status: resp.StatusCode, ContentType: resp.Header.Get(headerContentType), Body: body}, nil
}

func (g *Gateway) build(ctx context.Context, req Request) (*http.Request, error) {
	u := *g.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Route, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		ct := req.ContentType
		if ct == "" {
			ct = contentTypeJSON
		}
		httpReq.Header.Set(headerContentType, ct)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)

	switch req.Shape {
	case ServiceKey:
		httpReq.Header.Set(HeaderAPIKey, g.serviceKey)
	case Tenant:
		httpReq.Header.Set(HeaderAPIKey, req.Credentials.TenantID)
	case TenantAndSession:
		httpReq.Header.Set(HeaderAPIKey, req.Credentials.TenantID)
		httpReq.Header.Set(headerAuthorization, "Bearer "+req.Credentials.Token)
	}
	return httpReq, nil
}
