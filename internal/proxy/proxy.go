// Package proxy holds the per-resource backend routes. Each route is a fixed
// method, path and credential shape layered on the gateway.
package proxy

import (
	"context"
	"net/http"
	"net/url"

	"admin-gateway/internal/gateway"
)

// Forwarder is the gateway as seen by the proxies.
type Forwarder interface {
	Forward(ctx context.Context, req gateway.Request) (gateway.Response, error)
}

// Route is one backend route.
type Route struct {
	Method         string
	Path           string
	Shape          gateway.Shape
	FailureMessage string
}

var (
	RouteListOrgs        = Route{http.MethodGet, "/list-orgs", gateway.ServiceKey, "Failed to fetch organizations"}
	RouteGetEscalations  = Route{http.MethodGet, "/get-escalations", gateway.Tenant, "Failed to fetch escalations"}
	RouteGetPermissions  = Route{http.MethodGet, "/get-permissions", gateway.Tenant, "Failed to fetch permissions"}
	RouteSavePermissions = Route{http.MethodPost, "/save-permissions", gateway.Tenant, "Failed to save permissions"}
	RouteGetTheme        = Route{http.MethodGet, "/get-theme", gateway.TenantAndSession, "Failed to get theme from backend"}
	RouteSaveTheme       = Route{http.MethodPost, "/save-theme", gateway.TenantAndSession, "Failed to save theme"}
	RouteListFiles       = Route{http.MethodGet, "/list-files", gateway.Tenant, "Failed to fetch files"}
	RouteIngestDocs      = Route{http.MethodPost, "/ingest-docs", gateway.Tenant, "Error sending file to backend"}
)

// call is the single place proxies reach the gateway. Credentials are checked
// here so a doomed call never leaves the process.
type call struct {
	query       url.Values
	body        []byte
	contentType string
	header      http.Header
}

func (rt Route) do(ctx context.Context, fw Forwarder, creds gateway.Credentials, c call) (gateway.Response, error) {
	if err := creds.Check(rt.Shape); err != nil {
		return gateway.Response{}, err
	}
	return fw.Forward(ctx, gateway.Request{
		Method:         rt.Method,
		Route:          rt.Path,
		Query:          c.query,
		Shape:          rt.Shape,
		Credentials:    creds,
		Body:           c.body,
		ContentType:    c.contentType,
		Header:         c.header,
		FailureMessage: rt.FailureMessage,
	})
}
