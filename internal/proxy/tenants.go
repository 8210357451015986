package proxy

import (
	"context"
	"fmt"

	"admin-gateway/internal/gateway"
	"admin-gateway/internal/tenant"
)

// Tenants lists organizations with the gateway's service key.
type Tenants struct {
	fw Forwarder
}

func NewTenants(fw Forwarder) *Tenants { return &Tenants{fw: fw} }

func (p *Tenants) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	resp, err := RouteListOrgs.do(ctx, p.fw, gateway.Credentials{}, call{})
	if err != nil {
		return nil, err
	}
	var out []tenant.Tenant
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	for i, t := range out {
		if t.ID == "" {
			return nil, gateway.Malformed(fmt.Sprintf("organization %d has no id", i))
		}
	}
	if out == nil {
		out = []tenant.Tenant{}
	}
	return out, nil
}
