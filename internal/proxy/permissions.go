package proxy

import (
	"context"
	"encoding/json"
	"net/url"

	"admin-gateway/internal/gateway"
	"admin-gateway/internal/rbac"
)

// Permissions is the backend store behind the Permission Engine.
type Permissions struct {
	fw Forwarder
}

func NewPermissions(fw Forwarder) *Permissions { return &Permissions{fw: fw} }

func (p *Permissions) FetchPermissions(ctx context.Context, creds gateway.Credentials) (rbac.Rules, error) {
	resp, err := RouteGetPermissions.do(ctx, p.fw, creds, call{query: orgQuery(creds)})
	if err != nil {
		return nil, err
	}
	var rules rbac.Rules
	if err := resp.DecodeJSON(&rules); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, gateway.Malformed(err.Error())
	}
	if rules == nil {
		rules = rbac.Rules{}
	}
	return rules, nil
}

type savePermissionsBody struct {
	Permissions rbac.Rules `json:"permissions"`
}

func (p *Permissions) SavePermissions(ctx context.Context, creds gateway.Credentials, rules rbac.Rules) error {
	if err := creds.Check(RouteSavePermissions.Shape); err != nil {
		return err
	}
	body, err := json.Marshal(savePermissionsBody{Permissions: rules})
	if err != nil {
		return err
	}
	_, err = RouteSavePermissions.do(ctx, p.fw, creds, call{query: orgQuery(creds), body: body})
	return err
}

func orgQuery(creds gateway.Credentials) url.Values {
	return url.Values{"org_id": {creds.TenantID}}
}
