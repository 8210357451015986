package proxy

import (
	"context"

	"admin-gateway/internal/gateway"
)

// Escalation is a chat exchange handed over to a human. Read only.
type Escalation struct {
	Message  string `json:"message"`
	Response string `json:"response"`
	Date     string `json:"date"`
}

type Escalations struct {
	fw Forwarder
}

func NewEscalations(fw Forwarder) *Escalations { return &Escalations{fw: fw} }

// List returns the backend response unmodified once it is known to be a list
// of escalations.
func (p *Escalations) List(ctx context.Context, creds gateway.Credentials) (gateway.Response, error) {
	resp, err := RouteGetEscalations.do(ctx, p.fw, creds, call{})
	if err != nil {
		return gateway.Response{}, err
	}
	var rows []Escalation
	if err := resp.DecodeJSON(&rows); err != nil {
		return gateway.Response{}, err
	}
	return resp, nil
}
