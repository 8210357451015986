package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"admin-gateway/internal/gateway"
)

var ErrMainColorRequired = errors.New("mainColor is required")

// Theme is the per-tenant widget theme.
type Theme struct {
	MainColor string `json:"mainColor"`
}

type Themes struct {
	fw           Forwarder
	defaultColor string
}

func NewThemes(fw Forwarder, defaultColor string) *Themes {
	return &Themes{fw: fw, defaultColor: defaultColor}
}

// Get returns the tenant's theme, filling mainColor with the default when the
// backend has none.
func (p *Themes) Get(ctx context.Context, creds gateway.Credentials) (Theme, error) {
	resp, err := RouteGetTheme.do(ctx, p.fw, creds, call{})
	if err != nil {
		return Theme{}, err
	}
	var fields map[string]json.RawMessage
	if err := resp.DecodeJSON(&fields); err != nil {
		return Theme{}, err
	}

	var th Theme
	if raw, ok := fields["mainColor"]; ok {
		if err := json.Unmarshal(raw, &th.MainColor); err != nil {
			return Theme{}, gateway.Malformed("mainColor is not a string")
		}
	}
	if strings.TrimSpace(th.MainColor) == "" {
		th.MainColor = p.defaultColor
	}
	return th, nil
}

type saveThemeBody struct {
	Theme Theme `json:"theme"`
}

func (p *Themes) Save(ctx context.Context, creds gateway.Credentials, th Theme) error {
	if strings.TrimSpace(th.MainColor) == "" {
		return ErrMainColorRequired
	}
	if err := creds.Check(RouteSaveTheme.Shape); err != nil {
		return err
	}
	body, err := json.Marshal(saveThemeBody{Theme: th})
	if err != nil {
		return err
	}
	_, err = RouteSaveTheme.do(ctx, p.fw, creds, call{body: body})
	return err
}
