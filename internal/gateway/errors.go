package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindMissingCredential   Kind = "missing_credential"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRejected    Kind = "upstream_rejected"
	KindMalformedResponse   Kind = "malformed_upstream_response"
)

// Credential names reported by missing-credential errors.
const (
	CredentialSession    = "token"
	CredentialTenant     = "orgId"
	CredentialServiceKey = "service key"
)

// Error is every failure the gateway reports. Message is safe to show users.
type Error struct {
	Kind Kind
	// Status is the backend status for KindUpstreamRejected, zero otherwise.
	Status int
	// Credential names the absent credential for KindMissingCredential.
	Credential string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrDiscarded is returned when the caller went away before the backend
// answered. The response was read and dropped.
var ErrDiscarded = errors.New("gateway: caller gone, response discarded")

func missing(credential string) *Error {
	return &Error{
		Kind:       KindMissingCredential,
		Credential: credential,
		Message:    fmt.Sprintf("%s is missing", credential),
	}
}

// AsError unwraps err into *Error.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsKind reports whether err is a gateway error of kind k.
func IsKind(err error, k Kind) bool {
	ge, ok := AsError(err)
	return ok && ge.Kind == k
}

// IsMissingTenant reports whether err is a missing tenant selection.
func IsMissingTenant(err error) bool {
	ge, ok := AsError(err)
	return ok && ge.Kind == KindMissingCredential && ge.Credential == CredentialTenant
}

// HTTPStatus maps a gateway error to the status returned to the client.
func HTTPStatus(err error) int {
	ge, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ge.Kind {
	case KindMissingCredential:
		return http.StatusBadRequest
	case KindUpstreamRejected:
		if ge.Status >= 400 && ge.Status <= 599 {
			return ge.Status
		}
		return http.StatusBadGateway
	case KindUpstreamUnavailable, KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// upstreamMessage pulls a human readable reason out of a backend error body.
// FastAPI uses "detail", the portal routes used "message" and "error".
func upstreamMessage(body []byte, fallback string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fallback
	}
	for _, key := range []string{"message", "error", "detail"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallback
}
