package gateway

import (
	"bytes"
	"encoding/json"
)

// DecodeJSON validates that a 2xx body is JSON matching v. A body that does
// not decode is a contract violation by the backend.
func (r Response) DecodeJSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	if err := dec.Decode(v); err != nil {
		return &Error{Kind: KindMalformedResponse, Message: "Backend returned an unexpected response", Err: err}
	}
	if dec.More() {
		return &Error{Kind: KindMalformedResponse, Message: "Backend returned an unexpected response"}
	}
	return nil
}

// Malformed builds a malformed-response error for schema checks done after decoding.
func Malformed(reason string) error {
	return &Error{Kind: KindMalformedResponse, Message: "Backend returned an unexpected response: " + reason}
}
