package proxy

import (
	"context"
	"encoding/json"
	"net/http"

	"admin-gateway/internal/gateway"
)

const HeaderFileName = "X-File-Name"

// FileMetadata is produced by the backend on ingestion.
type FileMetadata struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadDate string `json:"uploadDate"`
}

// Upload is a fully read file payload. The gateway never inspects Data.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Files struct {
	fw Forwarder
}

func NewFiles(fw Forwarder) *Files { return &Files{fw: fw} }

// List returns the backend's {"files": [...]} document unmodified.
func (p *Files) List(ctx context.Context, creds gateway.Credentials) (gateway.Response, error) {
	resp, err := RouteListFiles.do(ctx, p.fw, creds, call{})
	if err != nil {
		return gateway.Response{}, err
	}
	var doc struct {
		Files *[]map[string]json.RawMessage `json:"files"`
	}
	if err := resp.DecodeJSON(&doc); err != nil {
		return gateway.Response{}, err
	}
	if doc.Files == nil {
		return gateway.Response{}, gateway.Malformed("files list missing")
	}
	return resp, nil
}

// Ingest forwards the upload bytes as-is with the tenant in X-Org-ID and
// returns the backend's JSON metadata unmodified.
func (p *Files) Ingest(ctx context.Context, creds gateway.Credentials, up Upload) (gateway.Response, error) {
	if err := creds.Check(RouteIngestDocs.Shape); err != nil {
		return gateway.Response{}, err
	}
	h := http.Header{}
	h.Set(gateway.HeaderOrgID, creds.TenantID)
	if up.Filename != "" {
		h.Set(HeaderFileName, up.Filename)
	}
	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	data := up.Data
	if data == nil {
		data = []byte{}
	}

	resp, err := RouteIngestDocs.do(ctx, p.fw, creds, call{body: data, contentType: ct, header: h})
	if err != nil {
		return gateway.Response{}, err
	}
	var meta map[string]json.RawMessage
	if err := resp.DecodeJSON(&meta); err != nil {
		return gateway.Response{}, err
	}
	if meta == nil {
		return gateway.Response{}, gateway.Malformed("metadata is not an object")
	}
	return resp, nil
}
