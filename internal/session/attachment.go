package session

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Attachment holds a decoded binary attachment (an image on a chat turn,
// or an uploaded PDF). The pair (MimeType, Data) is the canonical form;
// data URIs exist only at the edges, for file ingestion and storage.
type Attachment struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ParseDataURI decodes a "data:<mimeType>;base64,<payload>" URI into an
// Attachment. The URI must carry an explicit media type and a base64
// payload; anything else is rejected rather than decoded into garbage.
func ParseDataURI(uri string) (*Attachment, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("data URI missing \"data:\" prefix")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI missing \",\" separator")
	}

	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		return nil, fmt.Errorf("data URI missing media type")
	}
	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("data URI is not base64-encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}

	return &Attachment{MimeType: mimeType, Data: data}, nil
}

// DataURI re-encodes the attachment as a data URI for storage.
func (a *Attachment) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MimeType, base64.StdEncoding.EncodeToString(a.Data))
}
