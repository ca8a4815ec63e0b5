// Package document models the uploaded reference corpus: plain-text and
// markdown files whose content is inlined into the system instruction, and
// PDF files whose content travels to the model as binary parts.
package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaType is the declared type of an uploaded document. It is fixed at
// ingestion and never changes.
type MediaType string

const (
	MediaTypeText     MediaType = "text/plain"
	MediaTypeMarkdown MediaType = "text/markdown"
	MediaTypePDF      MediaType = "application/pdf"
)

// ErrUnsupportedMediaType is returned when an upload is neither
// text/markdown nor PDF. Nothing else enters the corpus.
var ErrUnsupportedMediaType = errors.New("unsupported document type (only .txt, .md and .pdf are accepted)")

// Document represents one uploaded reference artifact. Content holds raw
// text for textual documents and a base64 data URI for PDFs.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MediaType MediaType `json:"media_type"`
	Content   string    `json:"content"`
}

// Textual reports whether the document's content can be inlined as text.
func (d Document) Textual() bool {
	return d.MediaType == MediaTypeText || d.MediaType == MediaTypeMarkdown
}

// New validates the media type and creates a document with a fresh ID.
func New(name string, mediaType MediaType, content string) (Document, error) {
	switch mediaType {
	case MediaTypeText, MediaTypeMarkdown, MediaTypePDF:
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	return Document{
		ID:        uuid.NewString(),
		Name:      name,
		MediaType: mediaType,
		Content:   content,
	}, nil
}

// Load reads a file from disk and ingests it as a document. The media type
// is derived from the file extension; PDFs are stored as base64 data URIs,
// text and markdown as raw text.
func Load(path string) (Document, error) {
	var mediaType MediaType
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		mediaType = MediaTypeText
	case ".md", ".markdown":
		mediaType = MediaTypeMarkdown
	case ".pdf":
		mediaType = MediaTypePDF
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	content := string(raw)
	if mediaType == MediaTypePDF {
		content = fmt.Sprintf("data:%s;base64,%s", MediaTypePDF, base64.StdEncoding.EncodeToString(raw))
	}

	return New(filepath.Base(path), mediaType, content)
}

// Partition splits the corpus into textual documents (inlined into the
// preamble) and opaque PDF documents (sent as binary context parts).
// Relative order within each group is preserved; inputs are not mutated.
func Partition(docs []Document) (textual, opaque []Document) {
	for _, d := range docs {
		if d.MediaType == MediaTypePDF {
			opaque = append(opaque, d)
		} else {
			textual = append(textual, d)
		}
	}
	return textual, opaque
}
