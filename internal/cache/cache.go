package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"AgenRP/internal/document"
	"AgenRP/internal/session"
)

// CachedResponse represents a cached API response
type CachedResponse struct {
	Response  string
	Timestamp time.Time
}

// Key generates a cache key covering the preamble, the document corpus and
// the conversation so far. Adding or removing a document changes the key,
// so stale answers are never served after the corpus changes.
func Key(preamble string, docs []document.Document, messages []session.Message) string {
	h := sha256.New()
	h.Write([]byte(preamble))
	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte(doc.Content))
	}
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Content))
		h.Write([]byte(msg.Attachment))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
