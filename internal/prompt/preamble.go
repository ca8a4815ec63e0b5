// Package prompt assembles the outbound request payload: the system
// preamble, the transcoded conversation history, and the synthetic context
// turn carrying PDF reference files. Everything here is a pure function of
// its inputs; the same messages and documents always produce the same
// payload.
package prompt

import (
	"fmt"
	"strings"

	"AgenRP/internal/document"
)

// BuildPreamble assembles the system instruction text: persona
// instructions, the document-status banner, and the full content of every
// textual document in partition order. PDF content is only ever named in
// the banner — inlining its base64 payload as text would corrupt it, so it
// travels as binary parts instead (see InjectContext).
func BuildPreamble(persona string, docs []document.Document) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString(bannerHeader)

	if len(docs) > 0 {
		names := make([]string, len(docs))
		for i, d := range docs {
			names[i] = d.Name
		}
		b.WriteString(docsUploadedPrefix)
		b.WriteString(strings.Join(names, ", "))
	} else {
		b.WriteString(noDocsDirective)
	}

	textual, _ := document.Partition(docs)
	if len(textual) > 0 {
		b.WriteString(textContentStart)
		for i, doc := range textual {
			b.WriteString(fmt.Sprintf("\n\nDOKUMEN %d: %s\n%s", i+1, doc.Name, doc.Content))
		}
		b.WriteString(textContentEnd)
	}

	return b.String()
}
