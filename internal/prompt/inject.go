package prompt

import (
	"fmt"

	"AgenRP/internal/document"
	"AgenRP/internal/gemini"
	"AgenRP/internal/session"
)

// InjectContext prepends a single synthetic user turn carrying every PDF
// reference document as a binary part, preceded by a fixed explanatory
// text part. Prepending — rather than re-sending the files on each turn —
// keeps them in the model's context once for the whole session.
//
// With no opaque documents the transcoded turns pass through unchanged.
func InjectContext(opaque []document.Document, turns []gemini.Content) ([]gemini.Content, error) {
	if len(opaque) == 0 {
		return turns, nil
	}

	parts := make([]gemini.Part, 0, len(opaque)+1)
	parts = append(parts, gemini.TextPart(fmt.Sprintf(contextIntroFormat, len(opaque))))

	for _, doc := range opaque {
		att, err := session.ParseDataURI(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("document %q has malformed content: %w", doc.Name, err)
		}
		parts = append(parts, gemini.DataPart(string(document.MediaTypePDF), att.Data))
	}

	final := make([]gemini.Content, 0, len(turns)+1)
	final = append(final, gemini.Content{Role: "user", Parts: parts})
	final = append(final, turns...)
	return final, nil
}
