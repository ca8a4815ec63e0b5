package prompt

import (
	"fmt"

	"AgenRP/internal/gemini"
	"AgenRP/internal/session"
)

// TranscodeHistory converts the conversation log into provider-native
// turns, in chronological order. System messages are session-local
// annotations and are filtered out. A turn with an image attachment gets
// the decoded image part before its text part; the text part is always
// emitted, even when empty, so every turn has at least one part.
//
// A malformed attachment anywhere aborts the whole transcode: a partial
// history would misrepresent the conversation to the model.
func TranscodeHistory(messages []session.Message) ([]gemini.Content, error) {
	var turns []gemini.Content
	for _, msg := range messages {
		if msg.Role == session.RoleSystem {
			continue
		}

		var parts []gemini.Part
		if msg.Attachment != "" {
			att, err := session.ParseDataURI(msg.Attachment)
			if err != nil {
				return nil, fmt.Errorf("message %s has a malformed attachment: %w", msg.ID, err)
			}
			parts = append(parts, gemini.DataPart(att.MimeType, att.Data))
		}
		parts = append(parts, gemini.TextPart(msg.Content))

		turns = append(turns, gemini.Content{Role: turnRole(msg.Role), Parts: parts})
	}
	return turns, nil
}

// CurrentParts builds the current-turn payload the same way a historical
// turn is built: the text part, plus the decoded image part when an image
// data URI is attached.
func CurrentParts(text, imageDataURI string) ([]gemini.Part, error) {
	parts := []gemini.Part{gemini.TextPart(text)}
	if imageDataURI != "" {
		att, err := session.ParseDataURI(imageDataURI)
		if err != nil {
			return nil, fmt.Errorf("attached image is malformed: %w", err)
		}
		parts = append(parts, gemini.DataPart(att.MimeType, att.Data))
	}
	return parts, nil
}

func turnRole(r session.Role) string {
	if r == session.RoleUser {
		return "user"
	}
	return "model"
}
