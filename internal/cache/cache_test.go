package cache

import (
	"testing"

	"AgenRP/internal/document"
	"AgenRP/internal/session"
)

func TestKeyIsDeterministic(t *testing.T) {
	docs := []document.Document{{ID: "1", Name: "a.txt", Content: "x"}}
	messages := []session.Message{{Role: session.RoleUser, Content: "soalan"}}

	if Key("preamble", docs, messages) != Key("preamble", docs, messages) {
		t.Error("identical inputs should produce identical keys")
	}
}

func TestKeyChangesWithInputs(t *testing.T) {
	docs := []document.Document{{ID: "1", Name: "a.txt", Content: "x"}}
	messages := []session.Message{{Role: session.RoleUser, Content: "soalan"}}
	base := Key("preamble", docs, messages)

	if Key("other preamble", docs, messages) == base {
		t.Error("changing the preamble should change the key")
	}
	if Key("preamble", nil, messages) == base {
		t.Error("removing a document should change the key")
	}
	if Key("preamble", docs, append(messages, session.Message{Role: session.RoleModel, Content: "jawapan"})) == base {
		t.Error("appending a message should change the key")
	}

	withAttachment := []session.Message{{Role: session.RoleUser, Content: "soalan", Attachment: "data:image/png;base64,AA=="}}
	if Key("preamble", docs, withAttachment) == base {
		t.Error("adding an attachment should change the key")
	}
}
