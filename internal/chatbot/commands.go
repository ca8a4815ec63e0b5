package chatbot

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AgenRP/internal/config"
	"AgenRP/internal/document"
	"AgenRP/internal/session"
)

// handleCommand handles special commands
func (cb *ChatBot) handleCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new-session":
		if err := cb.saveSession(); err != nil {
			cb.logger.Error("failed to save current session", "error", err)
		}
		cb.session = cb.newSession()
		fmt.Println("Sesi baharu dimulakan:", cb.session.ID)
		return false, nil

	case "/session-id":
		fmt.Println("Sesi semasa:", cb.session.ID)
		return false, nil

	case "/upload":
		if len(parts) < 2 {
			return false, fmt.Errorf("penggunaan: /upload <fail> [fail...]")
		}
		return false, cb.uploadDocuments(parts[1:])

	case "/docs":
		cb.listDocuments()
		return false, nil

	case "/remove":
		if len(parts) < 2 {
			return false, fmt.Errorf("penggunaan: /remove <id>")
		}
		return false, cb.removeDocument(parts[1])

	case "/attach":
		if len(parts) < 2 {
			return false, fmt.Errorf("penggunaan: /attach <fail imej>")
		}
		return false, cb.attachImage(parts[1])

	case "/detach":
		cb.mu.Lock()
		cb.pendingImage = ""
		cb.mu.Unlock()
		fmt.Println("Lampiran imej dibuang.")
		return false, nil

	case "/apikey":
		if len(parts) < 2 {
			return false, fmt.Errorf("penggunaan: /apikey <key> | /apikey clear")
		}
		return false, cb.setAPIKey(parts[1])

	case "/share":
		cb.shareTranscript()
		return false, nil

	case "/help":
		fmt.Println("Arahan yang tersedia:")
		fmt.Println("  /quit, /exit        - Keluar")
		fmt.Println("  /new-session        - Mulakan sesi baharu")
		fmt.Println("  /session-id         - Papar ID sesi semasa")
		fmt.Println("  /upload <fail>      - Muat naik dokumen rujukan (.txt, .md, .pdf)")
		fmt.Println("  /docs               - Senarai dokumen rujukan")
		fmt.Println("  /remove <id>        - Buang dokumen mengikut ID")
		fmt.Println("  /attach <fail>      - Lampirkan imej pada soalan seterusnya")
		fmt.Println("  /detach             - Buang lampiran imej")
		fmt.Println("  /apikey <key>       - Simpan API Key (atau: /apikey clear)")
		fmt.Println("  /share              - Papar transkrip perbualan")
		fmt.Println("  /help               - Papar bantuan ini")
		return false, nil

	default:
		return false, nil
	}
}

// uploadDocuments ingests files into the corpus and posts a system
// annotation into the transcript.
func (cb *ChatBot) uploadDocuments(paths []string) error {
	added := 0
	for _, path := range paths {
		doc, err := document.Load(path)
		if err != nil {
			fmt.Printf("Fail %q tidak disokong atau gagal dibaca: %v\n", path, err)
			cb.logger.Warn("document rejected", "path", path, "error", err)
			continue
		}
		cb.mu.Lock()
		cb.documents = append(cb.documents, doc)
		cb.mu.Unlock()
		cb.logger.Info("document added", "id", doc.ID, "name", doc.Name, "media_type", doc.MediaType)
		added++
		fmt.Printf("Dokumen ditambah: %s (%s)\n", doc.Name, doc.MediaType)
	}
	if added > 0 {
		cb.mu.Lock()
		total := len(cb.documents)
		cb.mu.Unlock()
		cb.postSystemMessage(fmt.Sprintf("%d dokumen telah ditambah. Jumlah dokumen aktif: %d.", added, total))
	}
	return nil
}

// listDocuments prints the active corpus
func (cb *ChatBot) listDocuments() {
	cb.mu.Lock()
	docs := make([]document.Document, len(cb.documents))
	copy(docs, cb.documents)
	cb.mu.Unlock()

	if len(docs) == 0 {
		fmt.Println("Tiada dokumen rujukan dimuat naik.")
		return
	}
	fmt.Println("Dokumen rujukan aktif:")
	for i, doc := range docs {
		fmt.Printf("%d. [%s] %s (%s)\n", i+1, doc.ID[:8], doc.Name, doc.MediaType)
	}
}

// removeDocument removes a document by ID or unambiguous ID prefix
func (cb *ChatBot) removeDocument(id string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	index := -1
	for i, doc := range cb.documents {
		if doc.ID == id || strings.HasPrefix(doc.ID, id) {
			if index != -1 {
				return fmt.Errorf("ID %q sepadan dengan lebih daripada satu dokumen", id)
			}
			index = i
		}
	}
	if index == -1 {
		return fmt.Errorf("tiada dokumen dengan ID %q", id)
	}

	removed := cb.documents[index]
	cb.documents = append(cb.documents[:index], cb.documents[index+1:]...)
	cb.session.Messages = append(cb.session.Messages,
		session.NewMessage(session.RoleSystem, fmt.Sprintf("Dokumen %q dibuang. Jumlah dokumen aktif: %d.", removed.Name, len(cb.documents))))
	cb.logger.Info("document removed", "id", removed.ID, "name", removed.Name)
	fmt.Printf("Dokumen dibuang: %s\n", removed.Name)
	return nil
}

// attachImage stages an image for the next user turn
func (cb *ChatBot) attachImage(path string) error {
	var mimeType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mimeType = "image/png"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".webp":
		mimeType = "image/webp"
	default:
		return fmt.Errorf("sila lampirkan fail imej sahaja (JPG/PNG/WEBP)")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gagal membaca imej: %w", err)
	}

	cb.mu.Lock()
	cb.pendingImage = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))
	cb.mu.Unlock()

	cb.logger.Info("image attached", "path", path, "mime_type", mimeType, "bytes", len(raw))
	fmt.Printf("Imej %s akan dilampirkan pada soalan seterusnya.\n", filepath.Base(path))
	return nil
}

// setAPIKey remembers or clears the API key. The value becomes both the
// session-entered key and the persisted key, like the settings surface of
// the original app.
func (cb *ChatBot) setAPIKey(value string) error {
	if value == "clear" {
		cb.mu.Lock()
		cb.sessionKey = ""
		cb.storedKey = ""
		cb.mu.Unlock()
		if err := cb.deleteSetting(config.StoredKeyName); err != nil {
			return err
		}
		fmt.Println("API Key dipadamkan.")
		return nil
	}

	cb.mu.Lock()
	cb.sessionKey = value
	cb.storedKey = value
	cb.mu.Unlock()
	if err := cb.saveSetting(config.StoredKeyName, value); err != nil {
		return err
	}
	fmt.Println("API Key disimpan.")
	return nil
}

// shareTranscript prints a plain-text transcript of the conversation,
// excluding system annotations.
func (cb *ChatBot) shareTranscript() {
	cb.mu.Lock()
	messages := make([]session.Message, len(cb.session.Messages))
	copy(messages, cb.session.Messages)
	cb.mu.Unlock()

	var entries []string
	for _, msg := range messages {
		if msg.Role == session.RoleSystem {
			continue
		}
		sender := "Agen RP Maya"
		if msg.Role == session.RoleUser {
			sender = "Pengguna"
		}
		attachment := ""
		if msg.Attachment != "" {
			attachment = "[Gambar dilampirkan]\n"
		}
		entries = append(entries, fmt.Sprintf("[%s] %s:\n%s%s",
			msg.Timestamp.Format("15:04"), sender, attachment, msg.Content))
	}

	if len(entries) <= 1 {
		fmt.Println("Tiada perbualan untuk dikongsi.")
		return
	}

	fmt.Println(strings.Join(entries, "\n\n------------------------\n\n"))
}
