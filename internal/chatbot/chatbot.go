package chatbot

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"AgenRP/internal/config"
	"AgenRP/internal/credential"
	"AgenRP/internal/document"
	"AgenRP/internal/gemini"
	"AgenRP/internal/session"
	"AgenRP/internal/telemetry"
)

// welcomeMessage is posted as the first model message of a fresh session.
const welcomeMessage = `Selamat datang ke Agen RP Maya!

Saya membantu menjawab soalan berkaitan Rancangan Pemajuan berdasarkan dokumen rujukan yang dimuat naik. Gunakan /upload <fail> untuk menambah dokumen (.txt, .md, .pdf), atau terus bertanya. Taip /help untuk senarai arahan.`

// ChatBot represents the main application
type ChatBot struct {
	config   config.Config
	db       *sql.DB
	cache    sync.Map
	logger   *slog.Logger
	client   *gemini.Client
	resolver *credential.Resolver
	session  *session.Session

	// mu guards the mutable conversation state below. The read-eval loop
	// is strictly sequential — at most one call is ever in flight — but
	// the async session save still needs a consistent view.
	mu           sync.Mutex
	documents    []document.Document
	pendingImage string // data URI attached to the next user turn
	sessionKey   string // API key entered via /apikey this session
	storedKey    string // API key restored from the settings table at start
}

// NewChatBot creates a new ChatBot instance
func NewChatBot(cfg config.Config) (*ChatBot, error) {
	logger, err := telemetry.InitLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, _, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	db, err := telemetry.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	cb := &ChatBot{
		config: cfg,
		db:     db,
		logger: logger,
		client: gemini.NewClient(cfg.BaseURL, logger, tracer, meter),
	}

	// The persisted key is read once at startup; from here on the
	// resolver only sees injected sources, never storage directly.
	storedKey, err := cb.loadSetting(config.StoredKeyName)
	if err != nil {
		logger.Warn("failed to read stored API key", "error", err)
	}
	cb.storedKey = storedKey

	cb.resolver = credential.NewResolver(
		credential.ProviderFunc(func() string { cb.mu.Lock(); defer cb.mu.Unlock(); return cb.sessionKey }),
		credential.ProviderFunc(func() string { cb.mu.Lock(); defer cb.mu.Unlock(); return cb.storedKey }),
		credential.Static(config.BuildAPIKey),
		credential.FromEnv(config.EnvAPIKey),
	)

	if cfg.SessionID != "" {
		sess, err := cb.loadSession(cfg.SessionID)
		if err != nil {
			logger.Warn("failed to load session, creating new one", "error", err)
			cb.session = cb.newSession()
		} else {
			cb.session = sess
			logger.Info("loaded existing session", "session_id", sess.ID)
		}
	} else {
		cb.session = cb.newSession()
	}

	for _, path := range cfg.Documents {
		doc, err := document.Load(path)
		if err != nil {
			logger.Warn("failed to load startup document", "path", path, "error", err)
			fmt.Printf("Gagal memuat dokumen %s: %v\n", path, err)
			continue
		}
		cb.documents = append(cb.documents, doc)
		logger.Info("loaded startup document", "name", doc.Name, "media_type", doc.MediaType)
	}

	return cb, nil
}

// newSession creates a new session seeded with the welcome message
func (cb *ChatBot) newSession() *session.Session {
	sess := &session.Session{
		ID:        fmt.Sprintf("session_%d", time.Now().Unix()),
		StartTime: time.Now(),
		Model:     cb.config.Model,
		Messages:  []session.Message{session.NewMessage(session.RoleModel, welcomeMessage)},
	}
	cb.logger.Info("created new session", "session_id", sess.ID, "model", cb.config.Model)
	return sess
}

// loadSession loads a session from the database
func (cb *ChatBot) loadSession(sessionID string) (*session.Session, error) {
	var model string
	var startTime time.Time

	err := cb.db.QueryRow("SELECT model, start_time FROM sessions WHERE id = ?", sessionID).
		Scan(&model, &startTime)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	rows, err := cb.db.Query(
		"SELECT id, role, content, attachment, timestamp FROM messages WHERE session_id = ? ORDER BY timestamp",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	messages := []session.Message{}
	for rows.Next() {
		var msg session.Message
		var role string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &msg.Attachment, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = session.Role(role)
		if !msg.Role.Valid() {
			return nil, fmt.Errorf("message %s has unknown role %q", msg.ID, role)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return &session.Session{
		ID:        sessionID,
		StartTime: startTime,
		Model:     model,
		Messages:  messages,
	}, nil
}

// saveSession saves the current session to the database
func (cb *ChatBot) saveSession() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	tx, err := cb.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO sessions (id, start_time, model) VALUES (?, ?, ?)",
		cb.session.ID, cb.session.StartTime, cb.session.Model,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	for _, msg := range cb.session.Messages {
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO messages (id, session_id, role, content, attachment, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
			msg.ID, cb.session.ID, string(msg.Role), msg.Content, msg.Attachment, msg.Timestamp,
		)
		if err != nil {
			cb.logger.Warn("failed to save message", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	cb.logger.Info("session saved", "session_id", cb.session.ID, "message_count", len(cb.session.Messages))
	return nil
}

// loadSetting reads one value from the settings table; absence is not an error
func (cb *ChatBot) loadSetting(key string) (string, error) {
	var value string
	err := cb.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// saveSetting writes one value to the settings table
func (cb *ChatBot) saveSetting(key, value string) error {
	if _, err := cb.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// deleteSetting removes one value from the settings table
func (cb *ChatBot) deleteSetting(key string) error {
	if _, err := cb.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// postSystemMessage appends a session-local annotation to the transcript.
// System messages are shown to the user but never sent to the backend.
func (cb *ChatBot) postSystemMessage(text string) {
	cb.mu.Lock()
	cb.session.Messages = append(cb.session.Messages, session.NewMessage(session.RoleSystem, text))
	cb.mu.Unlock()
}

// Run starts the chat loop
func (cb *ChatBot) Run() error {
	defer cb.db.Close()

	fmt.Println("=== Agen RP Maya ===")
	fmt.Printf("Sesi: %s\n", cb.session.ID)
	fmt.Printf("Model: %s\n", cb.config.Model)
	fmt.Println("Taip /help untuk arahan, /quit untuk keluar")
	fmt.Println()
	fmt.Printf("Agen RP: %s\n\n", welcomeMessage)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	ctx := context.Background()

	for {
		fmt.Print("Anda: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := cb.handleCommand(input)
			if err != nil {
				fmt.Printf("Ralat: %v\n", err)
				cb.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		response := cb.sendMessage(ctx, input)
		fmt.Printf("Agen RP: %s\n\n", response)
	}

	if err := cb.saveSession(); err != nil {
		cb.logger.Error("failed to save session on exit", "error", err)
		return err
	}

	fmt.Println("Selamat tinggal!")
	return nil
}
