package chatbot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgenRP/internal/config"
	"AgenRP/internal/document"
	"AgenRP/internal/gemini"
	"AgenRP/internal/session"
)

func newTestBot(t *testing.T, baseURL string) *ChatBot {
	t.Helper()

	// No ambient key: credential sources are under test control.
	t.Setenv(config.EnvAPIKey, "")

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.BaseURL = baseURL

	bot, err := NewChatBot(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { bot.db.Close() })
	return bot
}

func fakeBackend(t *testing.T, answer string, capture *gemini.GenerateRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{{Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: answer}}}}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestMissingCredentialYieldsGuidanceNotError(t *testing.T) {
	server := fakeBackend(t, "should never be reached", nil)
	bot := newTestBot(t, server.URL)

	answer := bot.sendMessage(context.Background(), "Apa itu zon perumahan?")
	assert.Equal(t, keyGuidance, answer)

	// The failed exchange is still in the transcript, as a model message.
	last := bot.session.Messages[len(bot.session.Messages)-1]
	assert.Equal(t, session.RoleModel, last.Role)
	assert.Equal(t, keyGuidance, last.Content)
}

func TestEmptyCorpusSendsNoDocumentsDirective(t *testing.T) {
	var captured gemini.GenerateRequest
	server := fakeBackend(t, "Jawapan.", &captured)
	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	answer := bot.sendMessage(context.Background(), "Apa itu zon perumahan?")
	assert.Equal(t, "Jawapan.", answer)

	require.NotNil(t, captured.SystemInstruction)
	preamble := captured.SystemInstruction.Parts[0].Text
	assert.Contains(t, preamble, "TIADA DOKUMEN DIMUAT NAIK")

	// Current turn travels last, with the question text.
	last := captured.Contents[len(captured.Contents)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "Apa itu zon perumahan?", last.Parts[0].Text)
}

func TestPDFCorpusPrependsSyntheticTurn(t *testing.T) {
	var captured gemini.GenerateRequest
	server := fakeBackend(t, "Jawapan.", &captured)
	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	payload := []byte("%PDF-1.4 fake")
	bot.documents = []document.Document{{
		ID:        "doc-1",
		Name:      "plan.pdf",
		MediaType: document.MediaTypePDF,
		Content:   "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(payload),
	}}

	bot.sendMessage(context.Background(), "Apakah kandungan pelan ini?")

	// The synthetic context turn sits at index 0, ahead of the welcome
	// message and everything else.
	require.NotEmpty(t, captured.Contents)
	synthetic := captured.Contents[0]
	assert.Equal(t, "user", synthetic.Role)
	require.Len(t, synthetic.Parts, 2)
	assert.Contains(t, synthetic.Parts[0].Text, "(1 fail)")
	require.NotNil(t, synthetic.Parts[1].InlineData)
	assert.Equal(t, "application/pdf", synthetic.Parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), synthetic.Parts[1].InlineData.Data)

	// The banner names the PDF but the preamble carries no payload bytes.
	preamble := captured.SystemInstruction.Parts[0].Text
	assert.Contains(t, preamble, "plan.pdf")
	assert.NotContains(t, preamble, base64.StdEncoding.EncodeToString(payload))
}

func TestEmptyAnswerFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	t.Cleanup(server.Close)

	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	answer := bot.sendMessage(context.Background(), "soalan")
	assert.Equal(t, fallbackAnswer, answer)
}

func TestProviderRejectionYieldsKeyGuidance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	}))
	t.Cleanup(server.Close)

	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "bad-key"

	answer := bot.sendMessage(context.Background(), "soalan")
	assert.Equal(t, keyGuidance, answer)
}

func TestFailedCallsAreNotCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "Internal", "status": "INTERNAL"}}`))
	}))
	t.Cleanup(server.Close)

	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	assert.Equal(t, genericGuidance, bot.sendMessage(context.Background(), "soalan"))
	assert.Equal(t, genericGuidance, bot.sendMessage(context.Background(), "soalan"))
	assert.Equal(t, 2, calls, "a failed call must hit the backend again, not the cache")
}

func TestSessionRoundTrip(t *testing.T) {
	server := fakeBackend(t, "Jawapan.", nil)
	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	bot.sendMessage(context.Background(), "Apa itu zon perumahan?")
	require.NoError(t, bot.saveSession())

	loaded, err := bot.loadSession(bot.session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, len(bot.session.Messages))
	for i, msg := range bot.session.Messages {
		assert.Equal(t, msg.ID, loaded.Messages[i].ID)
		assert.Equal(t, msg.Role, loaded.Messages[i].Role)
		assert.Equal(t, msg.Content, loaded.Messages[i].Content)
	}
}

func TestAPIKeySettingPersistence(t *testing.T) {
	server := fakeBackend(t, "ok", nil)
	bot := newTestBot(t, server.URL)

	require.NoError(t, bot.setAPIKey("remembered-key"))

	stored, err := bot.loadSetting(config.StoredKeyName)
	require.NoError(t, err)
	assert.Equal(t, "remembered-key", stored)

	// The resolver now sees the session key without touching storage.
	key, err := bot.resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "remembered-key", key)

	require.NoError(t, bot.setAPIKey("clear"))
	stored, err = bot.loadSetting(config.StoredKeyName)
	require.NoError(t, err)
	assert.Empty(t, stored)
	_, err = bot.resolver.Resolve("")
	assert.Error(t, err)
}

func TestSystemMessagesNeverLeaveTheSession(t *testing.T) {
	var captured gemini.GenerateRequest
	server := fakeBackend(t, "Jawapan.", &captured)
	bot := newTestBot(t, server.URL)
	bot.config.APIKey = "test-key"

	bot.postSystemMessage("1 dokumen telah ditambah. Jumlah dokumen aktif: 1.")
	bot.sendMessage(context.Background(), "soalan")

	for _, turn := range captured.Contents {
		for _, part := range turn.Parts {
			assert.NotContains(t, part.Text, "dokumen telah ditambah")
		}
	}
}
