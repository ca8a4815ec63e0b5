package chatbot

import (
	"context"
	"errors"
	"time"

	"AgenRP/internal/cache"
	"AgenRP/internal/credential"
	"AgenRP/internal/document"
	"AgenRP/internal/gemini"
	"AgenRP/internal/prompt"
	"AgenRP/internal/session"
)

// The dispatch boundary maps every failure onto exactly one of these
// user-facing strings. Raw errors never reach the transcript.
const (
	// fallbackAnswer replaces an empty answer from the backend.
	fallbackAnswer = "Maaf, saya tidak dapat menjana jawapan pada masa ini."

	// keyGuidance covers missing credentials and provider rejections
	// (invalid or expired key, exhausted quota).
	keyGuidance = "RALAT API KEY: Sila masukkan API Key melalui arahan /apikey, atau tetapkan pembolehubah persekitaran GEMINI_API_KEY."

	// genericGuidance covers everything else: transport trouble, encoding
	// problems, unexpected provider errors.
	genericGuidance = "Maaf, terdapat masalah teknikal. Sila semak sambungan internet atau API Key anda."
)

// sendMessage appends the user's turn, dispatches the assembled request
// and appends the answer. It always returns something printable: the
// answer text, the empty-answer fallback, or one of the two guidance
// strings. Failed calls are never cached.
func (cb *ChatBot) sendMessage(ctx context.Context, userText string) string {
	cb.mu.Lock()
	history := make([]session.Message, len(cb.session.Messages))
	copy(history, cb.session.Messages)
	docs := make([]document.Document, len(cb.documents))
	copy(docs, cb.documents)
	image := cb.pendingImage
	cb.pendingImage = ""

	userMsg := session.NewMessage(session.RoleUser, userText)
	userMsg.Attachment = image
	cb.session.Messages = append(cb.session.Messages, userMsg)
	cb.mu.Unlock()

	preamble := prompt.BuildPreamble(prompt.PersonaInstruction, docs)

	cacheKey := cache.Key(preamble, docs, append(history, userMsg))
	if cached, ok := cb.checkCache(cacheKey); ok {
		cb.appendAnswer(cached)
		return cached
	}

	answer, err := cb.ask(ctx, preamble, docs, history, userText, image)
	if err != nil {
		cb.logger.Error("dispatch failed", "error", err)
		guidance := genericGuidance
		if errors.Is(err, credential.ErrMissingCredential) || errors.Is(err, gemini.ErrProviderRejected) {
			guidance = keyGuidance
		}
		cb.appendAnswer(guidance)
		return guidance
	}

	if answer == "" {
		answer = fallbackAnswer
	}

	cb.storeCache(cacheKey, answer)
	cb.appendAnswer(answer)

	go func() {
		if err := cb.saveSession(); err != nil {
			cb.logger.Error("failed to save session", "error", err)
		}
	}()

	return answer
}

// ask resolves the credential, assembles the request from the snapshot and
// performs the single network call. Missing credentials and malformed
// attachments fail here, before any network I/O happens.
func (cb *ChatBot) ask(ctx context.Context, preamble string, docs []document.Document, history []session.Message, userText, imageDataURI string) (string, error) {
	apiKey, err := cb.resolver.Resolve(cb.config.APIKey)
	if err != nil {
		return "", err
	}

	turns, err := prompt.TranscodeHistory(history)
	if err != nil {
		return "", err
	}

	_, opaque := document.Partition(docs)
	finalTurns, err := prompt.InjectContext(opaque, turns)
	if err != nil {
		return "", err
	}

	currentParts, err := prompt.CurrentParts(userText, imageDataURI)
	if err != nil {
		return "", err
	}

	req := gemini.GenerateRequest{
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{gemini.TextPart(preamble)}},
		Contents:          append(finalTurns, gemini.Content{Role: "user", Parts: currentParts}),
		GenerationConfig:  &gemini.GenerationConfig{Temperature: cb.config.Temperature},
	}

	return cb.client.Generate(ctx, apiKey, cb.config.Model, req)
}

// appendAnswer records the model's reply in the transcript
func (cb *ChatBot) appendAnswer(answer string) {
	cb.mu.Lock()
	cb.session.Messages = append(cb.session.Messages, session.NewMessage(session.RoleModel, answer))
	cb.mu.Unlock()
}

// checkCache checks if a response is cached
func (cb *ChatBot) checkCache(cacheKey string) (string, bool) {
	if val, ok := cb.cache.Load(cacheKey); ok {
		cached := val.(cache.CachedResponse)
		cb.logger.Info("cache hit", "key", cacheKey[:16])
		return cached.Response, true
	}
	return "", false
}

// storeCache stores a response in cache
func (cb *ChatBot) storeCache(cacheKey, response string) {
	cb.cache.Store(cacheKey, cache.CachedResponse{
		Response:  response,
		Timestamp: time.Now(),
	})
	cb.logger.Info("cached response", "key", cacheKey[:16])
}
