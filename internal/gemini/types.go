package gemini

import "encoding/base64"

// Part represents one typed unit of a turn's payload: either text or
// inline binary data, never both.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded binary content with its media type
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// DataPart builds an inline-data part from raw bytes.
func DataPart(mimeType string, data []byte) Part {
	return Part{InlineData: &InlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// Content represents one role-tagged turn in the conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds sampling parameters for a request
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// GenerateRequest represents the request body for the generateContent API
type GenerateRequest struct {
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate represents one generated answer in the response
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// GenerateResponse represents the response from the generateContent API
type GenerateResponse struct {
	Candidates    []Candidate            `json:"candidates"`
	UsageMetadata map[string]interface{} `json:"usageMetadata"`
}

// Text returns the concatenated text parts of the first candidate, or the
// empty string when the model produced no answer.
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}

// apiError represents the error payload returned on non-200 responses
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
