// Package gemini is a minimal client for Google's generative-language
// generateContent endpoint. It owns the only outbound network call in the
// application.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the production generative-language endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrProviderRejected is returned when the backend explicitly refuses the
// request for credential or quota reasons (invalid key, expired key,
// exhausted quota) as opposed to transport or server trouble.
var ErrProviderRejected = errors.New("request rejected by provider")

// Client calls the generateContent API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient creates a Gemini API client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// Generate calls the generateContent API with the assembled request and
// returns the model's answer text. An empty answer is returned as an empty
// string, not an error; the caller decides what to show for it.
func (c *Client) Generate(ctx context.Context, apiKey, model string, reqBody GenerateRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "gemini_api_call")
	defer span.End()

	start := time.Now()

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyError(resp.StatusCode, resp.Status, body)
	}

	var apiResp GenerateResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	duration := time.Since(start)
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}

	c.recordUsage(ctx, apiResp.UsageMetadata)

	return apiResp.Text(), nil
}

// classifyError separates credential/quota rejections from everything else
// so the caller can show the right guidance.
func (c *Client) classifyError(statusCode int, status string, body []byte) error {
	var payload apiError
	message := string(body)
	apiStatus := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
		apiStatus = payload.Error.Status
	}

	c.logger.Warn("API error", "status", status, "api_status", apiStatus, "message", message)

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrProviderRejected, message)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrProviderRejected, message)
	case apiStatus == "RESOURCE_EXHAUSTED" || apiStatus == "PERMISSION_DENIED" || apiStatus == "UNAUTHENTICATED":
		return fmt.Errorf("%w: %s", ErrProviderRejected, message)
	case statusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key"):
		return fmt.Errorf("%w: %s", ErrProviderRejected, message)
	}
	return fmt.Errorf("API error: %s - %s", status, message)
}

// recordUsage records OpenTelemetry counters from the response's usage metadata
func (c *Client) recordUsage(ctx context.Context, usage map[string]interface{}) {
	if usage == nil {
		return
	}

	for key, value := range usage {
		if intVal, ok := value.(float64); ok {
			counter, err := c.meter.Int64Counter(
				fmt.Sprintf("llm.usage.%s", key),
				metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
			)
			if err != nil {
				c.logger.Warn("failed to create counter", "key", key, "error", err)
				continue
			}
			counter.Add(ctx, int64(intVal))
		}
	}
}
