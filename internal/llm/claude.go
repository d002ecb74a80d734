package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicModel   = "claude-sonnet-4-5-20250929"
	anthropicVersion        = "2023-06-01"
)

// ClaudeClient calls the Anthropic Messages API.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	Stats      *Stats
}

func NewClaudeClient(apiKey, model, baseURL string, stats *Stats) *ClaudeClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultAnthropicModel
	}
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: stats,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls Claude with the grounding as the system prompt.
func (c *ClaudeClient) Generate(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { c.Stats.Record(time.Since(start).Milliseconds(), err != nil) }()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		// The Messages API requires max_tokens.
		maxTokens = 1024
	}
	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, &UnavailableError{Provider: ProviderAnthropic, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, &UnavailableError{Provider: ProviderAnthropic, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	// 529 is Anthropic's "overloaded".
	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
		return Response{}, &UnavailableError{
			Provider:   ProviderAnthropic,
			StatusCode: httpResp.StatusCode,
			Message:    string(respBody),
		}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Response{}, &InvalidResponseError{
			Provider:   ProviderAnthropic,
			StatusCode: httpResp.StatusCode,
			Reason:     "decode response: " + err.Error(),
			Raw:        rawPayload(respBody),
		}
	}
	if apiResp.Error != nil || httpResp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("unexpected status %d", httpResp.StatusCode)
		if apiResp.Error != nil {
			reason = apiResp.Error.Type + ": " + apiResp.Error.Message
		}
		return Response{}, &InvalidResponseError{
			Provider:   ProviderAnthropic,
			StatusCode: httpResp.StatusCode,
			Reason:     reason,
			Raw:        rawPayload(respBody),
		}
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return Response{}, &InvalidResponseError{
			Provider:   ProviderAnthropic,
			StatusCode: httpResp.StatusCode,
			Reason:     "empty response from claude",
			Raw:        rawPayload(respBody),
		}
	}

	model := apiResp.Model
	if model == "" {
		model = c.model
	}
	return Response{Text: text.String(), Model: model, Raw: rawPayload(respBody)}, nil
}

func (c *ClaudeClient) Model() string { return c.model }

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
