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
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.1-8b-instant"
)

// GroqClient calls Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	Stats      *Stats
}

func NewGroqClient(apiKey, model, baseURL string, stats *Stats) *GroqClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultGroqModel
	}
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GroqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-call deadlines come from the context.
		httpClient: &http.Client{Timeout: 120 * time.Second},
		Stats:      stats,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the system grounding and the user prompt as one chat turn.
func (c *GroqClient) Generate(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { c.Stats.Record(time.Since(start).Milliseconds(), err != nil) }()

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, &UnavailableError{Provider: ProviderGroq, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, &UnavailableError{Provider: ProviderGroq, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
		return Response{}, &UnavailableError{
			Provider:   ProviderGroq,
			StatusCode: httpResp.StatusCode,
			Message:    string(respBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Response{}, &InvalidResponseError{
			Provider:   ProviderGroq,
			StatusCode: httpResp.StatusCode,
			Reason:     "decode response: " + err.Error(),
			Raw:        rawPayload(respBody),
		}
	}
	if parsed.Error != nil || httpResp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("unexpected status %d", httpResp.StatusCode)
		if parsed.Error != nil {
			reason = parsed.Error.Type + ": " + parsed.Error.Message
		}
		return Response{}, &InvalidResponseError{
			Provider:   ProviderGroq,
			StatusCode: httpResp.StatusCode,
			Reason:     reason,
			Raw:        rawPayload(respBody),
		}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return Response{}, &InvalidResponseError{
			Provider:   ProviderGroq,
			StatusCode: httpResp.StatusCode,
			Reason:     "no completion in choices",
			Raw:        rawPayload(respBody),
		}
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return Response{
		Text:  parsed.Choices[0].Message.Content,
		Model: model,
		Raw:   rawPayload(respBody),
	}, nil
}

func (c *GroqClient) Model() string { return c.model }

// Close releases resources.
func (c *GroqClient) Close() {
	c.httpClient.CloseIdleConnections()
}
