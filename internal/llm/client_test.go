package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqServer(t *testing.T, status int, body string, inspect func(*http.Request, chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req chatRequest
		_ = json.Unmarshal(raw, &req)
		if inspect != nil {
			inspect(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGroqClient_Success(t *testing.T) {
	var seen chatRequest
	var auth, path string
	srv := newGroqServer(t, http.StatusOK,
		`{"model":"llama-3.1-8b-instant","choices":[{"message":{"role":"assistant","content":"It is a contract."}}]}`,
		func(r *http.Request, req chatRequest) {
			seen = req
			auth = r.Header.Get("Authorization")
			path = r.URL.Path
		})

	stats := NewStats(time.Hour)
	c := NewGroqClient("sk-test", "", srv.URL, stats)
	resp, err := c.Generate(context.Background(), Request{
		System:      "ground",
		Prompt:      "What is this?",
		Temperature: 0.3,
		MaxTokens:   256,
	})
	require.NoError(t, err)

	assert.Equal(t, "It is a contract.", resp.Text)
	assert.Equal(t, "llama-3.1-8b-instant", resp.Model)
	assert.NotEmpty(t, resp.Raw)

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, DefaultGroqModel, seen.Model)
	assert.Equal(t, 0.3, seen.Temperature)
	assert.Equal(t, 256, seen.MaxTokens)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "ground", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "What is this?", seen.Messages[1].Content)

	assert.Equal(t, 1, stats.Snapshot().Count)
}

func TestGroqClient_EmptyChoicesIsInvalid(t *testing.T) {
	srv := newGroqServer(t, http.StatusOK, `{"choices":[]}`, nil)
	c := NewGroqClient("k", "m", srv.URL, nil)

	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.JSONEq(t, `{"choices":[]}`, string(invalid.Raw))
}

func TestGroqClient_ProviderErrorObjectIsInvalid(t *testing.T) {
	body := `{"error":{"type":"invalid_request_error","message":"model not found"}}`
	srv := newGroqServer(t, http.StatusBadRequest, body, nil)
	c := NewGroqClient("k", "m", srv.URL, nil)

	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Contains(t, invalid.Reason, "model not found")
	assert.JSONEq(t, body, string(invalid.Raw))
}

func TestGroqClient_NonJSONBodyIsInvalid(t *testing.T) {
	srv := newGroqServer(t, http.StatusOK, `<html>oops</html>`, nil)
	c := NewGroqClient("k", "m", srv.URL, nil)

	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, `"<html>oops</html>"`, string(invalid.Raw))
}

func TestGroqClient_RateLimitAndServerErrorsAreUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := newGroqServer(t, status, `{"error":{"message":"busy"}}`, nil)
		stats := NewStats(time.Hour)
		c := NewGroqClient("k", "m", srv.URL, stats)

		_, err := c.Generate(context.Background(), Request{Prompt: "q"})
		var unavailable *UnavailableError
		require.ErrorAs(t, err, &unavailable, "status %d", status)
		assert.Equal(t, status, unavailable.StatusCode)
		assert.Equal(t, 1, stats.Snapshot().Failures)
	}
}

func TestGroqClient_DeadlineIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewGroqClient("k", "m", srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, Request{Prompt: "q"})
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClaudeClient_Success(t *testing.T) {
	var seen anthropicRequest
	var key, version string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		key = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &seen)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"claude-x","content":[{"type":"text","text":"Hola."},{"type":"text","text":" Adiós."}]}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("ak", "claude-x", srv.URL, nil)
	resp, err := c.Generate(context.Background(), Request{System: "sys", Prompt: "hola", Temperature: 0.2})
	require.NoError(t, err)

	assert.Equal(t, "Hola. Adiós.", resp.Text)
	assert.Equal(t, "ak", key)
	assert.Equal(t, anthropicVersion, version)
	assert.Equal(t, "sys", seen.System)
	assert.Equal(t, 1024, seen.MaxTokens)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "hola", seen.Messages[0].Content)
}

func TestClaudeClient_EmptyContentIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("ak", "", srv.URL, nil)
	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
}

func TestClaudeClient_OverloadedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("ak", "", srv.URL, nil)
	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 529, unavailable.StatusCode)
}

func TestNew(t *testing.T) {
	g, err := New(Options{Provider: "groq", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &GroqClient{}, g)
	assert.Equal(t, DefaultGroqModel, g.Model())

	g, err = New(Options{Provider: "Anthropic", APIKey: "k", Model: "claude-y"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, g)
	assert.Equal(t, "claude-y", g.Model())

	_, err = New(Options{Provider: "openai"})
	assert.Error(t, err)
}
