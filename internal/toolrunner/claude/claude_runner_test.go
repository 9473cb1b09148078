package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
	"docassist/internal/toolrunner/claude"
)

func newTestRunner(serverURL string) *claude.Runner {
	cfg := &config.ToolProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewRunnerWithEndpoint(cfg, serverURL)
}

func TestClaudeRunner_Run_PDF_ReturnsRawText(t *testing.T) {
	raw := "{\"output\": \"Revenue grew 12%\\nCosts flat\"}"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])

		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		content := msg["content"].([]interface{})
		assert.Len(t, content, 2)
		assert.Equal(t, "document", content[0].(map[string]interface{})["type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": raw}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileName:    "q3.pdf",
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, raw, out.RawResult)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
	assert.Contains(t, out.PromptUsed, "q3.pdf")
}

func TestClaudeRunner_Run_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		doc := msg["content"].([]interface{})[0].(map[string]interface{})
		source := doc["source"].(map[string]interface{})
		assert.Equal(t, "text", source["type"])
		assert.Equal(t, "Hallo Welt", source["data"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{{"type": "text", "text": "Hello world"}},
		})
	}))
	defer server.Close()

	out, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolTranslateLocalize,
		FileBytes:   []byte("Hallo Welt"),
		ContentType: "text/plain; charset=utf-8",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello world", out.RawResult)
}

func TestClaudeRunner_Run_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
	}))
	defer server.Close()

	_, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "image/png",
	})

	var rlErr *toolrunner.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, float64(42), rlErr.RetryAfter.Seconds())
}

func TestClaudeRunner_Run_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "application/pdf",
	})

	assert.ErrorContains(t, err, "status 500")
}

func TestClaudeRunner_Run_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": "{\"output\": \"partial"}},
			"stop_reason": "max_tokens",
		})
	}))
	defer server.Close()

	_, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "application/pdf",
	})

	assert.ErrorContains(t, err, "max_tokens")
}

func TestClaudeRunner_Run_RejectsUnsupportedInput(t *testing.T) {
	r := newTestRunner("http://127.0.0.1:0")

	_, err := r.Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "application/zip",
	})
	assert.ErrorContains(t, err, "unsupported content type")

	_, err = r.Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolUnknown,
		ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedTool)
}
