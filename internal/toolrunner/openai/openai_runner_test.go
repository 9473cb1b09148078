package openai_test

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
	"docassist/internal/toolrunner/openai"
)

func newTestRunner(serverURL string) *openai.Runner {
	cfg := &config.ToolProviderConfig{
		Provider:     "openai",
		APIKey:       "sk-test",
		DefaultModel: "gpt-4o-mini",
	}
	return openai.NewRunnerWithEndpoint(cfg, serverURL)
}

func openAIReply(text, finish string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": text},
				"finish_reason": finish,
			},
		},
	}
}

func TestOpenAIRunner_Run_PDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o-mini", reqBody["model"])
		assert.NotNil(t, reqBody["response_format"])

		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		file := msg["content"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "file", file["type"])
		assert.Equal(t, "lease.pdf", file["file"].(map[string]interface{})["filename"])

		_ = json.NewEncoder(w).Encode(openAIReply(`{"output": "short lease"}`, "stop"))
	}))
	defer server.Close()

	out, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileName:    "lease.pdf",
		FileBytes:   []byte("%PDF"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"output": "short lease"}`, out.RawResult)
	assert.Equal(t, "gpt-4o-mini", out.ModelUsed)
}

func TestOpenAIRunner_Run_TranslationHasNoResponseFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		_, has := reqBody["response_format"]
		assert.False(t, has)

		_ = json.NewEncoder(w).Encode(openAIReply("Hola", "stop"))
	}))
	defer server.Close()

	out, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolTranslateLocalize,
		FileBytes:   []byte("Hello"),
		ContentType: "text/plain",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hola", out.RawResult)
}

func TestOpenAIRunner_Run_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "image/png",
	})

	var rlErr *toolrunner.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, float64(5), rlErr.RetryAfter.Seconds())
}

func TestOpenAIRunner_Run_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openAIReply("partial", "length"))
	}))
	defer server.Close()

	_, err := newTestRunner(server.URL).Run(context.Background(), port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileBytes:   []byte("x"),
		ContentType: "application/pdf",
	})

	assert.ErrorContains(t, err, "finish_reason: length")
}
