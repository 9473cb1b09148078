package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docassist/internal/config"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
	maxTokens    = 8192
)

// Runner implements port.ToolRunner using the Anthropic Messages API.
type Runner struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewRunner creates a Claude-backed tool runner.
func NewRunner(cfg *config.ToolProviderConfig) *Runner {
	return newRunner(cfg, apiURL)
}

// NewRunnerWithEndpoint creates a runner pointing at a custom API endpoint (for testing).
func NewRunnerWithEndpoint(cfg *config.ToolProviderConfig, endpoint string) *Runner {
	return newRunner(cfg, endpoint)
}

func newRunner(cfg *config.ToolProviderConfig, endpoint string) *Runner {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Runner{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *Runner) Run(ctx context.Context, input port.ToolInput) (*port.ToolOutput, error) {
	prompt, err := toolrunner.BuildPrompt(input)
	if err != nil {
		return nil, err
	}

	contentBlocks, err := buildContentBlocks(input, prompt)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      r.model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, toolrunner.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := toolrunner.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, toolrunner.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	text, err := extractText(respBody)
	if err != nil {
		return nil, err
	}

	return &port.ToolOutput{
		RawResult:  text,
		ModelUsed:  r.model,
		PromptUsed: prompt,
	}, nil
}

func buildContentBlocks(input port.ToolInput, prompt string) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	switch toolrunner.BaseContentType(input.ContentType) {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       base64.StdEncoding.EncodeToString(input.FileBytes),
			},
		})
	case "image/jpeg", "image/png":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": toolrunner.BaseContentType(input.ContentType),
				"data":       base64.StdEncoding.EncodeToString(input.FileBytes),
			},
		})
	case "text/plain":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "text",
				"media_type": "text/plain",
				"data":       string(input.FileBytes),
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for tool run: %s", input.ContentType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// extractText concatenates the text blocks of a response. The model's answer
// is returned as-is.
func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return sb.String(), nil
}
