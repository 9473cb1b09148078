package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

// Runner implements port.ToolRunner using the OpenAI Chat Completions API.
type Runner struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewRunner creates an OpenAI-backed tool runner.
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
		"model":                 r.model,
		"max_completion_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}
	if input.Tool != domain.ToolTranslateLocalize {
		reqBody["response_format"] = map[string]interface{}{
			"type": "json_object",
		}
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
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, toolrunner.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := toolrunner.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, toolrunner.NewRateLimitError("openai", baseErr, retryAfter)
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

	switch ct := toolrunner.BaseContentType(input.ContentType); ct {
	case "application/pdf":
		filename := input.FileName
		if filename == "" {
			filename = "document.pdf"
		}
		blocks = append(blocks, map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  filename,
				"file_data": dataURI(ct, input.FileBytes),
			},
		})
	case "image/jpeg", "image/png":
		blocks = append(blocks, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURI(ct, input.FileBytes),
			},
		})
	case "text/plain":
		blocks = append(blocks, map[string]interface{}{
			"type": "text",
			"text": string(input.FileBytes),
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

func dataURI(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return resp.Choices[0].Message.Content, nil
}
