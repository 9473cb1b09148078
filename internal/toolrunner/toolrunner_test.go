package toolrunner_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
	"docassist/mocks"
)

func TestRateLimitError(t *testing.T) {
	base := errors.New("429 body")
	err := toolrunner.NewRateLimitError("claude", base, 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "claude rate limited")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, toolrunner.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, toolrunner.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 0, toolrunner.ParseRetryAfterHeader("-3"))
	assert.Equal(t, 30, toolrunner.ParseRetryAfterHeader("30"))
}

func TestBaseContentType(t *testing.T) {
	assert.Equal(t, "text/plain", toolrunner.BaseContentType("text/plain; charset=utf-8"))
	assert.Equal(t, "application/pdf", toolrunner.BaseContentType("Application/PDF"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", toolrunner.Truncate("abc", 5))
	assert.Equal(t, "ab...", toolrunner.Truncate("abcdef", 2))
}

func TestBuildPrompt_PerTool(t *testing.T) {
	summary, err := toolrunner.BuildPrompt(port.ToolInput{Tool: domain.ToolSummarize, FileName: "a.pdf"})
	require.NoError(t, err)
	assert.Contains(t, summary, `"output"`)
	assert.Contains(t, summary, "a.pdf")

	links, err := toolrunner.BuildPrompt(port.ToolInput{Tool: domain.ToolCrossDocLink})
	require.NoError(t, err)
	assert.Contains(t, links, `"links"`)
	assert.Contains(t, links, "the attached document")

	translation, err := toolrunner.BuildPrompt(port.ToolInput{Tool: domain.ToolTranslateLocalize, TargetLanguage: "German"})
	require.NoError(t, err)
	assert.Contains(t, translation, "into German")

	fallbackLang, err := toolrunner.BuildPrompt(port.ToolInput{Tool: domain.ToolTranslateLocalize})
	require.NoError(t, err)
	assert.Contains(t, fallbackLang, "into English")
}

func TestBuildPrompt_UnknownTool(t *testing.T) {
	_, err := toolrunner.BuildPrompt(port.ToolInput{Tool: domain.ToolUnknown})
	assert.ErrorIs(t, err, domain.ErrUnsupportedTool)
}

func TestRegisterProvider_CustomFactory(t *testing.T) {
	runner := new(mocks.MockToolRunner)
	toolrunner.RegisterProvider("test-provider", func(cfg *config.ToolProviderConfig) (port.ToolRunner, error) {
		return runner, nil
	})

	got, err := toolrunner.NewRunner(&config.ToolProviderConfig{Provider: "test-provider"})
	require.NoError(t, err)
	assert.Same(t, runner, got)
	assert.Contains(t, toolrunner.RegisteredProviders(), "test-provider")
}

func TestNewRunner_UnknownProvider(t *testing.T) {
	_, err := toolrunner.NewRunner(&config.ToolProviderConfig{Provider: "nope"})
	assert.ErrorContains(t, err, "unknown tool provider: nope")
}
