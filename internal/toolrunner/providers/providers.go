// Package providers registers the built-in AI providers with the toolrunner
// registry. Import it for its side effect.
package providers

import (
	"docassist/internal/config"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
	"docassist/internal/toolrunner/claude"
	"docassist/internal/toolrunner/gemini"
	"docassist/internal/toolrunner/openai"
)

const (
	Claude = "claude"
	Gemini = "gemini"
	OpenAI = "openai"
)

func init() {
	toolrunner.RegisterProvider(Claude, func(cfg *config.ToolProviderConfig) (port.ToolRunner, error) {
		return claude.NewRunner(cfg), nil
	})
	toolrunner.RegisterProvider(Gemini, func(cfg *config.ToolProviderConfig) (port.ToolRunner, error) {
		return gemini.NewRunner(cfg), nil
	})
	toolrunner.RegisterProvider(OpenAI, func(cfg *config.ToolProviderConfig) (port.ToolRunner, error) {
		return openai.NewRunner(cfg), nil
	})
}
