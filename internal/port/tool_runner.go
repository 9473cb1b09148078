package port

import (
	"context"

	"docassist/internal/domain"
)

// ToolInput carries one document to an AI tool.
type ToolInput struct {
	Tool           domain.ToolIdentifier
	FileName       string
	FileBytes      []byte
	ContentType    string
	TargetLanguage string // translate_localize only
}

// ToolOutput is what a provider returned, untouched. Shaping it for display is
// left to the normalizer.
type ToolOutput struct {
	RawResult  string
	ModelUsed  string
	PromptUsed string
}

// ToolRunner invokes an AI tool against a document.
type ToolRunner interface {
	Run(ctx context.Context, input ToolInput) (*ToolOutput, error)
}
