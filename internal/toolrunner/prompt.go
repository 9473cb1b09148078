package toolrunner

import (
	"fmt"
	"strings"

	"docassist/internal/domain"
	"docassist/internal/port"
)

const defaultTargetLanguage = "English"

// BuildPrompt returns the instruction sent alongside the document for input.Tool.
func BuildPrompt(input port.ToolInput) (string, error) {
	name := input.FileName
	if name == "" {
		name = "the attached document"
	}

	switch input.Tool {
	case domain.ToolSummarize:
		return `You are a document assistant. Summarize ` + name + ` for a busy reader.

Return a JSON object with a single key "output" whose value is a string.
Put each key point on its own line, most important first, at most 10 lines.
Do not number or bullet the lines. Do not wrap the JSON in code fences.`, nil

	case domain.ToolCrossDocLink:
		return `You are a document assistant. Read ` + name + ` and list every reference it makes to another document
(contracts, annexes, invoices, prior correspondence, statutes, URLs).

Return a JSON object with a single key "output" whose value is an object:
{
  "links": [
    {"reference": "", "target": "", "context": ""}
  ]
}
"reference" is the text as written, "target" your best identification of the referenced document,
"context" the sentence it appears in. Use an empty "links" array when there are none.
Do not wrap the JSON in code fences.`, nil

	case domain.ToolTranslateLocalize:
		lang := strings.TrimSpace(input.TargetLanguage)
		if lang == "" {
			lang = defaultTargetLanguage
		}
		return `You are a professional translator. Translate the full text of ` + name + ` into ` + lang + `.
Adapt dates, numbers and currency formatting to the conventions of ` + lang + `.
Keep paragraph breaks. Return only the translated text, without commentary.`, nil

	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedTool, input.Tool)
	}
}
