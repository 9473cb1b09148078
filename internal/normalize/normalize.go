// Package normalize turns raw AI tool output into a DisplayModel.
//
// Tool responses arrive as plain prose, a bare JSON value, a JSON object carrying
// an "output" field, or a JSON-encoded string. Normalize collapses all of these
// into one of four shapes so renderers never look at the origin format.
package normalize

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

const (
	outputKey    = "output"
	indentPrefix = ""
	indentUnit   = "  "
)

var (
	// Leading horizontal whitespace goes with the word so "the output is" becomes "the is".
	outputWordRe = regexp.MustCompile(`(?i)[ \t]*\boutput\b`)
	lineBreakRe  = regexp.MustCompile(`\n+`)
)

// Normalize classifies raw into a DisplayModel. It never fails: malformed JSON
// falls back to text classification and blank input yields Empty.
func Normalize(raw string) DisplayModel {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Empty{}
	}

	if text[0] == '{' || text[0] == '[' {
		if payload, ok := extractPayload(text); ok {
			if s, ok := jsonString(payload); ok {
				return ClassifyText(s)
			}
			return StructuredObject{Text: indent(payload)}
		}
	}

	return ClassifyText(text)
}

// ClassifyText runs the text path of Normalize: strip the standalone word
// "output", then split into lines. It never attempts JSON parsing.
func ClassifyText(s string) DisplayModel {
	cleaned := strings.TrimSpace(outputWordRe.ReplaceAllString(strings.TrimSpace(s), ""))
	if cleaned == "" {
		return Empty{}
	}
	return classifyLines(cleaned)
}

// FromEdited builds the model shown after a user commits edited text. Structured
// results stay preformatted; everything else is split into lines again without
// keyword stripping, since the user wrote the text deliberately.
func FromEdited(prev DisplayModel, text string) DisplayModel {
	if strings.TrimSpace(text) == "" {
		return Empty{}
	}
	if _, ok := prev.(StructuredObject); ok {
		return StructuredObject{Text: text}
	}
	return classifyLines(strings.TrimSpace(text))
}

func classifyLines(text string) DisplayModel {
	var items []string
	for _, piece := range lineBreakRe.Split(text, -1) {
		if piece = strings.TrimSpace(piece); piece != "" {
			items = append(items, piece)
		}
	}
	if len(items) >= 2 {
		return LineList{Items: items}
	}
	return Paragraph{Text: text}
}

// extractPayload parses text as JSON and returns the value to display: the
// "output" member of an object when present, otherwise the whole value.
func extractPayload(text string) (json.RawMessage, bool) {
	var value json.RawMessage
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}
	if text[0] != '{' {
		return value, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return value, true
	}
	if out, ok := fields[outputKey]; ok {
		return out, true
	}
	return value, true
}

// jsonString decodes raw when it is a JSON string literal. null is not a string.
func jsonString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// indent pretty-prints a JSON value, keeping member order and number literals
// exactly as the tool sent them.
func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, indentPrefix, indentUnit); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
