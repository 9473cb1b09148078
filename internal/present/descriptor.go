// Package present maps normalized tool results to what a rendering surface shows:
// a per-tool descriptor, a render block and the controls offered on it.
package present

import "docassist/internal/domain"

// AccentColor is the styling token a surface uses for a tool's panel.
type AccentColor string

const (
	AccentBlue   AccentColor = "blue"
	AccentPurple AccentColor = "purple"
	AccentGreen  AccentColor = "green"
	AccentGray   AccentColor = "gray"
)

// Descriptor carries the visual treatment for one tool.
type Descriptor struct {
	Tool              domain.ToolIdentifier `json:"tool"`
	Title             string                `json:"title"`
	Accent            AccentColor           `json:"accent"`
	NarrativeFallback string                `json:"narrative_fallback"`
}

var descriptors = map[domain.ToolIdentifier]Descriptor{
	domain.ToolSummarize: {
		Tool:              domain.ToolSummarize,
		Title:             "Summary",
		Accent:            AccentBlue,
		NarrativeFallback: "Run Summarize to get a concise overview of this document.",
	},
	domain.ToolCrossDocLink: {
		Tool:              domain.ToolCrossDocLink,
		Title:             "Cross-document links",
		Accent:            AccentPurple,
		NarrativeFallback: "Run Cross-Doc Link to find references shared with your other documents.",
	},
	domain.ToolTranslateLocalize: {
		Tool:              domain.ToolTranslateLocalize,
		Title:             "Translation",
		Accent:            AccentGreen,
		NarrativeFallback: "Run Translate & Localize to get this document in another language.",
	},
	domain.ToolUnknown: {
		Tool:              domain.ToolUnknown,
		Title:             "AI result",
		Accent:            AccentGray,
		NarrativeFallback: "Process this document with an AI tool to see the result here.",
	},
}

// Describe returns the descriptor for tool. Labels outside the table resolve to
// the Unknown descriptor, so the lookup is total.
func Describe(tool domain.ToolIdentifier) Descriptor {
	if d, ok := descriptors[tool]; ok {
		return d
	}
	return descriptors[domain.ToolUnknown]
}

// Descriptors returns the full table, keyed by tool.
func Descriptors() map[domain.ToolIdentifier]Descriptor {
	out := make(map[domain.ToolIdentifier]Descriptor, len(descriptors))
	for k, v := range descriptors {
		out[k] = v
	}
	return out
}
