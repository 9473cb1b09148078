package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"docassist/internal/present"
)

// Markdown renders rows as a markdown report, one section per run, using the
// same render policy as the preview panel.
func Markdown(rows []Row) string {
	var b strings.Builder
	b.WriteString("# Tool runs\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "\n## %s\n\n", r.Title)
		meta := []string{string(r.Tool), string(r.Status)}
		if ts := formatTime(r.CreatedAt); ts != "" {
			meta = append(meta, ts)
		}
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
		if r.Error != "" {
			fmt.Fprintf(&b, "> %s\n\n", r.Error)
		}
		b.WriteString(blockMarkdown(present.Render(r.model, present.Describe(r.Tool).NarrativeFallback)))
	}
	return b.String()
}

func blockMarkdown(block present.Block) string {
	switch block.Kind {
	case present.BlockPreformatted:
		fence := "```"
		for strings.Contains(block.Text, fence) {
			fence += "`"
		}
		return fmt.Sprintf("%sjson\n%s\n%s\n", fence, block.Text, fence)
	case present.BlockNumberedList:
		var b strings.Builder
		for i, item := range block.Items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
		return b.String()
	case present.BlockPlaceholder:
		return "_" + strings.TrimSpace(block.Text) + "_\n"
	default:
		// Hard breaks keep the paragraph's own line breaks.
		return strings.ReplaceAll(strings.TrimSpace(block.Text), "\n", "  \n") + "\n"
	}
}

// WriteHTML renders rows as a standalone HTML page. Raw HTML in results is
// not passed through.
func WriteHTML(out io.Writer, rows []Row, title string) error {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(Markdown(rows)), &body); err != nil {
		return fmt.Errorf("export.WriteHTML: %w", err)
	}
	_, err := fmt.Fprintf(out,
		"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}
