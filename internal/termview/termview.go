// Package termview draws presented tool results in a terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docassist/internal/port"
	"docassist/internal/present"
)

const minWidth = 20

var accentColors = map[present.AccentColor]lipgloss.Color{
	present.AccentBlue:   lipgloss.Color("#3B82F6"),
	present.AccentPurple: lipgloss.Color("#7D56F4"),
	present.AccentGreen:  lipgloss.Color("#10B981"),
	present.AccentGray:   lipgloss.Color("#7D7A85"),
}

// AccentColor maps a descriptor accent to a terminal color. Unknown accents are gray.
func AccentColor(a present.AccentColor) lipgloss.Color {
	if c, ok := accentColors[a]; ok {
		return c
	}
	return accentColors[present.AccentGray]
}

// Renderer draws views with one lipgloss renderer, so color support follows
// the output it was created for.
type Renderer struct {
	r *lipgloss.Renderer
}

// New returns a Renderer drawing through r.
func New(r *lipgloss.Renderer) *Renderer {
	return &Renderer{r: r}
}

// Render draws view as a titled panel width columns wide.
func (t *Renderer) Render(view present.View, width int) string {
	if width < minWidth {
		width = minWidth
	}
	accent := AccentColor(view.Descriptor.Accent)

	title := t.r.NewStyle().Bold(true).Foreground(accent).Render(view.Descriptor.Title)
	// Border plus padding take four columns.
	body := t.block(view.Block, accent, width-4)

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body)
	if hint := controlsHint(view.Controls); hint != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", t.r.NewStyle().Faint(true).Render(hint))
	}

	return t.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width - 2).
		Render(content)
}

func (t *Renderer) block(b present.Block, accent lipgloss.Color, width int) string {
	switch b.Kind {
	case present.BlockPlaceholder:
		return t.r.NewStyle().Faint(true).Italic(true).Width(width).Render(b.Text)
	case present.BlockPreformatted:
		// Preformatted text keeps its own line breaks.
		return t.r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent).
			PaddingLeft(1).
			Render(b.Text)
	case present.BlockNumberedList:
		return t.list(b.Items, accent, width)
	default:
		return t.r.NewStyle().Width(width).Render(b.Text)
	}
}

// list numbers items and wraps each under a hanging indent.
func (t *Renderer) list(items []string, accent lipgloss.Color, width int) string {
	marker := t.r.NewStyle().Foreground(accent).Bold(true)
	indent := len(fmt.Sprintf("%d. ", len(items)))

	lines := make([]string, len(items))
	for i, item := range items {
		num := marker.Width(indent).Render(fmt.Sprintf("%d.", i+1))
		text := t.r.NewStyle().Width(max(width-indent, 1)).Render(item)
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, num, text)
	}
	return strings.Join(lines, "\n")
}

func controlsHint(c present.Controls) string {
	var hints []string
	if c.Copy {
		hints = append(hints, "-copy to copy")
	}
	if c.Edit {
		hints = append(hints, "editable in the web app")
	}
	return strings.Join(hints, " • ")
}

// Toast draws a one-line notification.
func (t *Renderer) Toast(n port.Notification) string {
	icon, color := "✓", lipgloss.Color("#00AA00")
	if n.Level == port.NotificationError {
		icon, color = "✗", lipgloss.Color("#CC0000")
	}
	return t.r.NewStyle().Foreground(color).Bold(true).Render(icon) + " " + n.Message
}
